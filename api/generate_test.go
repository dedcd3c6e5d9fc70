package api

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/config"
	"github.com/warp/roster-engine/roster"
	"github.com/warp/roster-engine/store"
	"github.com/warp/roster-engine/store/memory"
)

func intPtr(v int) *int { return &v }

func TestSyntheticStaff(t *testing.T) {
	assert.Equal(t, []roster.EmployeeID{"Employee 1", "Employee 2", "Employee 3"}, SyntheticStaff(3))
	assert.Empty(t, SyntheticStaff(0))
}

func TestGenerator_StaffPrecedence(t *testing.T) {
	// GIVEN: A directory with four people
	st := memory.New()
	ctx := context.Background()
	for i, name := range []string{"Dir A", "Dir B", "Dir C", "Dir D"} {
		require.NoError(t, st.CreateEmployee(ctx, store.Employee{ID: name, Name: name, CreatedAt: time.Unix(int64(i), 0)}))
	}
	gen := NewGenerator(st, config.DefaultRosterDefaults(), nil, zerolog.Nop())

	month := intPtr(1)
	year := intPtr(2025)

	// Explicit names win over everything
	out, err := gen.Generate(ctx, GenerateRequest{
		Year: year, Month: month,
		Employees:     []string{"Ana", "Ben", "Cy", "Dee"},
		TotalEmployee: intPtr(9),
	})
	require.NoError(t, err)
	assert.Contains(t, out.Response.Summary.MonthlyHourBreakdown, "Ana")
	assert.Len(t, out.Response.Summary.MonthlyHourBreakdown, 4)

	// Then total_employee
	out, err = gen.Generate(ctx, GenerateRequest{Year: year, Month: month, TotalEmployee: intPtr(5)})
	require.NoError(t, err)
	assert.Contains(t, out.Response.Summary.MonthlyHourBreakdown, "Employee 5")

	// Then the directory
	out, err = gen.Generate(ctx, GenerateRequest{Year: year, Month: month})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dir A", "Dir B"}, out.Response.Schedules[0].Employees)
}

func TestGenerator_Overrides(t *testing.T) {
	gen := NewGenerator(nil, config.DefaultRosterDefaults(), nil, zerolog.Nop())
	threshold := 60.0

	// WHEN: One 10h shift of one person from 09:00 with a 60h threshold
	out, err := gen.Generate(context.Background(), GenerateRequest{
		Year:                intPtr(2025),
		Month:               intPtr(10),
		ShiftsPerDay:        intPtr(1),
		OpeningHour:         intPtr(9),
		HoursPerShift:       intPtr(10),
		EmployeesPerShift:   intPtr(1),
		WeeklyHourThreshold: &threshold,
		TotalEmployee:       intPtr(2),
	})

	// THEN: The overrides drive the windows and the overworked list
	require.NoError(t, err)
	require.Len(t, out.Response.Schedules, 30)
	assert.Equal(t, "09:00", out.Response.Schedules[0].ShiftStart)
	assert.Equal(t, "19:00", out.Response.Schedules[0].ShiftEnd)
	assert.Empty(t, out.Response.Summary.OverworkedEmployees)
	assert.Equal(t, 1, out.Result.Config.ShiftsPerDay)
}

func TestGenerator_SaveWithoutStore(t *testing.T) {
	gen := NewGenerator(nil, config.DefaultRosterDefaults(), nil, zerolog.Nop())

	_, err := gen.Generate(context.Background(), GenerateRequest{
		Year: intPtr(2025), Month: intPtr(10), TotalEmployee: intPtr(4), Save: true,
	})
	assert.ErrorIs(t, err, ErrNoStore)
}

func TestGenerator_NoStoreNoStaff(t *testing.T) {
	gen := NewGenerator(nil, config.DefaultRosterDefaults(), nil, zerolog.Nop())

	_, err := gen.Generate(context.Background(), GenerateRequest{Month: intPtr(3)})

	var cfgErr *roster.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "employees", cfgErr.Field)
}
