package roster_test

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/roster"
)

func novemberConfig() roster.Config {
	return roster.Config{
		Year:              2025,
		MonthIndex:        10,
		ShiftsPerDay:      2,
		OpeningHour:       7,
		HoursPerShift:     8,
		EmployeesPerShift: 2,
	}
}

var fourStaff = []roster.EmployeeID{"Employee 1", "Employee 2", "Employee 3", "Employee 4"}

func TestGenerate_NovemberEndToEnd(t *testing.T) {
	// GIVEN: 4 employees, 2 shifts of 8h from 07:00, 2 per shift, November
	// WHEN: Generating the roster
	result, err := roster.Generate(novemberConfig(), fourStaff)
	require.NoError(t, err)

	// THEN: Two entries per day, each with 1 or 2 employees
	require.Len(t, result.Assignments, 60)
	slots := 0
	for _, a := range result.Assignments {
		assert.Contains(t, []int{1, 2}, len(a.Employees))
		slots += len(a.Employees)
	}

	// AND: Monthly hours reconcile with the employee slots
	total := decimal.Zero
	for _, eh := range result.Summary.MonthlyHours {
		total = total.Add(eh.Hours)
	}
	assert.True(t, total.Equal(decimal.NewFromInt(int64(slots*8))))
	assert.Equal(t, 120, slots)

	// AND: First day uses the derived windows
	assert.Equal(t, "2025-11-01", result.Assignments[0].Date.String())
	assert.Equal(t, "07:00", result.Assignments[0].Shift.Start.String())
	assert.Equal(t, "15:00", result.Assignments[0].Shift.End.String())
	assert.Equal(t, "15:00", result.Assignments[1].Shift.Start.String())
	assert.Equal(t, "23:00", result.Assignments[1].Shift.End.String())
}

func TestGenerate_NovemberSummary(t *testing.T) {
	result, err := roster.Generate(novemberConfig(), fourStaff)
	require.NoError(t, err)
	summary := result.Summary

	// Everyone works every day: 56h in each full week, 16h in week 5 (29th-30th).
	require.Len(t, summary.WeeklyHours, 5)
	for _, wh := range summary.WeeklyHours[:4] {
		for _, eh := range wh.Employees {
			assert.True(t, eh.Hours.Equal(decimal.NewFromInt(56)), "%s %s", wh.Week, eh.Employee)
		}
	}
	for _, eh := range summary.WeeklyHours[4].Employees {
		assert.True(t, eh.Hours.Equal(decimal.NewFromInt(16)))
	}

	assert.Len(t, summary.Overworked, 16)
	assert.True(t, summary.MedianWeeklyHours.Equal(decimal.NewFromInt(56)))
	assert.True(t, summary.HoursFor("Employee 3").Equal(decimal.NewFromInt(240)))
}

func TestGenerate_CustomThreshold(t *testing.T) {
	cfg := novemberConfig()
	threshold := decimal.NewFromInt(56)
	cfg.WeeklyHourThreshold = &threshold

	result, err := roster.Generate(cfg, fourStaff)
	require.NoError(t, err)
	assert.Empty(t, result.Summary.Overworked, "56h is not strictly above 56h")
}

func TestGenerate_DefaultHoursPerShift(t *testing.T) {
	cfg := novemberConfig()
	cfg.HoursPerShift = 0
	cfg.ShiftsPerDay = 3
	cfg.EmployeesPerShift = 1

	result, err := roster.Generate(cfg, fourStaff)
	require.NoError(t, err)
	assert.Equal(t, 8, result.Config.HoursPerShift)
	assert.Equal(t, "23:00", result.Assignments[1].Shift.End.String())
}

func TestGenerate_Holidays(t *testing.T) {
	cfg := novemberConfig()
	cfg.Holidays = []roster.DateKey{
		roster.NewDateKey(2025, time.November, 27),
		roster.NewDateKey(2025, time.December, 25),
	}

	result, err := roster.Generate(cfg, fourStaff)
	require.NoError(t, err)

	assert.Len(t, result.Assignments, 58)
	for _, a := range result.Assignments {
		assert.NotEqual(t, 27, a.Date.Day)
	}
}

func TestGenerate_EmptyStaffIsNotAnError(t *testing.T) {
	result, err := roster.Generate(novemberConfig(), nil)
	require.NoError(t, err)

	assert.Empty(t, result.Assignments)
	assert.Empty(t, result.Summary.MonthlyHours)
	assert.True(t, result.Summary.MedianWeeklyHours.IsZero())
}

func TestGenerate_InvalidConfig(t *testing.T) {
	negative := decimal.NewFromInt(-1)
	cases := []struct {
		name  string
		tweak func(*roster.Config)
		field string
	}{
		{"month", func(c *roster.Config) { c.MonthIndex = 12 }, "month"},
		{"shifts", func(c *roster.Config) { c.ShiftsPerDay = 0 }, "shifts_per_day"},
		{"hours", func(c *roster.Config) { c.HoursPerShift = -2 }, "hours_per_shift"},
		{"per shift", func(c *roster.Config) { c.EmployeesPerShift = 0 }, "employees_per_shift"},
		{"opening", func(c *roster.Config) { c.OpeningHour = 24 }, "opening_hour"},
		{"threshold", func(c *roster.Config) { c.WeeklyHourThreshold = &negative }, "weekly_hour_threshold"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := novemberConfig()
			tc.tweak(&cfg)

			_, err := roster.Generate(cfg, fourStaff)
			var cfgErr *roster.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.field, cfgErr.Field)
			assert.True(t, roster.IsClientError(err))
		})
	}
}

func TestGenerate_RejectsDuplicateOrBlankEmployees(t *testing.T) {
	_, err := roster.Generate(novemberConfig(), []roster.EmployeeID{"ana", "ben", "ana"})
	assert.ErrorIs(t, err, roster.ErrDuplicateEmployee)

	_, err = roster.Generate(novemberConfig(), []roster.EmployeeID{"ana", "  "})
	assert.ErrorIs(t, err, roster.ErrInvalidConfig)
}

func TestGenerate_Deterministic(t *testing.T) {
	first, err := roster.Generate(novemberConfig(), fourStaff)
	require.NoError(t, err)
	second, err := roster.Generate(novemberConfig(), fourStaff)
	require.NoError(t, err)

	assert.Equal(t, first.Assignments, second.Assignments)
	assert.Equal(t, first.Summary.Overworked, second.Summary.Overworked)
}

func TestGenerate_ConcurrentCallsAreIndependent(t *testing.T) {
	want, err := roster.Generate(novemberConfig(), fourStaff)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*roster.Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = roster.Generate(novemberConfig(), fourStaff)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		require.NotNil(t, got)
		assert.Equal(t, want.Assignments, got.Assignments)
	}
}

// =============================================================================
// PRECONDITIONS
// =============================================================================

func TestCheckPreconditions(t *testing.T) {
	cfg := novemberConfig()

	assert.NoError(t, roster.CheckPreconditions(cfg, 4, false))
	assert.ErrorIs(t, roster.CheckPreconditions(cfg, 0, false), roster.ErrInvalidConfig)
	assert.ErrorIs(t, roster.CheckPreconditions(cfg, 1, true), roster.ErrInvalidConfig, "2 per shift with 1 employee")

	var staffErr *roster.InsufficientStaffError
	err := roster.CheckPreconditions(cfg, 3, false)
	require.ErrorAs(t, err, &staffErr)
	assert.Equal(t, 4, staffErr.Required)
	assert.ErrorIs(t, err, roster.ErrInsufficientStaff)

	assert.NoError(t, roster.CheckPreconditions(cfg, 3, true), "understaffing allowed")

	overlong := cfg
	overlong.ShiftsPerDay = 3
	overlong.HoursPerShift = 10
	assert.ErrorIs(t, roster.CheckPreconditions(overlong, 10, false), roster.ErrInvalidConfig)
}
