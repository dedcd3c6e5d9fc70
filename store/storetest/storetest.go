// Package storetest holds the behavioural suite every store.Store must pass.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/store"
)

// Factory returns a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) store.Store

// Run exercises the full store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"EmployeesKeepCreationOrder", testEmployeesKeepCreationOrder},
		{"EmployeeNamesAreUnique", testEmployeeNamesAreUnique},
		{"RenameEmployee", testRenameEmployee},
		{"MissingEmployee", testMissingEmployee},
		{"HolidaysInMonth", testHolidaysInMonth},
		{"HolidayUpsert", testHolidayUpsert},
		{"RosterRoundTrip", testRosterRoundTrip},
		{"FindRosterForMonthPrefersNewest", testFindRosterForMonthPrefersNewest},
		{"MissingRoster", testMissingRoster},
		{"Reset", testReset},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { s.Close() })
			tc.fn(t, s)
		})
	}
}

func addEmployees(t *testing.T, s store.Store, names ...string) {
	t.Helper()
	// Same timestamp for everyone: order must not depend on it.
	createdAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, name := range names {
		require.NoError(t, s.CreateEmployee(context.Background(), store.Employee{
			ID:        "emp-" + name,
			Name:      name,
			CreatedAt: createdAt,
		}))
	}
}

func names(emps []store.Employee) []string {
	out := make([]string, len(emps))
	for i, e := range emps {
		out[i] = e.Name
	}
	return out
}

func testEmployeesKeepCreationOrder(t *testing.T, s store.Store) {
	ctx := context.Background()

	// GIVEN: Employees created out of alphabetical order
	addEmployees(t, s, "zoe", "adam", "mia")

	// WHEN: Listing
	emps, err := s.ListEmployees(ctx)
	require.NoError(t, err)

	// THEN: Creation order is kept
	assert.Equal(t, []string{"zoe", "adam", "mia"}, names(emps))

	// AND: Deleting from the middle keeps the rest in order
	require.NoError(t, s.DeleteEmployee(ctx, "emp-adam"))
	emps, err = s.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"zoe", "mia"}, names(emps))
}

func testEmployeeNamesAreUnique(t *testing.T, s store.Store) {
	addEmployees(t, s, "ana")

	err := s.CreateEmployee(context.Background(), store.Employee{ID: "emp-other", Name: "ana"})
	assert.ErrorIs(t, err, store.ErrDuplicateEmployee)
}

func testRenameEmployee(t *testing.T, s store.Store) {
	ctx := context.Background()
	addEmployees(t, s, "ana", "ben")

	emp, err := s.RenameEmployee(ctx, "emp-ana", "anna")
	require.NoError(t, err)
	assert.Equal(t, "anna", emp.Name)

	got, err := s.GetEmployee(ctx, "emp-ana")
	require.NoError(t, err)
	assert.Equal(t, "anna", got.Name)

	_, err = s.RenameEmployee(ctx, "emp-ana", "ben")
	assert.ErrorIs(t, err, store.ErrDuplicateEmployee)

	emps, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"anna", "ben"}, names(emps))
}

func testMissingEmployee(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.GetEmployee(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrEmployeeNotFound)
	assert.True(t, store.IsNotFound(err))

	_, err = s.RenameEmployee(ctx, "nope", "x")
	assert.ErrorIs(t, err, store.ErrEmployeeNotFound)

	assert.ErrorIs(t, s.DeleteEmployee(ctx, "nope"), store.ErrEmployeeNotFound)
}

func saveHoliday(t *testing.T, s store.Store, h store.Holiday) *store.Holiday {
	t.Helper()
	saved, err := s.SaveHoliday(context.Background(), h)
	require.NoError(t, err)
	return saved
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testHolidaysInMonth(t *testing.T, s store.Store) {
	ctx := context.Background()

	// GIVEN: A recurring Christmas from 2020, a one-off in Dec 2025, one in Dec 2024
	saveHoliday(t, s, store.Holiday{ID: "h1", Date: day(2020, time.December, 25), Name: "Christmas", Recurring: true})
	saveHoliday(t, s, store.Holiday{ID: "h2", Date: day(2025, time.December, 8), Name: "Inventory"})
	saveHoliday(t, s, store.Holiday{ID: "h3", Date: day(2024, time.December, 9), Name: "Old"})
	saveHoliday(t, s, store.Holiday{ID: "h4", Date: day(2025, time.November, 27), Name: "Thanksgiving"})

	// WHEN: Asking for December 2025
	got, err := s.HolidaysInMonth(ctx, 2025, 11)
	require.NoError(t, err)

	// THEN: The one-off of that year and the recurring one moved to 2025
	require.Len(t, got, 2)
	assert.Equal(t, "Inventory", got[0].Name)
	assert.Equal(t, "Christmas", got[1].Name)
	assert.Equal(t, day(2025, time.December, 25), got[1].Date)

	all, err := s.ListHolidays(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	require.NoError(t, s.DeleteHoliday(ctx, "h2"))
	assert.ErrorIs(t, s.DeleteHoliday(ctx, "h2"), store.ErrHolidayNotFound)
}

func testHolidayUpsert(t *testing.T, s store.Store) {
	ctx := context.Background()

	first := saveHoliday(t, s, store.Holiday{ID: "h1", Date: day(2025, time.May, 1), Name: "Labour Day"})
	assert.Equal(t, "h1", first.ID)

	// Saving the same day and name again returns the stored id, not the new one
	again := saveHoliday(t, s, store.Holiday{ID: "h2", Date: day(2025, time.May, 1), Name: "Labour Day", Recurring: true})
	assert.Equal(t, "h1", again.ID)
	assert.True(t, again.Recurring)

	all, err := s.ListHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "h1", all[0].ID)
	assert.True(t, all[0].Recurring)
}

func testRosterRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	rec := store.RosterRecord{
		ID:          "r1",
		Year:        2025,
		MonthIndex:  10,
		Source:      store.SourceAPI,
		PayloadJSON: `{"message":"success create schedule"}`,
	}
	require.NoError(t, s.SaveRoster(ctx, rec))

	got, err := s.GetRoster(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, rec.PayloadJSON, got.PayloadJSON)
	assert.Equal(t, 10, got.MonthIndex)
	assert.Equal(t, store.SourceAPI, got.Source)
	assert.False(t, got.CreatedAt.IsZero())

	list, err := s.ListRosters(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.DeleteRoster(ctx, "r1"))
	list, err = s.ListRosters(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testFindRosterForMonthPrefersNewest(t *testing.T, s store.Store) {
	ctx := context.Background()
	base := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveRoster(ctx, store.RosterRecord{ID: "old", Year: 2025, MonthIndex: 10, Source: store.SourceScheduler, PayloadJSON: "{}", CreatedAt: base}))
	require.NoError(t, s.SaveRoster(ctx, store.RosterRecord{ID: "new", Year: 2025, MonthIndex: 10, Source: store.SourceAPI, PayloadJSON: "{}", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, s.SaveRoster(ctx, store.RosterRecord{ID: "dec", Year: 2025, MonthIndex: 11, Source: store.SourceAPI, PayloadJSON: "{}", CreatedAt: base.Add(2 * time.Hour)}))

	got, err := s.FindRosterForMonth(ctx, 2025, 10)
	require.NoError(t, err)
	assert.Equal(t, "new", got.ID)

	_, err = s.FindRosterForMonth(ctx, 2026, 0)
	assert.ErrorIs(t, err, store.ErrRosterNotFound)

	list, err := s.ListRosters(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"dec", "new", "old"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func testMissingRoster(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.GetRoster(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrRosterNotFound)
	assert.ErrorIs(t, s.DeleteRoster(ctx, "nope"), store.ErrRosterNotFound)
}

func testReset(t *testing.T, s store.Store) {
	ctx := context.Background()
	addEmployees(t, s, "ana", "ben")
	saveHoliday(t, s, store.Holiday{ID: "h1", Date: day(2025, time.May, 1), Name: "Labour Day"})
	require.NoError(t, s.SaveRoster(ctx, store.RosterRecord{ID: "r1", Year: 2025, Source: store.SourceAPI, PayloadJSON: "{}"}))

	require.NoError(t, s.Reset(ctx))

	emps, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, emps)
	hs, err := s.ListHolidays(ctx)
	require.NoError(t, err)
	assert.Empty(t, hs)
	rs, err := s.ListRosters(ctx)
	require.NoError(t, err)
	assert.Empty(t, rs)

	// Names are free again after a reset.
	addEmployees(t, s, "ana")
}
