package roster_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/roster"
)

func plan(t *testing.T, employees []roster.EmployeeID, monthIndex, shifts, hours, perShift int) ([]roster.Assignment, *roster.HourLedger) {
	t.Helper()
	dates, err := roster.DeriveMonthDates(2025, monthIndex)
	require.NoError(t, err)
	windows, err := roster.DeriveShiftWindows(7, shifts, hours)
	require.NoError(t, err)

	ledger := roster.NewHourLedger(employees)
	planner := roster.NewPlanner(ledger, hours, perShift)
	return planner.Plan(employees, dates, windows), ledger
}

func TestPlanner_NoDoubleBookingAndCapacity(t *testing.T) {
	staff := []roster.EmployeeID{"ana", "ben", "cy", "dee", "eve"}
	assignments, _ := plan(t, staff, 2, 3, 8, 2)

	perDay := make(map[roster.DateKey]map[roster.EmployeeID]int)
	for _, a := range assignments {
		assert.LessOrEqual(t, len(a.Employees), 2, "capacity on %s %s", a.Date, a.Shift)
		assert.NotEmpty(t, a.Employees)
		if perDay[a.Date] == nil {
			perDay[a.Date] = make(map[roster.EmployeeID]int)
		}
		for _, e := range a.Employees {
			perDay[a.Date][e]++
		}
	}
	for date, counts := range perDay {
		for e, n := range counts {
			assert.Equal(t, 1, n, "%s works %d shifts on %s", e, n, date)
		}
	}
}

func TestPlanner_HourConservation(t *testing.T) {
	staff := []roster.EmployeeID{"ana", "ben", "cy"}
	assignments, ledger := plan(t, staff, 0, 2, 8, 2)

	shifts := make(map[roster.EmployeeID]int64)
	for _, a := range assignments {
		for _, e := range a.Employees {
			shifts[e]++
		}
	}
	for _, e := range staff {
		assert.Equal(t, shifts[e]*8, ledger.Monthly(e).IntPart(), "employee %s", e)
	}
}

func TestPlanner_EveryShiftCoveredWhenStaffAllows(t *testing.T) {
	// 3 shifts a day, exactly 3 employees: every slot gets someone.
	staff := []roster.EmployeeID{"ana", "ben", "cy"}
	assignments, _ := plan(t, staff, 3, 3, 8, 1)

	assert.Len(t, assignments, 30*3)
}

func TestPlanner_TooFewEmployeesLeavesShiftsOut(t *testing.T) {
	// GIVEN: one employee, two shifts a day
	// THEN: only the first shift of each day is staffed, nothing fails
	assignments, ledger := plan(t, []roster.EmployeeID{"solo"}, 10, 2, 8, 1)

	require.Len(t, assignments, 30)
	for _, a := range assignments {
		assert.Equal(t, 0, a.Shift.Index)
	}
	assert.Equal(t, int64(240), ledger.Monthly("solo").IntPart())
}

func TestPlanner_UnderstaffedShiftsBelowCapacity(t *testing.T) {
	// 3 employees for 2 shifts of 2: the evening shift only gets one person.
	staff := []roster.EmployeeID{"ana", "ben", "cy"}
	assignments, _ := plan(t, staff, 10, 2, 8, 2)

	require.Len(t, assignments, 60)
	for _, a := range assignments {
		if a.Shift.Index == 1 {
			assert.Len(t, a.Employees, 1)
		}
	}
}

func TestPlanner_EmptyStaff(t *testing.T) {
	assignments, ledger := plan(t, nil, 10, 2, 8, 2)

	assert.Empty(t, assignments)
	assert.Empty(t, ledger.MonthlyHours())
	assert.Empty(t, ledger.WeeklyHours())
}

func TestPlanner_TiesFollowInputOrder(t *testing.T) {
	// GIVEN: Two employees, one single-person shift per day
	// THEN: they alternate, starting with the first in input order
	staff := []roster.EmployeeID{"zoe", "adam"}
	assignments, _ := plan(t, staff, 10, 1, 8, 1)

	require.Len(t, assignments, 30)
	for i, a := range assignments {
		want := staff[i%2]
		assert.Equal(t, []roster.EmployeeID{want}, a.Employees, "day %d", i+1)
	}
}

func TestPlanner_ResortsBetweenShiftsOfTheSameDay(t *testing.T) {
	// Day 1: morning goes to ana and ben; the evening must pick cy and dee,
	// the least loaded after the morning commit.
	staff := []roster.EmployeeID{"ana", "ben", "cy", "dee"}
	assignments, _ := plan(t, staff, 10, 2, 8, 2)

	assert.Equal(t, []roster.EmployeeID{"ana", "ben"}, assignments[0].Employees)
	assert.Equal(t, []roster.EmployeeID{"cy", "dee"}, assignments[1].Employees)
	assert.Equal(t, roster.NewDateKey(2025, time.November, 1), assignments[1].Date)
}

func TestPlanner_OrderIsCalendarThenShift(t *testing.T) {
	staff := []roster.EmployeeID{"ana", "ben", "cy", "dee"}
	assignments, _ := plan(t, staff, 1, 2, 8, 1)

	for i := 1; i < len(assignments); i++ {
		prev, cur := assignments[i-1], assignments[i]
		if prev.Date == cur.Date {
			assert.Less(t, prev.Shift.Index, cur.Shift.Index)
		} else {
			assert.True(t, prev.Date.Before(cur.Date))
		}
	}
}

func TestPlanner_BalancesHours(t *testing.T) {
	staff := []roster.EmployeeID{"ana", "ben", "cy", "dee", "eve"}
	_, ledger := plan(t, staff, 0, 2, 8, 1)

	// 31 days x 2 shifts x 8h = 496h over 5 people; greedy keeps them within one shift.
	lo, hi := ledger.Monthly(staff[0]), ledger.Monthly(staff[0])
	for _, e := range staff {
		h := ledger.Monthly(e)
		if h.LessThan(lo) {
			lo = h
		}
		if h.GreaterThan(hi) {
			hi = h
		}
	}
	assert.LessOrEqual(t, hi.Sub(lo).IntPart(), int64(8))
	assert.Equal(t, int64(496), ledger.Total().IntPart())
}
