package roster_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func hrs(n float64) decimal.Decimal {
	return decimal.NewFromFloat(n)
}

func weekOf(w roster.WeekKey, entries ...roster.EmployeeHours) roster.WeekHours {
	return roster.WeekHours{Week: w, Employees: entries}
}

func eh(e string, h float64) roster.EmployeeHours {
	return roster.EmployeeHours{Employee: roster.EmployeeID(e), Hours: hrs(h)}
}

// =============================================================================
// LEDGER
// =============================================================================

func TestHourLedger_StartsAtZeroForKnownEmployees(t *testing.T) {
	ledger := roster.NewHourLedger([]roster.EmployeeID{"ana", "ben"})

	monthly := ledger.MonthlyHours()
	require.Len(t, monthly, 2)
	assert.Equal(t, roster.EmployeeID("ana"), monthly[0].Employee)
	assert.True(t, monthly[0].Hours.IsZero())
	assert.Empty(t, ledger.WeeklyHours(), "weekly mapping is sparse")
}

func TestHourLedger_RecordHoursAccumulates(t *testing.T) {
	ledger := roster.NewHourLedger([]roster.EmployeeID{"ana"})

	ledger.RecordHours("ana", 1, hrs(8))
	ledger.RecordHours("ana", 1, hrs(8))
	ledger.RecordHours("ana", 2, hrs(8))

	assert.True(t, ledger.Monthly("ana").Equal(hrs(24)))
	w1, ok := ledger.Weekly(1, "ana")
	require.True(t, ok)
	assert.True(t, w1.Equal(hrs(16)))
	_, ok = ledger.Weekly(3, "ana")
	assert.False(t, ok)
}

func TestHourLedger_MonthlyEqualsSumOfWeeks(t *testing.T) {
	ledger := roster.NewHourLedger([]roster.EmployeeID{"ana", "ben", "cy"})
	credits := []struct {
		e    roster.EmployeeID
		week roster.WeekKey
		h    float64
	}{
		{"ana", 1, 8}, {"ben", 1, 6}, {"ana", 2, 8}, {"cy", 5, 7.5}, {"ben", 4, 8}, {"ana", 2, 4},
	}
	for _, c := range credits {
		ledger.RecordHours(c.e, c.week, hrs(c.h))
	}

	for _, e := range ledger.Employees() {
		sum := decimal.Zero
		for _, wh := range ledger.WeeklyHours() {
			if h, ok := ledger.Weekly(wh.Week, e); ok {
				sum = sum.Add(h)
			}
		}
		assert.True(t, ledger.Monthly(e).Equal(sum), "employee %s", e)
	}
	assert.True(t, ledger.Total().Equal(hrs(41.5)))
}

func TestHourLedger_WeeklyOrderIsFirstCredit(t *testing.T) {
	ledger := roster.NewHourLedger([]roster.EmployeeID{"ana", "ben", "cy"})
	ledger.RecordHours("cy", 2, hrs(8))
	ledger.RecordHours("ana", 1, hrs(8))
	ledger.RecordHours("ben", 2, hrs(8))
	ledger.RecordHours("cy", 2, hrs(8))

	weekly := ledger.WeeklyHours()
	require.Len(t, weekly, 2)
	assert.Equal(t, roster.WeekKey(1), weekly[0].Week)
	assert.Equal(t, roster.WeekKey(2), weekly[1].Week)
	require.Len(t, weekly[1].Employees, 2)
	assert.Equal(t, roster.EmployeeID("cy"), weekly[1].Employees[0].Employee)
	assert.Equal(t, roster.EmployeeID("ben"), weekly[1].Employees[1].Employee)
}

func TestHourLedger_UnknownEmployeeIsAdded(t *testing.T) {
	ledger := roster.NewHourLedger(nil)
	ledger.RecordHours("walk-in", 3, hrs(4))

	assert.Equal(t, []roster.EmployeeID{"walk-in"}, ledger.Employees())
	assert.True(t, ledger.Monthly("walk-in").Equal(hrs(4)))
}

// =============================================================================
// SUMMARY
// =============================================================================

func TestMedian(t *testing.T) {
	odd := []roster.WeekHours{weekOf(1, eh("a", 10), eh("b", 30)), weekOf(2, eh("a", 20))}
	assert.True(t, roster.Median(odd).Equal(hrs(20)))

	even := []roster.WeekHours{weekOf(1, eh("a", 40), eh("b", 10)), weekOf(2, eh("a", 30), eh("b", 20))}
	assert.True(t, roster.Median(even).Equal(hrs(25)))

	assert.True(t, roster.Median(nil).IsZero())
}

func TestMedian_IgnoresZeroEntries(t *testing.T) {
	weekly := []roster.WeekHours{weekOf(1, eh("a", 0), eh("b", 10), eh("c", 20))}
	assert.True(t, roster.Median(weekly).Equal(hrs(15)))
}

func TestOverworked_StrictlyAboveThreshold(t *testing.T) {
	// GIVEN: ana 48h and ben exactly 40h in week 1
	ledger := roster.NewHourLedger([]roster.EmployeeID{"ana", "ben"})
	ledger.RecordHours("ana", 1, hrs(48))
	ledger.RecordHours("ben", 1, hrs(40))
	ledger.RecordHours("ana", 2, hrs(8))

	// WHEN: Summarising against 40h
	summary := roster.Summarize(ledger, hrs(40))

	// THEN: Only ana in week 1
	require.Len(t, summary.Overworked, 1)
	assert.Equal(t, roster.EmployeeID("ana"), summary.Overworked[0].Employee)
	assert.Equal(t, roster.WeekKey(1), summary.Overworked[0].Week)
	assert.True(t, summary.Overworked[0].Hours.Equal(hrs(48)))
}

func TestOverworked_FractionalThreshold(t *testing.T) {
	weekly := []roster.WeekHours{weekOf(1, eh("a", 37.5), eh("b", 38))}
	out := roster.Overworked(weekly, hrs(37.5))

	require.Len(t, out, 1)
	assert.Equal(t, roster.EmployeeID("b"), out[0].Employee)
}

func TestOverworked_GroupedByWeek(t *testing.T) {
	weekly := []roster.WeekHours{
		weekOf(1, eh("b", 50), eh("a", 45)),
		weekOf(2, eh("a", 41)),
	}
	out := roster.Overworked(weekly, hrs(40))

	require.Len(t, out, 3)
	assert.Equal(t, []roster.EmployeeID{"b", "a", "a"},
		[]roster.EmployeeID{out[0].Employee, out[1].Employee, out[2].Employee})
	assert.Equal(t, roster.WeekKey(2), out[2].Week)
}
