package roster

import (
	"sort"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Summarize derives the run summary from a ledger.
func Summarize(l *HourLedger, threshold decimal.Decimal) Summary {
	weekly := l.WeeklyHours()
	return Summary{
		MedianWeeklyHours: Median(weekly),
		WeeklyHours:       weekly,
		MonthlyHours:      l.MonthlyHours(),
		Overworked:        Overworked(weekly, threshold),
	}
}

// Median flattens every positive (week, employee) entry and returns the
// median: the middle value for odd counts, the mean of the two middle values
// for even counts, and zero when there are no entries.
func Median(weekly []WeekHours) decimal.Decimal {
	var values []decimal.Decimal
	for _, wh := range weekly {
		for _, eh := range wh.Employees {
			if eh.Hours.IsPositive() {
				values = append(values, eh.Hours)
			}
		}
	}
	if len(values) == 0 {
		return decimal.Zero
	}

	sort.Slice(values, func(i, j int) bool { return values[i].LessThan(values[j]) })
	mid := len(values) / 2
	if len(values)%2 == 0 {
		return values[mid-1].Add(values[mid]).Div(two)
	}
	return values[mid]
}

// Overworked returns every (employee, week) whose hours are strictly above
// the threshold, grouped by week in the order given.
func Overworked(weekly []WeekHours, threshold decimal.Decimal) []OverworkedRecord {
	var out []OverworkedRecord
	for _, wh := range weekly {
		for _, eh := range wh.Employees {
			if eh.Hours.GreaterThan(threshold) {
				out = append(out, OverworkedRecord{Employee: eh.Employee, Week: wh.Week, Hours: eh.Hours})
			}
		}
	}
	return out
}
