/*
ledger.go - Hour Ledger

PURPOSE:
  Running per-employee hour accounting for one generation run. The planner
  credits hours as it commits each assignment; the summary reads the ledger
  once planning completes.

TWO MAPPINGS, MAINTAINED TOGETHER:
  monthly: EmployeeID -> total hours this month
           (every known employee present, starting at 0)
  weekly:  WeekKey -> EmployeeID -> hours that week
           (sparse; an entry exists once an employee is credited that week)

INVARIANT:
  monthly[e] == sum over weeks of weekly[w][e], for every employee, after
  every RecordHours call.

ORDERING:
  Enumeration is deterministic. Monthly follows the order employees became
  known (constructor order first). Weekly is grouped by ascending week and,
  inside a week, follows the order of the first credit to each employee.

A ledger belongs to exactly one run and is not safe for concurrent use.
*/
package roster

import (
	"sort"

	"github.com/shopspring/decimal"
)

// HourLedger accumulates worked hours.
type HourLedger struct {
	monthly      map[EmployeeID]decimal.Decimal
	monthlyOrder []EmployeeID

	weekly      map[WeekKey]map[EmployeeID]decimal.Decimal
	weeklyOrder map[WeekKey][]EmployeeID
}

// NewHourLedger creates a ledger with every employee at zero hours.
func NewHourLedger(employees []EmployeeID) *HourLedger {
	l := &HourLedger{
		monthly:     make(map[EmployeeID]decimal.Decimal, len(employees)),
		weekly:      make(map[WeekKey]map[EmployeeID]decimal.Decimal),
		weeklyOrder: make(map[WeekKey][]EmployeeID),
	}
	for _, e := range employees {
		l.ensureEmployee(e)
	}
	return l
}

func (l *HourLedger) ensureEmployee(e EmployeeID) {
	if _, ok := l.monthly[e]; ok {
		return
	}
	l.monthly[e] = decimal.Zero
	l.monthlyOrder = append(l.monthlyOrder, e)
}

// RecordHours credits hours to an employee for a week. Repeated calls
// accumulate.
func (l *HourLedger) RecordHours(e EmployeeID, week WeekKey, hours decimal.Decimal) {
	l.ensureEmployee(e)
	l.monthly[e] = l.monthly[e].Add(hours)

	perEmployee, ok := l.weekly[week]
	if !ok {
		perEmployee = make(map[EmployeeID]decimal.Decimal)
		l.weekly[week] = perEmployee
	}
	current, seen := perEmployee[e]
	if !seen {
		l.weeklyOrder[week] = append(l.weeklyOrder[week], e)
	}
	perEmployee[e] = current.Add(hours)
}

// Monthly returns an employee's total for the month.
func (l *HourLedger) Monthly(e EmployeeID) decimal.Decimal {
	return l.monthly[e]
}

// Weekly returns an employee's hours in a week, and whether an entry exists.
func (l *HourLedger) Weekly(week WeekKey, e EmployeeID) (decimal.Decimal, bool) {
	h, ok := l.weekly[week][e]
	return h, ok
}

// Employees returns the known employees in monthly enumeration order.
func (l *HourLedger) Employees() []EmployeeID {
	out := make([]EmployeeID, len(l.monthlyOrder))
	copy(out, l.monthlyOrder)
	return out
}

// MonthlyHours returns the monthly mapping in enumeration order.
func (l *HourLedger) MonthlyHours() []EmployeeHours {
	out := make([]EmployeeHours, 0, len(l.monthlyOrder))
	for _, e := range l.monthlyOrder {
		out = append(out, EmployeeHours{Employee: e, Hours: l.monthly[e]})
	}
	return out
}

// WeeklyHours returns the weekly mapping grouped by ascending week.
func (l *HourLedger) WeeklyHours() []WeekHours {
	weeks := make([]WeekKey, 0, len(l.weekly))
	for w := range l.weekly {
		weeks = append(weeks, w)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i] < weeks[j] })

	out := make([]WeekHours, 0, len(weeks))
	for _, w := range weeks {
		entries := make([]EmployeeHours, 0, len(l.weeklyOrder[w]))
		for _, e := range l.weeklyOrder[w] {
			entries = append(entries, EmployeeHours{Employee: e, Hours: l.weekly[w][e]})
		}
		out = append(out, WeekHours{Week: w, Employees: entries})
	}
	return out
}

// Total is the sum of all monthly hours.
func (l *HourLedger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, h := range l.monthly {
		total = total.Add(h)
	}
	return total
}
