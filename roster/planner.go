/*
planner.go - Assignment Planner (greedy least-loaded assignment)

PURPOSE:
  Staffs every shift window of every date by offering the open slots to the
  employees with the fewest hours so far.

ALGORITHM:
  For each date in calendar order, for each window in window order:
    1. Re-sort the full employee list by monthly hours ascending. Ties keep
       the original input order (stable sort of a fresh copy every shift).
    2. Walk the sorted list:
       a. Skip employees already scheduled on this date.
       b. If the (date, window) assignment exists and has room, append.
       c. If it does not exist yet, create it with this employee.
    3. Every placement credits hoursPerShift to the ledger (month and week).

  Re-sorting before every shift, not once per day, is what pushes someone who
  just took the morning shift to the back of the queue for the evening shift.

GUARANTEES:
  - No employee works two shifts on the same date
  - No assignment exceeds employeesPerShift
  - Hours are balanced greedily, not optimally: no backtracking, no rollback

  Too few employees means some shifts stay under-staffed or absent; that is
  the caller's precondition to check, not an error here.

INDEXES:
  scheduledOn (date -> employees) and bySlot ((date, window) -> assignment)
  replace linear scans of the roster, keeping each shift O(employees).
*/
package roster

import (
	"slices"

	"github.com/shopspring/decimal"
)

// HourBook is what the planner needs from the ledger.
type HourBook interface {
	RecordHours(e EmployeeID, week WeekKey, hours decimal.Decimal)
	Monthly(e EmployeeID) decimal.Decimal
}

var _ HourBook = (*HourLedger)(nil)

type slotKey struct {
	date  DateKey
	shift int
}

// Planner builds the roster for one run. It is single-use.
type Planner struct {
	book              HourBook
	hoursPerShift     decimal.Decimal
	employeesPerShift int

	assignments []Assignment
	bySlot      map[slotKey]int
	scheduledOn map[DateKey]map[EmployeeID]struct{}
}

// NewPlanner creates a planner that credits committed hours to book.
func NewPlanner(book HourBook, hoursPerShift, employeesPerShift int) *Planner {
	return &Planner{
		book:              book,
		hoursPerShift:     decimal.NewFromInt(int64(hoursPerShift)),
		employeesPerShift: employeesPerShift,
		bySlot:            make(map[slotKey]int),
		scheduledOn:       make(map[DateKey]map[EmployeeID]struct{}),
	}
}

// Plan staffs every window of every date and returns the roster in
// (date, window) order. Shifts nobody could take are absent.
func (p *Planner) Plan(employees []EmployeeID, dates []DateKey, windows []ShiftWindow) []Assignment {
	for _, date := range dates {
		for _, window := range windows {
			p.planShift(employees, date, window)
		}
	}
	return p.assignments
}

func (p *Planner) planShift(employees []EmployeeID, date DateKey, window ShiftWindow) {
	order := slices.Clone(employees)
	slices.SortStableFunc(order, func(a, b EmployeeID) int {
		return p.book.Monthly(a).Cmp(p.book.Monthly(b))
	})

	key := slotKey{date: date, shift: window.Index}
	for _, e := range order {
		if p.isScheduled(date, e) {
			continue
		}

		idx, exists := p.bySlot[key]
		switch {
		case !exists:
			p.assignments = append(p.assignments, Assignment{
				Date:      date,
				Shift:     window,
				Employees: []EmployeeID{e},
				Capacity:  p.employeesPerShift,
			})
			p.bySlot[key] = len(p.assignments) - 1
		case p.assignments[idx].HasCapacity():
			p.assignments[idx].Employees = append(p.assignments[idx].Employees, e)
		default:
			return
		}
		p.commit(date, e)
	}
}

func (p *Planner) isScheduled(date DateKey, e EmployeeID) bool {
	_, ok := p.scheduledOn[date][e]
	return ok
}

func (p *Planner) commit(date DateKey, e EmployeeID) {
	day, ok := p.scheduledOn[date]
	if !ok {
		day = make(map[EmployeeID]struct{})
		p.scheduledOn[date] = day
	}
	day[e] = struct{}{}
	p.book.RecordHours(e, date.Week(), p.hoursPerShift)
}
