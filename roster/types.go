/*
Package roster provides the monthly roster generation engine.

PURPOSE:
  Given a month, an ordered list of employees and a shift configuration,
  the engine produces a day-by-day assignment of employees to shifts while
  balancing worked hours across the staff. After planning it summarises the
  hours per week and per month and flags employees above a weekly threshold.

KEY CONCEPTS IN THIS FILE (types.go):
  - EmployeeID: Opaque employee key (the employee name in the directory)
  - ShiftWindow: A fixed time-of-day interval worked by one group of staff
  - Assignment: The employees staffing one shift window on one date
  - Config: Scalar configuration for one generation run
  - Result: The roster plus its summary

DESIGN PRINCIPLES:
  1. No I/O: the engine receives plain values and returns plain values
  2. No shared state: every call to Generate builds fresh planner and ledger
  3. Precision: hours use decimal.Decimal so thresholds like 37.5 compare exactly
  4. Unambiguous dates: DateKey renders as ISO YYYY-MM-DD everywhere

USAGE:
  result, err := roster.Generate(roster.Config{
      Year:              2025,
      MonthIndex:        10, // November
      ShiftsPerDay:      2,
      OpeningHour:       7,
      HoursPerShift:     8,
      EmployeesPerShift: 2,
  }, []roster.EmployeeID{"Ana", "Ben", "Chloe", "Dev"})

SEE ALSO:
  - calendar.go: Month dates and shift windows
  - planner.go: Greedy least-loaded assignment
  - ledger.go: Hour accounting
  - summary.go: Median and overworked detection
*/
package roster

import (
	"github.com/shopspring/decimal"
)

// DefaultWeeklyHourThreshold is used when Config.WeeklyHourThreshold is nil.
const DefaultWeeklyHourThreshold = 40

// =============================================================================
// IDENTIFIERS
// =============================================================================

// EmployeeID identifies an employee. The directory uses the employee name.
type EmployeeID string

// =============================================================================
// SHIFT WINDOW
// =============================================================================

// ShiftWindow is one of the ShiftsPerDay intervals of a day.
// End may be numerically before Start, which represents an overnight shift.
type ShiftWindow struct {
	Index int
	Start TimeOfDay
	End   TimeOfDay
}

// =============================================================================
// ASSIGNMENT - One staffed shift on one date
// =============================================================================

// Assignment is created by the first employee placed on a (date, shift) pair;
// later employees append until Capacity is reached.
type Assignment struct {
	Date      DateKey
	Shift     ShiftWindow
	Employees []EmployeeID
	Capacity  int
}

// Contains reports whether the employee is already on this assignment.
func (a *Assignment) Contains(e EmployeeID) bool {
	for _, id := range a.Employees {
		if id == e {
			return true
		}
	}
	return false
}

// HasCapacity reports whether another employee can join.
func (a *Assignment) HasCapacity() bool { return len(a.Employees) < a.Capacity }

// =============================================================================
// CONFIG - Inputs for one generation run
// =============================================================================

// Config holds the scalar inputs of a run.
type Config struct {
	Year       int
	MonthIndex int // 0 = January ... 11 = December

	ShiftsPerDay int
	OpeningHour  int

	// HoursPerShift of 0 means floor(24 / ShiftsPerDay).
	HoursPerShift int

	EmployeesPerShift int

	// WeeklyHourThreshold of nil means DefaultWeeklyHourThreshold.
	WeeklyHourThreshold *decimal.Decimal

	// Holidays are removed from the month before planning.
	// Dates outside the target month are ignored.
	Holidays []DateKey
}

// EffectiveHoursPerShift returns HoursPerShift with the default applied.
func (c Config) EffectiveHoursPerShift() int {
	if c.HoursPerShift != 0 || c.ShiftsPerDay <= 0 {
		return c.HoursPerShift
	}
	return 24 / c.ShiftsPerDay
}

// Threshold returns the weekly hour threshold with the default applied.
func (c Config) Threshold() decimal.Decimal {
	if c.WeeklyHourThreshold == nil {
		return decimal.NewFromInt(DefaultWeeklyHourThreshold)
	}
	return *c.WeeklyHourThreshold
}

// =============================================================================
// RESULT
// =============================================================================

// OverworkedRecord is an (employee, week) pair above the weekly threshold.
type OverworkedRecord struct {
	Employee EmployeeID
	Week     WeekKey
	Hours    decimal.Decimal
}

// Summary is derived from the ledger once planning completes.
type Summary struct {
	MedianWeeklyHours decimal.Decimal
	WeeklyHours       []WeekHours
	MonthlyHours      []EmployeeHours
	Overworked        []OverworkedRecord
}

// EmployeeHours is one entry of an ordered employee -> hours mapping.
type EmployeeHours struct {
	Employee EmployeeID
	Hours    decimal.Decimal
}

// WeekHours is the per-employee breakdown of one week, in first-credit order.
type WeekHours struct {
	Week      WeekKey
	Employees []EmployeeHours
}

// Result is the output of Generate.
type Result struct {
	Config      Config
	Assignments []Assignment
	Summary     Summary
}

// HoursFor returns the monthly hours of an employee, zero when unknown.
func (s Summary) HoursFor(e EmployeeID) decimal.Decimal {
	for _, eh := range s.MonthlyHours {
		if eh.Employee == e {
			return eh.Hours
		}
	}
	return decimal.Zero
}
