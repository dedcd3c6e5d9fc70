package roster

import (
	"strings"
)

// Generate produces the roster and summary for one month.
//
// The call is synchronous and self-contained: it builds a fresh ledger and
// planner, so concurrent calls share nothing as long as employees is not
// mutated while they run. Config errors are returned before planning starts.
// An empty employee list yields an empty roster, not an error.
func Generate(cfg Config, employees []EmployeeID) (*Result, error) {
	if err := validateEmployees(employees); err != nil {
		return nil, err
	}
	if cfg.EmployeesPerShift < 1 {
		return nil, &ConfigError{Field: "employees_per_shift", Value: cfg.EmployeesPerShift, Reason: "must be at least 1"}
	}
	if cfg.Threshold().IsNegative() {
		return nil, &ConfigError{Field: "weekly_hour_threshold", Value: cfg.Threshold(), Reason: "must not be negative"}
	}

	dates, err := DeriveMonthDates(cfg.Year, cfg.MonthIndex)
	if err != nil {
		return nil, err
	}
	windows, err := DeriveShiftWindows(cfg.OpeningHour, cfg.ShiftsPerDay, cfg.HoursPerShift)
	if err != nil {
		return nil, err
	}
	dates = ExcludeDates(dates, cfg.Holidays)

	cfg.HoursPerShift = cfg.EffectiveHoursPerShift()

	ledger := NewHourLedger(employees)
	planner := NewPlanner(ledger, cfg.HoursPerShift, cfg.EmployeesPerShift)
	assignments := planner.Plan(employees, dates, windows)

	return &Result{
		Config:      cfg,
		Assignments: assignments,
		Summary:     Summarize(ledger, cfg.Threshold()),
	}, nil
}

func validateEmployees(employees []EmployeeID) error {
	seen := make(map[EmployeeID]struct{}, len(employees))
	for i, e := range employees {
		if strings.TrimSpace(string(e)) == "" {
			return &ConfigError{Field: "employees", Value: i, Reason: "employee name must not be empty"}
		}
		if _, dup := seen[e]; dup {
			return &DuplicateEmployeeError{Employee: e}
		}
		seen[e] = struct{}{}
	}
	return nil
}

// EmployeeIDs converts names to IDs, keeping order.
func EmployeeIDs(names []string) []EmployeeID {
	ids := make([]EmployeeID, len(names))
	for i, n := range names {
		ids[i] = EmployeeID(n)
	}
	return ids
}
