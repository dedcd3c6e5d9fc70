package roster

// CheckPreconditions applies the caller-side contract before Generate:
//
//   - at least one employee
//   - employees per shift no larger than the staff
//   - shifts per day times hours per shift fits in 24 hours
//   - enough staff to fill every shift of one day, unless allowUnderstaffed
//
// Generate itself tolerates all of these (except through its own range
// checks); this is where the boundary layers turn them into errors.
func CheckPreconditions(cfg Config, employeeCount int, allowUnderstaffed bool) error {
	if employeeCount < 1 {
		return &ConfigError{Field: "employees", Value: employeeCount, Reason: "at least one employee is required"}
	}
	if cfg.ShiftsPerDay < 1 {
		return &ConfigError{Field: "shifts_per_day", Value: cfg.ShiftsPerDay, Reason: "must be at least 1"}
	}
	if cfg.EmployeesPerShift < 1 {
		return &ConfigError{Field: "employees_per_shift", Value: cfg.EmployeesPerShift, Reason: "must be at least 1"}
	}
	if cfg.EmployeesPerShift > employeeCount {
		return &ConfigError{Field: "employees_per_shift", Value: cfg.EmployeesPerShift, Reason: "exceeds the number of employees"}
	}

	hours := cfg.EffectiveHoursPerShift()
	if hours < 1 {
		return &ConfigError{Field: "hours_per_shift", Value: hours, Reason: "must be at least 1"}
	}
	if cfg.ShiftsPerDay*hours > 24 {
		return &ConfigError{Field: "hours_per_shift", Value: hours, Reason: "shifts per day times hours per shift exceeds 24"}
	}

	required := cfg.ShiftsPerDay * cfg.EmployeesPerShift
	if !allowUnderstaffed && employeeCount < required {
		return &InsufficientStaffError{Employees: employeeCount, Required: required}
	}
	return nil
}
