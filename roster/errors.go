/*
errors.go - Error types for the roster engine

ERROR CATEGORIES:
  1. Config errors - Raised before planning when inputs are out of range
  2. Staffing errors - Raised by the caller-side precondition check only

The engine performs no I/O, so nothing here is retryable. Every failure is a
deterministic function of the input.

USAGE:
  if errors.Is(err, roster.ErrInvalidConfig) {
      var cfgErr *roster.ConfigError
      errors.As(err, &cfgErr) // cfgErr.Field names the bad input
  }
*/
package roster

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidConfig is returned when a configuration scalar is out of range.
	ErrInvalidConfig = errors.New("invalid roster configuration")

	// ErrInsufficientStaff is returned by CheckPreconditions when there are
	// fewer employees than the shifts of one day require. Generate never
	// returns it; it under-staffs instead.
	ErrInsufficientStaff = errors.New("insufficient staff")

	// ErrDuplicateEmployee is returned when an employee appears twice in the input.
	ErrDuplicateEmployee = errors.New("duplicate employee")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ConfigError names the offending input.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// InsufficientStaffError reports the coverage shortfall.
type InsufficientStaffError struct {
	Employees int
	Required  int
}

func (e *InsufficientStaffError) Error() string {
	return fmt.Sprintf("insufficient staff: %d employees, %d needed to cover every shift of a day",
		e.Employees, e.Required)
}

func (e *InsufficientStaffError) Unwrap() error { return ErrInsufficientStaff }

// DuplicateEmployeeError names the repeated employee.
type DuplicateEmployeeError struct {
	Employee EmployeeID
}

func (e *DuplicateEmployeeError) Error() string {
	return fmt.Sprintf("duplicate employee %q", e.Employee)
}

func (e *DuplicateEmployeeError) Unwrap() error { return ErrDuplicateEmployee }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is caused by the caller's input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrInsufficientStaff) ||
		errors.Is(err, ErrDuplicateEmployee)
}
