/*
Package store defines the persistence contract around the roster engine.

PURPOSE:
  The engine itself stores nothing. This package describes what the HTTP
  layer and the monthly scheduler persist: the employee directory, which
  seeds generation, the holiday calendar, whose days are excluded from
  generation, and saved rosters kept for later viewing and export.

IMPLEMENTATIONS:
  - store/sqlite: SQLite via database/sql and mattn/go-sqlite3
  - store/memory: In-memory, for tests and throwaway dev servers

PAYLOADS:
  A saved roster keeps its rendered response as an opaque JSON payload,
  the same way policies keep their config JSON. The store never parses it.
*/
package store

import (
	"context"
	"errors"
	"time"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when an employee id does not exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrDuplicateEmployee is returned when an employee name is already taken.
	ErrDuplicateEmployee = errors.New("employee name already exists")

	// ErrRosterNotFound is returned when a saved roster does not exist.
	ErrRosterNotFound = errors.New("roster not found")

	// ErrHolidayNotFound is returned when a holiday id does not exist.
	ErrHolidayNotFound = errors.New("holiday not found")
)

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrRosterNotFound) ||
		errors.Is(err, ErrHolidayNotFound)
}

// =============================================================================
// RECORDS
// =============================================================================

// Employee is a directory entry. Name is unique and is what the engine
// uses as the employee key.
type Employee struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// RosterSource records who produced a saved roster.
type RosterSource string

const (
	SourceAPI       RosterSource = "api"
	SourceScheduler RosterSource = "scheduler"
)

// RosterRecord is a saved roster.
type RosterRecord struct {
	ID          string
	Year        int
	MonthIndex  int
	Source      RosterSource
	PayloadJSON string
	CreatedAt   time.Time
}

// Holiday is a closed day. Recurring holidays repeat on the same month and
// day every year; Date then carries the year they were entered with.
type Holiday struct {
	ID        string
	Date      time.Time
	Name      string
	Recurring bool
}

// OccursOn returns the holiday's date in the given year, or false when a
// one-off holiday belongs to another year.
func (h Holiday) OccursOn(year int) (time.Time, bool) {
	if h.Recurring {
		return time.Date(year, h.Date.Month(), h.Date.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return h.Date, h.Date.Year() == year
}

// =============================================================================
// STORE
// =============================================================================

// Store persists the directory and saved rosters.
type Store interface {
	// CreateEmployee inserts an employee. Fails with ErrDuplicateEmployee
	// if the name is taken.
	CreateEmployee(ctx context.Context, emp Employee) error

	// GetEmployee returns ErrEmployeeNotFound for unknown ids.
	GetEmployee(ctx context.Context, id string) (*Employee, error)

	// ListEmployees returns employees in creation order. That order is the
	// default priority seed for generation.
	ListEmployees(ctx context.Context) ([]Employee, error)

	// RenameEmployee changes the name of an existing employee.
	RenameEmployee(ctx context.Context, id, name string) (*Employee, error)

	// DeleteEmployee returns ErrEmployeeNotFound for unknown ids.
	DeleteEmployee(ctx context.Context, id string) error

	SaveRoster(ctx context.Context, r RosterRecord) error
	GetRoster(ctx context.Context, id string) (*RosterRecord, error)

	// ListRosters returns saved rosters, newest first.
	ListRosters(ctx context.Context) ([]RosterRecord, error)

	// FindRosterForMonth returns the newest roster for a month, or
	// ErrRosterNotFound.
	FindRosterForMonth(ctx context.Context, year, monthIndex int) (*RosterRecord, error)

	DeleteRoster(ctx context.Context, id string) error

	// SaveHoliday upserts on (date, name) and returns the stored record.
	// An existing holiday keeps its id.
	SaveHoliday(ctx context.Context, h Holiday) (*Holiday, error)
	ListHolidays(ctx context.Context) ([]Holiday, error)

	// HolidaysInMonth returns the closed days of a month, recurring ones
	// moved into the requested year. Ordered by date.
	HolidaysInMonth(ctx context.Context, year, monthIndex int) ([]Holiday, error)

	DeleteHoliday(ctx context.Context, id string) error

	// Reset clears all data (demo scenarios only).
	Reset(ctx context.Context) error

	Close() error
}
