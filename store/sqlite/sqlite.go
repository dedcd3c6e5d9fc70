/*
Package sqlite provides a SQLite-backed implementation of store.Store.

PURPOSE:
  Persists the employee directory, the holiday calendar and saved rosters.
  The same schema ports to PostgreSQL with only minor dialect changes.

KEY TABLES:
  employees: Directory entries. Name is unique; seq keeps creation order,
             which is the default priority order for generation.
  holidays:  Closed days, optionally recurring every year.
  rosters:   Generated rosters with their rendered JSON payload.

INDEXES:
  - idx_rosters_month: Lookup by (year, month) for the monthly scheduler
  - idx_holidays_unique: One holiday per (date, name)

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. With PostgreSQL, database-level
  concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  st, err := sqlite.New("./data/roster.db")
  if err != nil {
      return err
  }
  defer st.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - store/store.go: Interface and record definitions
  - store/memory: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/warp/roster-engine/store"
)

const (
	dateLayout = "2006-01-02"

	// Fixed width so rosters sort by created_at as text.
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ store.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(date, name);

	CREATE TABLE IF NOT EXISTS rosters (
		id TEXT PRIMARY KEY,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		source TEXT NOT NULL,
		payload_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rosters_month
		ON rosters(year, month);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

// CreateEmployee inserts an employee.
func (s *Store) CreateEmployee(ctx context.Context, emp store.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := emp.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO employees (id, name, created_at) VALUES (?, ?, ?)",
		emp.ID, emp.Name, createdAt.Format(time.RFC3339),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("%w: %s", store.ErrDuplicateEmployee, emp.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id string) (*store.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getEmployee(ctx, id)
}

func (s *Store) getEmployee(ctx context.Context, id string) (*store.Employee, error) {
	var emp store.Employee
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM employees WHERE id = ?",
		id,
	).Scan(&emp.ID, &emp.Name, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}

	emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &emp, nil
}

// ListEmployees returns all employees in creation order.
func (s *Store) ListEmployees(ctx context.Context) ([]store.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM employees ORDER BY seq",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []store.Employee
	for rows.Next() {
		var emp store.Employee
		var createdAt string
		if err := rows.Scan(&emp.ID, &emp.Name, &createdAt); err != nil {
			return nil, err
		}
		emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// RenameEmployee updates an employee's name. The creation order is kept.
func (s *Store) RenameEmployee(ctx context.Context, id, name string) (*store.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "UPDATE employees SET name = ? WHERE id = ?", name, id)
	if isUniqueConstraintError(err) {
		return nil, fmt.Errorf("%w: %s", store.ErrDuplicateEmployee, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to rename employee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, store.ErrEmployeeNotFound
	}
	return s.getEmployee(ctx, id)
}

// DeleteEmployee removes an employee.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrEmployeeNotFound
	}
	return nil
}

// =============================================================================
// HOLIDAY STORE
// =============================================================================

// SaveHoliday saves a holiday to the database. Saving an existing
// (date, name) pair updates it in place and keeps its id.
func (s *Store) SaveHoliday(ctx context.Context, h store.Holiday) (*store.Holiday, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO holidays (id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date, name) DO UPDATE SET
			recurring = excluded.recurring
		RETURNING id
	`

	saved := h
	err := s.db.QueryRowContext(ctx, query,
		h.ID,
		h.Date.Format(dateLayout),
		h.Name,
		h.Recurring,
		time.Now().UTC().Format(time.RFC3339),
	).Scan(&saved.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to save holiday: %w", err)
	}
	return &saved, nil
}

// ListHolidays returns every holiday ordered by date.
func (s *Store) ListHolidays(ctx context.Context) ([]store.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryHolidays(ctx,
		"SELECT id, date, name, recurring FROM holidays ORDER BY date ASC, name ASC",
	)
}

// HolidaysInMonth returns one-off holidays of that month plus recurring
// holidays falling on that calendar month.
func (s *Store) HolidaysInMonth(ctx context.Context, year, monthIndex int) ([]store.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, date, name, recurring
		FROM holidays
		WHERE strftime('%m', date) = ?
		  AND (recurring = TRUE OR strftime('%Y', date) = ?)
		ORDER BY strftime('%d', date) ASC, name ASC
	`

	holidays, err := s.queryHolidays(ctx, query,
		fmt.Sprintf("%02d", monthIndex+1), fmt.Sprintf("%04d", year),
	)
	if err != nil {
		return nil, err
	}
	for i := range holidays {
		holidays[i].Date, _ = holidays[i].OccursOn(year)
	}
	return holidays, nil
}

func (s *Store) queryHolidays(ctx context.Context, query string, args ...any) ([]store.Holiday, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []store.Holiday
	for rows.Next() {
		var h store.Holiday
		var dateStr string
		if err := rows.Scan(&h.ID, &dateStr, &h.Name, &h.Recurring); err != nil {
			return nil, err
		}
		h.Date, err = time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("holiday %s has malformed date %q: %w", h.ID, dateStr, err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrHolidayNotFound
	}
	return nil
}

// =============================================================================
// ROSTER STORE
// =============================================================================

// SaveRoster saves a generated roster. Saving an existing id replaces it.
func (s *Store) SaveRoster(ctx context.Context, r store.RosterRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO rosters (id, year, month, source, payload_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			year = excluded.year,
			month = excluded.month,
			source = excluded.source,
			payload_json = excluded.payload_json
	`

	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.Year, r.MonthIndex, string(r.Source), r.PayloadJSON,
		createdAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}
	return nil
}

const rosterColumns = "id, year, month, source, payload_json, created_at"

// GetRoster retrieves a saved roster by ID.
func (s *Store) GetRoster(ctx context.Context, id string) (*store.RosterRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRoster(ctx,
		"SELECT "+rosterColumns+" FROM rosters WHERE id = ?", id,
	)
}

// FindRosterForMonth returns the newest roster saved for a month.
func (s *Store) FindRosterForMonth(ctx context.Context, year, monthIndex int) (*store.RosterRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRoster(ctx,
		"SELECT "+rosterColumns+" FROM rosters WHERE year = ? AND month = ? ORDER BY created_at DESC LIMIT 1",
		year, monthIndex,
	)
}

func (s *Store) queryRoster(ctx context.Context, query string, args ...any) (*store.RosterRecord, error) {
	var r store.RosterRecord
	var source, createdAt string

	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(&r.ID, &r.Year, &r.MonthIndex, &source, &r.PayloadJSON, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrRosterNotFound
	}
	if err != nil {
		return nil, err
	}

	r.Source = store.RosterSource(source)
	r.CreatedAt, _ = time.Parse(timestampLayout, createdAt)
	return &r, nil
}

// ListRosters returns all saved rosters, newest first.
func (s *Store) ListRosters(ctx context.Context) ([]store.RosterRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+rosterColumns+" FROM rosters ORDER BY created_at DESC, id ASC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rosters []store.RosterRecord
	for rows.Next() {
		var r store.RosterRecord
		var source, createdAt string
		if err := rows.Scan(&r.ID, &r.Year, &r.MonthIndex, &source, &r.PayloadJSON, &createdAt); err != nil {
			return nil, err
		}
		r.Source = store.RosterSource(source)
		r.CreatedAt, _ = time.Parse(timestampLayout, createdAt)
		rosters = append(rosters, r)
	}
	return rosters, rows.Err()
}

// DeleteRoster removes a saved roster.
func (s *Store) DeleteRoster(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM rosters WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrRosterNotFound
	}
	return nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"rosters", "holidays", "employees"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
