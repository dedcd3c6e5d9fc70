// Package memory provides an in-memory store.Store (for testing/dev).
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/warp/roster-engine/store"
)

// Memory keeps everything in maps guarded by a single RWMutex.
type Memory struct {
	mu        sync.RWMutex
	employees map[string]store.Employee
	order     []string // employee ids in creation order
	holidays  map[string]store.Holiday
	rosters   map[string]store.RosterRecord
}

var _ store.Store = (*Memory)(nil)

func New() *Memory {
	return &Memory{
		employees: make(map[string]store.Employee),
		holidays:  make(map[string]store.Holiday),
		rosters:   make(map[string]store.RosterRecord),
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Memory) CreateEmployee(_ context.Context, emp store.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[emp.ID]; ok {
		return fmt.Errorf("employee id %s already exists", emp.ID)
	}
	if m.nameTakenLocked(emp.Name, "") {
		return fmt.Errorf("%w: %s", store.ErrDuplicateEmployee, emp.Name)
	}
	if emp.CreatedAt.IsZero() {
		emp.CreatedAt = time.Now().UTC()
	}
	m.employees[emp.ID] = emp
	m.order = append(m.order, emp.ID)
	return nil
}

func (m *Memory) GetEmployee(_ context.Context, id string) (*store.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	emp, ok := m.employees[id]
	if !ok {
		return nil, store.ErrEmployeeNotFound
	}
	return &emp, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]store.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]store.Employee, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.employees[id])
	}
	return out, nil
}

func (m *Memory) RenameEmployee(_ context.Context, id, name string) (*store.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	emp, ok := m.employees[id]
	if !ok {
		return nil, store.ErrEmployeeNotFound
	}
	if m.nameTakenLocked(name, id) {
		return nil, fmt.Errorf("%w: %s", store.ErrDuplicateEmployee, name)
	}
	emp.Name = name
	m.employees[id] = emp
	return &emp, nil
}

func (m *Memory) DeleteEmployee(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employees[id]; !ok {
		return store.ErrEmployeeNotFound
	}
	delete(m.employees, id)
	m.order = slices.DeleteFunc(m.order, func(x string) bool { return x == id })
	return nil
}

func (m *Memory) nameTakenLocked(name, exceptID string) bool {
	for id, emp := range m.employees {
		if id != exceptID && emp.Name == name {
			return true
		}
	}
	return false
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// SaveHoliday upserts on (date, name), keeping the first id.
func (m *Memory) SaveHoliday(_ context.Context, h store.Holiday) (*store.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, existing := range m.holidays {
		if sameDay(existing.Date, h.Date) && existing.Name == h.Name {
			existing.Recurring = h.Recurring
			m.holidays[id] = existing
			return &existing, nil
		}
	}
	m.holidays[h.ID] = h
	return &h, nil
}

func (m *Memory) ListHolidays(_ context.Context) ([]store.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]store.Holiday, 0, len(m.holidays))
	for _, h := range m.holidays {
		out = append(out, h)
	}
	sortHolidays(out)
	return out, nil
}

func (m *Memory) HolidaysInMonth(_ context.Context, year, monthIndex int) ([]store.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []store.Holiday
	for _, h := range m.holidays {
		date, ok := h.OccursOn(year)
		if !ok || date.Month() != time.Month(monthIndex+1) {
			continue
		}
		h.Date = date
		out = append(out, h)
	}
	sortHolidays(out)
	return out, nil
}

func (m *Memory) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.holidays[id]; !ok {
		return store.ErrHolidayNotFound
	}
	delete(m.holidays, id)
	return nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func sortHolidays(hs []store.Holiday) {
	slices.SortFunc(hs, func(a, b store.Holiday) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
}

// =============================================================================
// ROSTERS
// =============================================================================

func (m *Memory) SaveRoster(_ context.Context, r store.RosterRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if existing, ok := m.rosters[r.ID]; ok {
		r.CreatedAt = existing.CreatedAt
	}
	m.rosters[r.ID] = r
	return nil
}

func (m *Memory) GetRoster(_ context.Context, id string) (*store.RosterRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rosters[id]
	if !ok {
		return nil, store.ErrRosterNotFound
	}
	return &r, nil
}

func (m *Memory) ListRosters(_ context.Context) ([]store.RosterRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sortedRostersLocked(), nil
}

func (m *Memory) FindRosterForMonth(_ context.Context, year, monthIndex int) (*store.RosterRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.sortedRostersLocked() {
		if r.Year == year && r.MonthIndex == monthIndex {
			return &r, nil
		}
	}
	return nil, store.ErrRosterNotFound
}

func (m *Memory) DeleteRoster(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rosters[id]; !ok {
		return store.ErrRosterNotFound
	}
	delete(m.rosters, id)
	return nil
}

// newest first, id as tie-break
func (m *Memory) sortedRostersLocked() []store.RosterRecord {
	out := make([]store.RosterRecord, 0, len(m.rosters))
	for _, r := range m.rosters {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b store.RosterRecord) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// =============================================================================
// UTILITIES
// =============================================================================

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.employees = make(map[string]store.Employee)
	m.order = nil
	m.holidays = make(map[string]store.Holiday)
	m.rosters = make(map[string]store.RosterRecord)
	return nil
}

func (m *Memory) Close() error { return nil }
