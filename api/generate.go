/*
generate.go - Roster generation service

PURPOSE:
  Everything between a GenerateRequest and the pure roster engine:
  resolving the staff list, filling defaults, collecting holidays,
  enforcing the boundary preconditions, timing the run and optionally
  saving the rendered roster.

  Shared by the HTTP handlers, the monthly scheduler and the CLI, so all
  three apply the same rules.

STAFF SOURCE (first match wins):
  1. request.employees          explicit names, in priority order
  2. request.total_employee     "Employee 1" .. "Employee N"
  3. the stored directory       creation order

HOLIDAYS:
  Request holidays plus stored holidays of the target month. Dates outside
  the month are ignored by the engine.
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/warp/roster-engine/config"
	"github.com/warp/roster-engine/export"
	"github.com/warp/roster-engine/logging"
	"github.com/warp/roster-engine/roster"
	"github.com/warp/roster-engine/store"
)

// ErrNoStore is returned when saving is requested without a store.
var ErrNoStore = errors.New("no store configured")

// MaxEmployees caps the staff of one generation request.
const MaxEmployees = 1000

// Generator turns requests into rosters.
type Generator struct {
	Store    store.Store // nil: no directory, no stored holidays, no saving
	Defaults config.RosterDefaults
	Metrics  *Metrics // optional
	Logger   zerolog.Logger
	Now      func() time.Time
}

// NewGenerator creates a generator with the given defaults.
func NewGenerator(st store.Store, defaults config.RosterDefaults, metrics *Metrics, logger zerolog.Logger) *Generator {
	return &Generator{
		Store:    st,
		Defaults: defaults,
		Metrics:  metrics,
		Logger:   logging.Component(logger, "generator"),
		Now:      time.Now,
	}
}

// Generation is a finished run.
type Generation struct {
	Result   *roster.Result
	Response ScheduleResponse
}

// Generate builds a roster on behalf of an API caller.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*Generation, error) {
	return g.generate(ctx, req, store.SourceAPI)
}

func (g *Generator) generate(ctx context.Context, req GenerateRequest, source store.RosterSource) (*Generation, error) {
	cfg, err := g.resolveConfig(ctx, req)
	if err != nil {
		g.observe(0, nil, err)
		return nil, err
	}
	staff, err := g.resolveStaff(ctx, req)
	if err != nil {
		g.observe(0, nil, err)
		return nil, err
	}

	if err := roster.CheckPreconditions(cfg, len(staff), req.AllowUnderstaffed); err != nil {
		g.observe(0, nil, err)
		return nil, err
	}

	start := time.Now()
	result, err := roster.Generate(cfg, staff)
	elapsed := time.Since(start)
	g.observe(elapsed, result, err)
	if err != nil {
		return nil, err
	}

	gen := &Generation{Result: result, Response: NewScheduleResponse(result)}

	if req.Save {
		id, err := g.save(ctx, gen.Response, source)
		if err != nil {
			return nil, err
		}
		gen.Response.ID = id
	}

	g.Logger.Info().
		Int("year", cfg.Year).
		Int("month", cfg.MonthIndex).
		Int("employees", len(staff)).
		Int("assignments", len(result.Assignments)).
		Int("overworked", len(result.Summary.Overworked)).
		Str("source", string(source)).
		Str("roster_id", gen.Response.ID).
		Dur("elapsed", elapsed).
		Msg("roster generated")

	return gen, nil
}

func (g *Generator) observe(elapsed time.Duration, result *roster.Result, err error) {
	if g.Metrics != nil {
		g.Metrics.ObserveGeneration(elapsed, result, err)
	}
}

func (g *Generator) save(ctx context.Context, resp ScheduleResponse, source store.RosterSource) (string, error) {
	if g.Store == nil {
		return "", ErrNoStore
	}

	id := uuid.NewString()
	resp.ID = id
	payload, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to encode roster: %w", err)
	}

	rec := store.RosterRecord{
		ID:          id,
		Year:        resp.Year,
		MonthIndex:  resp.Month,
		Source:      source,
		PayloadJSON: string(payload),
		CreatedAt:   g.Now().UTC(),
	}
	if err := g.Store.SaveRoster(ctx, rec); err != nil {
		return "", fmt.Errorf("failed to save roster: %w", err)
	}
	return id, nil
}

// resolveConfig layers request fields over the configured defaults.
func (g *Generator) resolveConfig(ctx context.Context, req GenerateRequest) (roster.Config, error) {
	if req.Month == nil {
		return roster.Config{}, &roster.ConfigError{Field: "month", Value: nil, Reason: "is required"}
	}

	year := g.Now().Year()
	if req.Year != nil {
		year = *req.Year
	}

	cfg := g.Defaults.RosterConfig(year, *req.Month)
	if req.ShiftsPerDay != nil {
		cfg.ShiftsPerDay = *req.ShiftsPerDay
	}
	if req.OpeningHour != nil {
		cfg.OpeningHour = *req.OpeningHour
	}
	if req.HoursPerShift != nil {
		cfg.HoursPerShift = *req.HoursPerShift
	}
	if req.EmployeesPerShift != nil {
		cfg.EmployeesPerShift = *req.EmployeesPerShift
	}
	if req.WeeklyHourThreshold != nil {
		threshold := decimal.NewFromFloat(*req.WeeklyHourThreshold)
		cfg.WeeklyHourThreshold = &threshold
	}

	for _, raw := range req.Holidays {
		day, err := roster.ParseDateKey(raw)
		if err != nil {
			return roster.Config{}, &roster.ConfigError{Field: "holidays", Value: raw, Reason: "expected YYYY-MM-DD"}
		}
		cfg.Holidays = append(cfg.Holidays, day)
	}

	if g.Store != nil && *req.Month >= 0 && *req.Month <= 11 {
		stored, err := g.Store.HolidaysInMonth(ctx, year, *req.Month)
		if err != nil {
			return roster.Config{}, fmt.Errorf("failed to load holidays: %w", err)
		}
		for _, h := range stored {
			cfg.Holidays = append(cfg.Holidays, roster.DateKeyOf(h.Date))
		}
	}

	return cfg, nil
}

// resolveStaff picks the employee list by precedence.
func (g *Generator) resolveStaff(ctx context.Context, req GenerateRequest) ([]roster.EmployeeID, error) {
	if len(req.Employees) > 0 {
		if len(req.Employees) > MaxEmployees {
			return nil, &roster.ConfigError{Field: "employees", Value: len(req.Employees), Reason: fmt.Sprintf("at most %d employees", MaxEmployees)}
		}
		for _, name := range req.Employees {
			if err := CheckEmployeeName(name); err != nil {
				return nil, err
			}
		}
		return roster.EmployeeIDs(req.Employees), nil
	}

	if req.TotalEmployee != nil {
		n := *req.TotalEmployee
		if n < 1 || n > MaxEmployees {
			return nil, &roster.ConfigError{Field: "total_employee", Value: n, Reason: fmt.Sprintf("must be between 1 and %d", MaxEmployees)}
		}
		return SyntheticStaff(n), nil
	}

	if g.Store == nil {
		return nil, nil
	}
	employees, err := g.Store.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	staff := make([]roster.EmployeeID, len(employees))
	for i, e := range employees {
		staff[i] = roster.EmployeeID(e.Name)
	}
	return staff, nil
}

// CheckEmployeeName rejects names that would be ambiguous in a CSV
// schedule cell, where names are joined with export.EmployeeSeparator.
func CheckEmployeeName(name string) error {
	if strings.Contains(name, export.EmployeeSeparator) {
		return &roster.ConfigError{Field: "employees", Value: name, Reason: fmt.Sprintf("name must not contain %q", export.EmployeeSeparator)}
	}
	return nil
}

// SyntheticStaff names n placeholder employees "Employee 1".."Employee n".
func SyntheticStaff(n int) []roster.EmployeeID {
	staff := make([]roster.EmployeeID, n)
	for i := range staff {
		staff[i] = roster.EmployeeID(fmt.Sprintf("Employee %d", i+1))
	}
	return staff
}
