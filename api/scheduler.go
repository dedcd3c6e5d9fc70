/*
scheduler.go - Monthly roster pre-generation

PURPOSE:
  Periodically makes sure next month already has a saved roster, so managers
  open the app at the end of the month and find a draft waiting.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Targets the calendar month after "now"
  - Skips when a roster for that month is already saved (by anyone)
  - Skips when the directory is empty or the defaults do not fit the staff
  - Generates from the stored directory with the configured defaults

CONFIGURATION:
  - Interval: How often to check (ROSTER_SCHEDULER_INTERVAL_MINUTES)
  - Enabled:  Whether the scheduler runs (ROSTER_SCHEDULER_ENABLED)

USAGE:
  scheduler := NewRosterScheduler(generator, interval, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - generate.go: Generator shared with the HTTP handlers
  - handlers.go: POST /api/admin/pregenerate (manual run)
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/warp/roster-engine/logging"
	"github.com/warp/roster-engine/roster"
	"github.com/warp/roster-engine/store"
)

// Run statuses.
const (
	RunGenerated = "generated"
	RunExists    = "exists"
	RunSkipped   = "skipped"
)

// RunResult describes one scheduler check.
type RunResult struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Status   string `json:"status"`
	RosterID string `json:"roster_id,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// RosterScheduler pre-generates next month's roster.
type RosterScheduler struct {
	Generator *Generator
	Interval  time.Duration
	Enabled   bool

	logger  zerolog.Logger
	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewRosterScheduler creates an enabled scheduler.
func NewRosterScheduler(gen *Generator, interval time.Duration, logger zerolog.Logger) *RosterScheduler {
	return &RosterScheduler{
		Generator: gen,
		Interval:  interval,
		Enabled:   true,
		logger:    logging.Component(logger, "scheduler"),
	}
}

// Start begins the scheduler. It checks once immediately, then every Interval.
func (rs *RosterScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.logger.Info().Msg("disabled, not starting")
		return
	}
	if rs.running {
		return
	}

	rs.ticker = time.NewTicker(rs.Interval)
	rs.stop = make(chan struct{})
	rs.running = true
	rs.wg.Add(1)

	go rs.run(rs.ticker, rs.stop)

	rs.logger.Info().Dur("interval", rs.Interval).Msg("started")
}

// Stop stops the scheduler and waits for an in-flight check to finish.
func (rs *RosterScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.running {
		return
	}
	rs.ticker.Stop()
	close(rs.stop)
	rs.wg.Wait()
	rs.running = false
	rs.logger.Info().Msg("stopped")
}

func (rs *RosterScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer rs.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-stop
		cancel()
	}()

	rs.check(ctx)
	for {
		select {
		case <-ticker.C:
			rs.check(ctx)
		case <-stop:
			return
		}
	}
}

func (rs *RosterScheduler) check(ctx context.Context) {
	res, err := rs.RunNow(ctx)
	if err != nil {
		rs.logger.Error().Err(err).Msg("pre-generation failed")
		return
	}
	rs.logger.Info().
		Int("year", res.Year).
		Int("month", res.Month).
		Str("status", res.Status).
		Str("roster_id", res.RosterID).
		Str("reason", res.Reason).
		Msg("pre-generation check")
}

// RunNow performs one check immediately (for testing/admin).
func (rs *RosterScheduler) RunNow(ctx context.Context) (*RunResult, error) {
	gen := rs.Generator
	if gen.Store == nil {
		return nil, ErrNoStore
	}

	year, month := NextMonth(gen.Now())
	res := &RunResult{Year: year, Month: month}

	existing, err := gen.Store.FindRosterForMonth(ctx, year, month)
	switch {
	case err == nil:
		res.Status = RunExists
		res.RosterID = existing.ID
		return res, nil
	case !errors.Is(err, store.ErrRosterNotFound):
		return nil, fmt.Errorf("failed to look up roster: %w", err)
	}

	employees, err := gen.Store.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	if len(employees) == 0 {
		res.Status = RunSkipped
		res.Reason = "no employees in the directory"
		return res, nil
	}

	out, err := gen.generate(ctx, GenerateRequest{Year: &year, Month: &month, Save: true}, store.SourceScheduler)
	if roster.IsClientError(err) {
		res.Status = RunSkipped
		res.Reason = err.Error()
		return res, nil
	}
	if err != nil {
		return nil, err
	}

	res.Status = RunGenerated
	res.RosterID = out.Response.ID
	return res, nil
}

// NextMonth returns the year and 0-based month index after t's month.
func NextMonth(t time.Time) (year, monthIndex int) {
	next := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return next.Year(), int(next.Month()) - 1
}
