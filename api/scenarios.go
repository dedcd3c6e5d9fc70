/*
scenarios.go - Demo staff sets for testing and demonstrations

PURPOSE:

	Populates the directory with realistic staff so a roster can be
	generated straight away with POST /api/schedules {"month": N}.

AVAILABLE SCENARIOS:

	small-shop: 4 staff, exactly enough for two shifts of two
	cafe:       6 staff and a recurring Christmas closure
	warehouse:  10 staff and two recurring closures, room for three shifts

HOW SCENARIOS WORK:
 1. Reset database (clear employees, holidays and saved rosters)
 2. Create employees in the listed order (that is their priority order)
 3. Add the scenario's holidays

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "cafe"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Directory and schedule handlers
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/warp/roster-engine/store"
)

// ErrUnknownScenario is returned for an unknown scenario id.
var ErrUnknownScenario = errors.New("unknown scenario")

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// Scenario is a named staff set with optional closures.
type Scenario struct {
	ID          string
	Name        string
	Description string
	Employees   []string
	Holidays    []scenarioHoliday
}

type scenarioHoliday struct {
	month time.Month
	day   int
	name  string
}

var scenarios = []Scenario{
	{
		ID:          "small-shop",
		Name:        "Small Shop",
		Description: "Four staff, two shifts of two: every slot filled, heavy weekly hours",
		Employees:   []string{"Alice", "Bruno", "Chen", "Dana"},
	},
	{
		ID:          "cafe",
		Name:        "Cafe",
		Description: "Six staff sharing two shifts, closed on Christmas Day",
		Employees:   []string{"Amara", "Ben", "Carla", "Dev", "Elif", "Femi"},
		Holidays: []scenarioHoliday{
			{time.December, 25, "Christmas Day"},
		},
	},
	{
		ID:          "warehouse",
		Name:        "Warehouse",
		Description: "Ten staff, enough for three shifts of three, closed on New Year's Day and Christmas",
		Employees: []string{
			"Employee 1", "Employee 2", "Employee 3", "Employee 4", "Employee 5",
			"Employee 6", "Employee 7", "Employee 8", "Employee 9", "Employee 10",
		},
		Holidays: []scenarioHoliday{
			{time.January, 1, "New Year's Day"},
			{time.December, 25, "Christmas Day"},
		},
	},
}

// Scenarios returns every scenario in display order.
func Scenarios() []Scenario {
	return append([]Scenario(nil), scenarios...)
}

// FindScenario returns the scenario with the given id.
func FindScenario(id string) (*Scenario, bool) {
	for i := range scenarios {
		if scenarios[i].ID == id {
			return &scenarios[i], true
		}
	}
	return nil, false
}

func (s Scenario) dto() ScenarioDTO {
	return ScenarioDTO{ID: s.ID, Name: s.Name, Description: s.Description, Employees: len(s.Employees)}
}

// LoadScenario resets st and seeds it with the scenario.
func LoadScenario(ctx context.Context, st store.Store, id string) (*Scenario, error) {
	sc, ok := FindScenario(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, id)
	}

	if err := st.Reset(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset database: %w", err)
	}

	now := time.Now().UTC()
	for i, name := range sc.Employees {
		emp := store.Employee{
			ID:        uuid.NewString(),
			Name:      name,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		}
		if err := st.CreateEmployee(ctx, emp); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", name, err)
		}
	}

	for _, h := range sc.Holidays {
		holiday := store.Holiday{
			ID:        uuid.NewString(),
			Date:      time.Date(now.Year(), h.month, h.day, 0, 0, 0, 0, time.UTC),
			Name:      h.name,
			Recurring: true,
		}
		if _, err := st.SaveHoliday(ctx, holiday); err != nil {
			return nil, fmt.Errorf("failed to create holiday %s: %w", h.name, err)
		}
	}

	return sc, nil
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListScenarios returns available scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = s.dto()
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
// GET /api/scenarios/current
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	current := h.currentScenario
	h.mu.RUnlock()

	sc, ok := FindScenario(current)
	if !ok {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, sc.dto())
}

// LoadScenario loads a predefined scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.currentScenario = ""
	sc, err := LoadScenario(r.Context(), h.Store, req.ScenarioID)
	if errors.Is(err, ErrUnknownScenario) {
		writeError(w, http.StatusBadRequest, "Unknown scenario", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}
	h.currentScenario = sc.ID

	h.Logger.Info().Str("scenario", sc.ID).Int("employees", len(sc.Employees)).Msg("scenario loaded")
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": sc.ID})
}

// ResetDatabase clears all data.
// POST /api/scenarios/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
