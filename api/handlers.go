/*
handlers.go - HTTP API handlers for the roster service

PURPOSE:
  Exposes the roster engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the Generator and the store.

ENDPOINTS:
  Employees:
    GET    /api/employees              List employees (creation order)
    POST   /api/employees              Create employee
    GET    /api/employees/{id}         Get employee
    PUT    /api/employees/{id}         Rename employee
    DELETE /api/employees/{id}         Delete employee

  Holidays:
    GET    /api/holidays               List holidays
    POST   /api/holidays               Add holiday
    DELETE /api/holidays/{id}          Delete holiday

  Schedules:
    POST   /api/schedules              Generate a roster (optionally save it)
    GET    /api/schedules              List saved rosters
    GET    /api/schedules/{id}         Get a saved roster
    GET    /api/schedules/{id}/export.csv?sheet=schedule|hours
    DELETE /api/schedules/{id}         Delete a saved roster

  Admin:
    POST   /api/admin/pregenerate      Run the monthly scheduler now

  Scenarios: see scenarios.go

ERROR HANDLING:
  Errors are returned as JSON {"error","code","details"}:
  - 400: Invalid body, invalid configuration, duplicate names in a request
  - 404: Employee, holiday or roster not found
  - 409: Employee name already taken in the directory
  - 422: Not enough staff to cover a day (unless allow_understaffed)
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - generate.go: Generation rules shared with the scheduler and CLI
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/warp/roster-engine/export"
	"github.com/warp/roster-engine/logging"
	"github.com/warp/roster-engine/roster"
	"github.com/warp/roster-engine/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     store.Store
	Generator *Generator
	Scheduler *RosterScheduler // optional
	Logger    zerolog.Logger

	// Track currently loaded scenario
	mu              sync.RWMutex
	currentScenario string
}

// NewHandler creates a new handler.
func NewHandler(st store.Store, gen *Generator, logger zerolog.Logger) *Handler {
	return &Handler{
		Store:     st,
		Generator: gen,
		Logger:    logging.Component(logger, "api"),
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeEmployeeName(w, r)
	if !ok {
		return
	}

	emp := store.Employee{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.CreateEmployee(r.Context(), emp); err != nil {
		writeStoreError(w, "Failed to create employee", err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// GetEmployee returns one employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// UpdateEmployee renames an employee.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeEmployeeName(w, r)
	if !ok {
		return
	}

	emp, err := h.Store.RenameEmployee(r.Context(), chi.URLParam(r, "id"), name)
	if err != nil {
		writeStoreError(w, "Failed to update employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// DeleteEmployee removes an employee.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, "Failed to delete employee", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// decodeEmployeeName reads {"name": "..."} and writes the 400 itself.
func decodeEmployeeName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req EmployeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return "", false
	}

	name, ok := req.Name.(string)
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		writeError(w, http.StatusBadRequest, "Name must be a text", nil)
		return "", false
	}
	if err := CheckEmployeeName(name); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid name", err)
		return "", false
	}
	return name, true
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns all holidays.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get holidays", err)
		return
	}

	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		dtos = append(dtos, toHolidayDTO(hol))
	}
	writeJSON(w, http.StatusOK, map[string]any{"holidays": dtos})
}

// CreateHoliday adds a holiday.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Date == "" || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Date and name are required", nil)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	holiday := store.Holiday{
		ID:        uuid.NewString(),
		Date:      date,
		Name:      strings.TrimSpace(req.Name),
		Recurring: req.Recurring,
	}
	saved, err := h.Store.SaveHoliday(r.Context(), holiday)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create holiday", err)
		return
	}

	writeJSON(w, http.StatusCreated, toHolidayDTO(*saved))
}

// DeleteHoliday deletes a holiday.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, "Failed to delete holiday", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// CreateSchedule generates a roster.
func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	gen, err := h.Generator.Generate(r.Context(), req)
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	status := http.StatusOK
	if gen.Response.ID != "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, gen.Response)
}

// ListSchedules lists saved rosters, newest first.
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListRosters(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list schedules", err)
		return
	}

	dtos := make([]RosterHeaderDTO, len(records))
	for i, rec := range records {
		dtos[i] = toRosterHeaderDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetSchedule returns a saved roster.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	resp, ok := h.loadSchedule(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ExportSchedule streams a saved roster as CSV.
func (h *Handler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	sheet := r.URL.Query().Get("sheet")
	if sheet == "" {
		sheet = "schedule"
	}
	if sheet != "schedule" && sheet != "hours" {
		writeError(w, http.StatusBadRequest, "Unknown sheet (use schedule or hours)", nil)
		return
	}

	resp, ok := h.loadSchedule(w, r)
	if !ok {
		return
	}

	filename := fmt.Sprintf("roster-%04d-%02d-%s.csv", resp.Year, resp.Month+1, sheet)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	var err error
	if sheet == "hours" {
		err = export.WriteHoursCSV(w, resp.hoursSheet())
	} else {
		err = export.WriteScheduleCSV(w, resp.scheduleRows())
	}
	if err != nil {
		h.Logger.Error().Err(err).Str("roster_id", resp.ID).Msg("csv export interrupted")
	}
}

// DeleteSchedule removes a saved roster.
func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteRoster(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, "Failed to delete schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) loadSchedule(w http.ResponseWriter, r *http.Request) (*ScheduleResponse, bool) {
	rec, err := h.Store.GetRoster(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, "Failed to get schedule", err)
		return nil, false
	}

	var resp ScheduleResponse
	if err := json.Unmarshal([]byte(rec.PayloadJSON), &resp); err != nil {
		writeError(w, http.StatusInternalServerError, "Stored schedule is corrupt", err)
		return nil, false
	}
	resp.ID = rec.ID
	return &resp, true
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// Pregenerate runs the monthly scheduler once.
func (h *Handler) Pregenerate(w http.ResponseWriter, r *http.Request) {
	if h.Scheduler == nil {
		writeError(w, http.StatusServiceUnavailable, "Scheduler not configured", nil)
		return
	}

	res, err := h.Scheduler.RunNow(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Pre-generation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// maxBodyBytes limits request bodies.
const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps store sentinels to HTTP statuses.
func writeStoreError(w http.ResponseWriter, fallback string, err error) {
	switch {
	case errors.Is(err, store.ErrEmployeeNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Employee not found", Code: "not_found"})
	case errors.Is(err, store.ErrHolidayNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Holiday not found", Code: "not_found"})
	case errors.Is(err, store.ErrRosterNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Schedule not found", Code: "not_found"})
	case errors.Is(err, store.ErrDuplicateEmployee):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "Employee name already exists", Code: "duplicate_employee", Details: err.Error()})
	default:
		writeError(w, http.StatusInternalServerError, fallback, err)
	}
}

// writeGenerationError maps engine and precondition errors to HTTP statuses.
func writeGenerationError(w http.ResponseWriter, err error) {
	var cfgErr *roster.ConfigError
	var staffErr *roster.InsufficientStaffError

	switch {
	case errors.As(err, &cfgErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: cfgErr.Error(),
			Code:  "invalid_config",
			Details: map[string]any{
				"field":  cfgErr.Field,
				"value":  cfgErr.Value,
				"reason": cfgErr.Reason,
			},
		})
	case errors.As(err, &staffErr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: staffErr.Error(),
			Code:  "insufficient_staff",
			Details: map[string]int{
				"employees": staffErr.Employees,
				"required":  staffErr.Required,
			},
		})
	case errors.Is(err, roster.ErrDuplicateEmployee):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "duplicate_employee"})
	default:
		writeError(w, http.StatusInternalServerError, "Failed to generate schedule", err)
	}
}
