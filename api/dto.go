/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the roster engine's model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Employee:  EmployeeDTO, EmployeeRequest
  Holiday:   HolidayDTO, CreateHolidayRequest
  Schedule:  GenerateRequest, ScheduleResponse, ScheduleDTO, SummaryDTO,
             OverworkedDTO, RosterHeaderDTO
  Scenarios: ScenarioDTO, LoadScenarioRequest

HOURS:
  Hours are decimals inside the engine and plain JSON numbers on the wire.
  Breakdowns are objects keyed by week ("week_1") and employee name.

VALIDATION:
  Validation is done in handlers and in the roster engine, not in DTOs.
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/roster-engine/export"
	"github.com/warp/roster-engine/roster"
	"github.com/warp/roster-engine/store"
)

// SuccessMessage is returned with every generated schedule.
const SuccessMessage = "success create schedule"

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}

// EmployeeRequest creates or renames an employee. Name is decoded loosely
// so a number or a list gets a proper validation message instead of a
// JSON decoding error.
type EmployeeRequest struct {
	Name any `json:"name"`
}

func toEmployeeDTO(e store.Employee) EmployeeDTO {
	dto := EmployeeDTO{ID: e.ID, Name: e.Name}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidayDTO represents a closed day.
type HolidayDTO struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// CreateHolidayRequest is the request to add a holiday.
type CreateHolidayRequest struct {
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

func toHolidayDTO(h store.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:        h.ID,
		Date:      h.Date.Format("2006-01-02"),
		Name:      h.Name,
		Recurring: h.Recurring,
	}
}

// =============================================================================
// SCHEDULES
// =============================================================================

// GenerateRequest asks for a monthly roster. Only Month is required;
// everything else falls back to the configured roster defaults.
//
// Staff source, first match wins: Employees, TotalEmployee ("Employee 1".."Employee N"),
// then the stored employee directory in creation order.
type GenerateRequest struct {
	Year                *int     `json:"year,omitempty"`
	Month               *int     `json:"month"`
	ShiftsPerDay        *int     `json:"shifts_per_day,omitempty"`
	OpeningHour         *int     `json:"opening_hour,omitempty"`
	HoursPerShift       *int     `json:"hours_per_shift,omitempty"`
	EmployeesPerShift   *int     `json:"employees_per_shift,omitempty"`
	WeeklyHourThreshold *float64 `json:"weekly_hour_threshold,omitempty"`
	Employees           []string `json:"employees,omitempty"`
	TotalEmployee       *int     `json:"total_employee,omitempty"`
	Holidays            []string `json:"holidays,omitempty"`
	AllowUnderstaffed   bool     `json:"allow_understaffed,omitempty"`
	Save                bool     `json:"save,omitempty"`
}

// ScheduleDTO is one staffed shift.
type ScheduleDTO struct {
	Date       string   `json:"date"`
	ShiftStart string   `json:"shift_start"`
	ShiftEnd   string   `json:"shift_end"`
	Employees  []string `json:"employees"`
}

// OverworkedDTO flags an employee above the threshold in one week.
type OverworkedDTO struct {
	Name       string  `json:"name"`
	Week       string  `json:"week"`
	TotalHours float64 `json:"total_hours"`
}

// SummaryDTO is the hour summary of a roster.
type SummaryDTO struct {
	MedianOfWeeklyHour   float64                       `json:"median_of_weekly_hour"`
	WeeklyHourBreakdown  map[string]map[string]float64 `json:"weekly_hour_breakdown"`
	MonthlyHourBreakdown map[string]float64            `json:"monthly_hour_breakdown"`
	OverworkedEmployees  []OverworkedDTO               `json:"overworked_employees"`
}

// ScheduleResponse is a generated (and possibly saved) roster.
type ScheduleResponse struct {
	ID        string        `json:"id,omitempty"`
	Year      int           `json:"year"`
	Month     int           `json:"month"`
	Schedules []ScheduleDTO `json:"schedules"`
	Summary   SummaryDTO    `json:"summary"`
	Message   string        `json:"message"`
}

// RosterHeaderDTO lists a saved roster without its payload.
type RosterHeaderDTO struct {
	ID        string `json:"id"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Source    string `json:"source"`
	CreatedAt string `json:"created_at"`
}

// NewScheduleResponse renders an engine result.
func NewScheduleResponse(result *roster.Result) ScheduleResponse {
	schedules := make([]ScheduleDTO, 0, len(result.Assignments))
	for _, row := range export.ScheduleRows(result.Assignments) {
		schedules = append(schedules, ScheduleDTO{
			Date:       row.Date,
			ShiftStart: row.ShiftStart,
			ShiftEnd:   row.ShiftEnd,
			Employees:  row.Employees,
		})
	}

	return ScheduleResponse{
		Year:      result.Config.Year,
		Month:     result.Config.MonthIndex,
		Schedules: schedules,
		Summary:   toSummaryDTO(result.Summary),
		Message:   SuccessMessage,
	}
}

func toSummaryDTO(s roster.Summary) SummaryDTO {
	weekly := make(map[string]map[string]float64, len(s.WeeklyHours))
	for _, wh := range s.WeeklyHours {
		week := make(map[string]float64, len(wh.Employees))
		for _, eh := range wh.Employees {
			week[string(eh.Employee)] = eh.Hours.InexactFloat64()
		}
		weekly[wh.Week.String()] = week
	}

	monthly := make(map[string]float64, len(s.MonthlyHours))
	for _, eh := range s.MonthlyHours {
		monthly[string(eh.Employee)] = eh.Hours.InexactFloat64()
	}

	overworked := make([]OverworkedDTO, 0, len(s.Overworked))
	for _, o := range s.Overworked {
		overworked = append(overworked, OverworkedDTO{
			Name:       string(o.Employee),
			Week:       o.Week.String(),
			TotalHours: o.Hours.InexactFloat64(),
		})
	}

	return SummaryDTO{
		MedianOfWeeklyHour:   s.MedianWeeklyHours.InexactFloat64(),
		WeeklyHourBreakdown:  weekly,
		MonthlyHourBreakdown: monthly,
		OverworkedEmployees:  overworked,
	}
}

// scheduleRows converts a stored response back into CSV rows.
func (resp ScheduleResponse) scheduleRows() []export.ScheduleRow {
	rows := make([]export.ScheduleRow, len(resp.Schedules))
	for i, s := range resp.Schedules {
		rows[i] = export.ScheduleRow{
			Date:       s.Date,
			ShiftStart: s.ShiftStart,
			ShiftEnd:   s.ShiftEnd,
			Employees:  s.Employees,
		}
	}
	return rows
}

// hoursSheet converts a stored summary back into a CSV hours sheet.
// Unparseable week keys are skipped.
func (resp ScheduleResponse) hoursSheet() export.HoursSheet {
	sheet := export.HoursSheet{
		Weekly:  make(map[roster.WeekKey]map[string]decimal.Decimal),
		Monthly: make(map[string]decimal.Decimal),
	}
	for key, employees := range resp.Summary.WeeklyHourBreakdown {
		week, err := roster.ParseWeekKey(key)
		if err != nil {
			continue
		}
		hours := make(map[string]decimal.Decimal, len(employees))
		for name, h := range employees {
			hours[name] = decimal.NewFromFloat(h)
		}
		sheet.Weekly[week] = hours
	}
	for name, h := range resp.Summary.MonthlyHourBreakdown {
		sheet.Monthly[name] = decimal.NewFromFloat(h)
	}
	return sheet
}

func toRosterHeaderDTO(r store.RosterRecord) RosterHeaderDTO {
	return RosterHeaderDTO{
		ID:        r.ID,
		Year:      r.Year,
		Month:     r.MonthIndex,
		Source:    string(r.Source),
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO represents a demo staff set.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Employees   int    `json:"employees"`
}

// LoadScenarioRequest is the request to load a demo scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
