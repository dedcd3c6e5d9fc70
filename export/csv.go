/*
csv.go - CSV rendering of generated rosters

PURPOSE:
  Turns a roster into two spreadsheets managers can open directly:
  the schedule (one row per staffed shift) and the hours sheet (one row per
  employee with a column per week and a monthly total).

FORMATS:
  schedule: date,shift_start,shift_end,employees
            2025-11-01,07:00,15:00,Employee 1;Employee 2

  hours:    employee,week_1,...,week_K,total
            Employee 1,56,56,56,56,16,240

  Employees inside a schedule cell are joined with ";" so the cell needs
  no quoting. Hours are printed with decimal.String(), so 37.5 stays 37.5.

SEE ALSO:
  - roster/summary.go: Where the hour totals come from
  - api/handlers.go: /api/schedules/{id}/export.csv
*/
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/roster-engine/roster"
)

// EmployeeSeparator joins employee names inside a schedule cell.
const EmployeeSeparator = ";"

// Format is an output format accepted by the CLI and the API.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or csv)", s)
	}
}

// =============================================================================
// SCHEDULE
// =============================================================================

// ScheduleRow is one staffed shift.
type ScheduleRow struct {
	Date       string
	ShiftStart string
	ShiftEnd   string
	Employees  []string
}

// ScheduleRows flattens assignments in their calendar order.
func ScheduleRows(assignments []roster.Assignment) []ScheduleRow {
	rows := make([]ScheduleRow, 0, len(assignments))
	for _, a := range assignments {
		names := make([]string, len(a.Employees))
		for i, e := range a.Employees {
			names[i] = string(e)
		}
		rows = append(rows, ScheduleRow{
			Date:       a.Date.String(),
			ShiftStart: a.Shift.Start.String(),
			ShiftEnd:   a.Shift.End.String(),
			Employees:  names,
		})
	}
	return rows
}

// WriteScheduleCSV writes the schedule sheet.
func WriteScheduleCSV(w io.Writer, rows []ScheduleRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"date", "shift_start", "shift_end", "employees"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.Date, r.ShiftStart, r.ShiftEnd, strings.Join(r.Employees, EmployeeSeparator)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// =============================================================================
// HOURS
// =============================================================================

// HoursSheet holds weekly and monthly hours keyed by employee name.
type HoursSheet struct {
	Weekly  map[roster.WeekKey]map[string]decimal.Decimal
	Monthly map[string]decimal.Decimal
}

// HoursSheetOf builds a sheet from an engine summary.
func HoursSheetOf(summary roster.Summary) HoursSheet {
	sheet := HoursSheet{
		Weekly:  make(map[roster.WeekKey]map[string]decimal.Decimal, len(summary.WeeklyHours)),
		Monthly: make(map[string]decimal.Decimal, len(summary.MonthlyHours)),
	}
	for _, wh := range summary.WeeklyHours {
		week := make(map[string]decimal.Decimal, len(wh.Employees))
		for _, eh := range wh.Employees {
			week[string(eh.Employee)] = eh.Hours
		}
		sheet.Weekly[wh.Week] = week
	}
	for _, eh := range summary.MonthlyHours {
		sheet.Monthly[string(eh.Employee)] = eh.Hours
	}
	return sheet
}

// WriteHoursCSV writes one row per employee, sorted by name. Weeks run
// from week_1 to the last week seen; a week without hours prints 0.
func WriteHoursCSV(w io.Writer, sheet HoursSheet) error {
	lastWeek := roster.WeekKey(0)
	for week := range sheet.Weekly {
		lastWeek = max(lastWeek, week)
	}

	names := make([]string, 0, len(sheet.Monthly))
	for name := range sheet.Monthly {
		names = append(names, name)
	}
	slices.Sort(names)

	cw := csv.NewWriter(w)

	header := []string{"employee"}
	for week := roster.WeekKey(1); week <= lastWeek; week++ {
		header = append(header, week.String())
	}
	header = append(header, "total")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, name := range names {
		record := []string{name}
		for week := roster.WeekKey(1); week <= lastWeek; week++ {
			hours := sheet.Weekly[week][name]
			record = append(record, hours.String())
		}
		record = append(record, sheet.Monthly[name].String())
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
