package roster

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// DATE KEY - Calendar date identity used throughout a run
// =============================================================================

// DateKey is a calendar date. It is the only date identity the engine uses,
// both for lookups and for display.
type DateKey struct {
	Year  int
	Month time.Month
	Day   int
}

// Constructors
func NewDateKey(year int, month time.Month, day int) DateKey {
	return DateKey{Year: year, Month: month, Day: day}
}

func DateKeyOf(t time.Time) DateKey {
	return DateKey{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDateKey parses an ISO YYYY-MM-DD date.
func ParseDateKey(s string) (DateKey, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return DateKey{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return DateKeyOf(t), nil
}

// Properties
func (d DateKey) Time() time.Time { return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC) }
func (d DateKey) Week() WeekKey { return WeekKey((d.Day + 6) / 7) }
func (d DateKey) String() string { return d.Time().Format("2006-01-02") }
func (d DateKey) Before(other DateKey) bool { return d.Time().Before(other.Time()) }

// =============================================================================
// WEEK KEY - Fixed 7-day buckets anchored at day 1
// =============================================================================

// WeekKey is ceil(dayOfMonth / 7). Days 1-7 are week 1, 29-31 are week 5.
// These are not ISO weeks.
type WeekKey int

func (w WeekKey) String() string { return "week_" + strconv.Itoa(int(w)) }

// ParseWeekKey accepts "week_N" or "N".
func ParseWeekKey(s string) (WeekKey, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(s, "week_"))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid week key %q", s)
	}
	return WeekKey(n), nil
}

// =============================================================================
// TIME OF DAY
// =============================================================================

// TimeOfDay is a wall-clock time within a day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// =============================================================================
// MONTH UTILITIES
// =============================================================================

// DaysInMonth accounts for leap years.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthOf converts a 0-based month index to time.Month.
func MonthOf(monthIndex int) time.Month { return time.Month(monthIndex + 1) }
