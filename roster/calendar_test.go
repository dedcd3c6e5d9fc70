package roster_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/roster-engine/roster"
)

// =============================================================================
// MONTH DATES
// =============================================================================

func TestDeriveMonthDates_November(t *testing.T) {
	dates, err := roster.DeriveMonthDates(2025, 10)
	require.NoError(t, err)

	require.Len(t, dates, 30)
	assert.Equal(t, "2025-11-01", dates[0].String())
	assert.Equal(t, "2025-11-30", dates[29].String())
	for i, d := range dates {
		assert.Equal(t, i+1, d.Day)
		assert.Equal(t, time.November, d.Month)
	}
}

func TestDeriveMonthDates_LeapYear(t *testing.T) {
	leap, err := roster.DeriveMonthDates(2024, 1)
	require.NoError(t, err)
	assert.Len(t, leap, 29)

	common, err := roster.DeriveMonthDates(2025, 1)
	require.NoError(t, err)
	assert.Len(t, common, 28)

	century, err := roster.DeriveMonthDates(1900, 1)
	require.NoError(t, err)
	assert.Len(t, century, 28, "1900 is not a leap year")
}

func TestDeriveMonthDates_InvalidMonth(t *testing.T) {
	for _, m := range []int{-1, 12, 99} {
		_, err := roster.DeriveMonthDates(2025, m)
		assert.ErrorIs(t, err, roster.ErrInvalidConfig, "month %d", m)

		var cfgErr *roster.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "month", cfgErr.Field)
	}
}

func TestDateKey_Week(t *testing.T) {
	cases := map[int]roster.WeekKey{1: 1, 7: 1, 8: 2, 14: 2, 15: 3, 28: 4, 29: 5, 31: 5}
	for day, want := range cases {
		assert.Equal(t, want, roster.NewDateKey(2025, time.March, day).Week(), "day %d", day)
	}
	assert.Equal(t, "week_3", roster.WeekKey(3).String())
}

// =============================================================================
// SHIFT WINDOWS
// =============================================================================

func TestDeriveShiftWindows_TwoEightHourShifts(t *testing.T) {
	windows, err := roster.DeriveShiftWindows(7, 2, 8)
	require.NoError(t, err)

	require.Len(t, windows, 2)
	assert.Equal(t, "07:00-15:00", windows[0].String())
	assert.Equal(t, "15:00-23:00", windows[1].String())
	assert.Equal(t, 0, windows[0].Index)
	assert.Equal(t, 1, windows[1].Index)
}

func TestDeriveShiftWindows_DefaultHoursTileTheDay(t *testing.T) {
	// GIVEN: 2 shifts, hours omitted
	// THEN: floor(24/2) = 12 hour shifts, the second one overnight
	windows, err := roster.DeriveShiftWindows(7, 2, 0)
	require.NoError(t, err)

	assert.Equal(t, "07:00-19:00", windows[0].String())
	assert.Equal(t, "19:00-07:00", windows[1].String())
}

func TestDeriveShiftWindows_WrapPastMidnight(t *testing.T) {
	windows, err := roster.DeriveShiftWindows(22, 3, 8)
	require.NoError(t, err)

	got := make([]string, len(windows))
	for i, w := range windows {
		got[i] = w.String()
	}
	assert.Equal(t, []string{"22:00-06:00", "06:00-14:00", "14:00-22:00"}, got)
}

func TestDeriveShiftWindows_OverlongIsNotRejected(t *testing.T) {
	// 3 x 10h exceeds a day; the calendar leaves that to CheckPreconditions.
	windows, err := roster.DeriveShiftWindows(0, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, "20:00-06:00", windows[2].String())
}

func TestDeriveShiftWindows_InvalidInputs(t *testing.T) {
	cases := []struct {
		name                   string
		opening, shifts, hours int
		field                  string
	}{
		{"opening too high", 24, 2, 8, "opening_hour"},
		{"opening negative", -1, 2, 8, "opening_hour"},
		{"no shifts", 7, 0, 8, "shifts_per_day"},
		{"negative hours", 7, 2, -8, "hours_per_shift"},
		{"default hours round to zero", 7, 25, 0, "hours_per_shift"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := roster.DeriveShiftWindows(tc.opening, tc.shifts, tc.hours)
			var cfgErr *roster.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.field, cfgErr.Field)
			assert.ErrorIs(t, err, roster.ErrInvalidConfig)
		})
	}
}

func TestCalendar_IsDeterministic(t *testing.T) {
	d1, err := roster.DeriveMonthDates(2025, 10)
	require.NoError(t, err)
	d2, err := roster.DeriveMonthDates(2025, 10)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	w1, err := roster.DeriveShiftWindows(6, 3, 8)
	require.NoError(t, err)
	w2, err := roster.DeriveShiftWindows(6, 3, 8)
	require.NoError(t, err)
	assert.Equal(t, w1, w2)
}

func TestExcludeDates(t *testing.T) {
	dates, err := roster.DeriveMonthDates(2025, 11)
	require.NoError(t, err)

	christmas := roster.NewDateKey(2025, time.December, 25)
	outside := roster.NewDateKey(2026, time.January, 1)
	kept := roster.ExcludeDates(dates, []roster.DateKey{christmas, outside})

	assert.Len(t, kept, 30)
	assert.NotContains(t, kept, christmas)
	assert.Equal(t, dates[23], kept[23])
	assert.Equal(t, dates[25], kept[24])
}

func TestParseDateKey(t *testing.T) {
	d, err := roster.ParseDateKey("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, roster.NewDateKey(2024, time.February, 29), d)

	_, err = roster.ParseDateKey("Fri Nov 01 2025")
	assert.Error(t, err)
}
