/*
calendar.go - Shift Calendar

PURPOSE:
  Derives the dates of the target month and the shift windows of a day from
  scalar configuration. Both functions are pure: identical inputs always give
  identical, identically ordered output.

SHIFT WINDOWS:
  For i in 0..shiftsPerDay-1:
    start = (openingHour + i*hoursPerShift) mod 24
    end   = (start + hoursPerShift) mod 24

  Example, opening 07:00, 2 shifts of 8h:  07:00-15:00, 15:00-23:00
  Example, opening 22:00, 3 shifts of 8h:  22:00-06:00, 06:00-14:00, 14:00-22:00

  The arithmetic does not reject shiftsPerDay*hoursPerShift > 24; that rule
  lives in CheckPreconditions so the caller decides.
*/
package roster

// DeriveMonthDates returns day 1..N of the month, N accounting for leap years.
func DeriveMonthDates(year, monthIndex int) ([]DateKey, error) {
	if monthIndex < 0 || monthIndex > 11 {
		return nil, &ConfigError{Field: "month", Value: monthIndex, Reason: "must be between 0 and 11"}
	}

	month := MonthOf(monthIndex)
	total := DaysInMonth(year, month)
	dates := make([]DateKey, 0, total)
	for day := 1; day <= total; day++ {
		dates = append(dates, NewDateKey(year, month, day))
	}
	return dates, nil
}

// DeriveShiftWindows returns the shift windows of a day in position order.
// A hoursPerShift of 0 defaults to floor(24 / shiftsPerDay).
func DeriveShiftWindows(openingHour, shiftsPerDay, hoursPerShift int) ([]ShiftWindow, error) {
	if openingHour < 0 || openingHour > 23 {
		return nil, &ConfigError{Field: "opening_hour", Value: openingHour, Reason: "must be between 0 and 23"}
	}
	if shiftsPerDay < 1 {
		return nil, &ConfigError{Field: "shifts_per_day", Value: shiftsPerDay, Reason: "must be at least 1"}
	}
	if hoursPerShift == 0 {
		hoursPerShift = 24 / shiftsPerDay
	}
	if hoursPerShift < 1 {
		return nil, &ConfigError{Field: "hours_per_shift", Value: hoursPerShift, Reason: "must be at least 1"}
	}

	windows := make([]ShiftWindow, shiftsPerDay)
	for i := range windows {
		start := (openingHour + i*hoursPerShift) % 24
		end := (start + hoursPerShift) % 24
		windows[i] = ShiftWindow{
			Index: i,
			Start: TimeOfDay{Hour: start},
			End:   TimeOfDay{Hour: end},
		}
	}
	return windows, nil
}

// ExcludeDates drops the given dates, keeping the order of the rest.
func ExcludeDates(dates []DateKey, excluded []DateKey) []DateKey {
	if len(excluded) == 0 {
		return dates
	}
	skip := make(map[DateKey]struct{}, len(excluded))
	for _, d := range excluded {
		skip[d] = struct{}{}
	}

	kept := make([]DateKey, 0, len(dates))
	for _, d := range dates {
		if _, ok := skip[d]; !ok {
			kept = append(kept, d)
		}
	}
	return kept
}

// String renders a window as "HH:MM-HH:MM".
func (w ShiftWindow) String() string {
	return w.Start.String() + "-" + w.End.String()
}

