package finance

import "time"

// =============================================================================
// WINDOW - The inclusive date range a report covers
// =============================================================================

// Window is the inclusive [Start, End] range a report covers. Reports are
// ALWAYS computed for a window, never at a point in time.
//
// Examples:
//   - Calendar year 2024: Jan 1 - Dec 31
//   - February 2024:      Feb 1 - Feb 29 (leap year aware)
type Window struct {
	Start Date
	End   Date
}

// Contains returns true if the date is within the window [Start, End].
func (w Window) Contains(d Date) bool {
	return d.AfterOrEqual(w.Start) && d.BeforeOrEqual(w.End)
}

func (w Window) String() string {
	return "[" + w.Start.String() + ", " + w.End.String() + "]"
}

// Window boundaries are derived from the NEXT period's first day rather than
// manual last-day arithmetic, so month length and leap years fall out of the
// calendar instead of being hardcoded.

// YearWindow returns the calendar-year window Jan 1 .. Dec 31 in UTC.
func YearWindow(year int) (Window, error) {
	if year < 1 || year > 9999 {
		return Window{}, &WindowError{Year: year}
	}
	first := NewDate(year, time.January, 1)
	return Window{Start: first, End: first.AddMonthsClamped(12).AddDays(-1)}, nil
}

// MonthWindow returns the window covering one calendar month, first through
// last day inclusive.
func MonthWindow(year int, month time.Month) (Window, error) {
	if year < 1 || year > 9999 || month < time.January || month > time.December {
		m := int(month)
		return Window{}, &WindowError{Year: year, Month: &m}
	}
	first := NewDate(year, month, 1)
	return Window{Start: first, End: first.AddMonthsClamped(1).AddDays(-1)}, nil
}
