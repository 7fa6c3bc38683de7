package finance

import (
	"time"
)

// =============================================================================
// DATE - Day-granular time point (all report math is calendar-day math)
// =============================================================================

// Date is a calendar day in UTC. Hours and below are always zero; every
// comparison and step operates at day granularity.
type Date struct {
	t time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses the canonical YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

func Today() Date {
	return DateOf(time.Now().UTC())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.t.After(other.t) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.t.Before(other.t) }

// Arithmetic
func (d Date) AddDays(n int) Date { return DateOf(d.t.AddDate(0, 0, n)) }

// AddMonthsClamped advances n months keeping the day-of-month, clamped to the
// last valid day of the target month. Jan 31 + 1 month = Feb 28 (29 in leap
// years), never Mar 2-3. Always step from the anchor, not from a previously
// clamped date, or the day-of-month drifts.
func (d Date) AddMonthsClamped(n int) Date {
	months := int(d.t.Month()) - 1 + n
	year := d.t.Year() + months/12
	month := time.Month(months%12 + 1)

	day := d.t.Day()
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return NewDate(year, month, day)
}

// AddYearsClamped advances n years, clamping Feb 29 to Feb 28 in non-leap years.
func (d Date) AddYearsClamped(n int) Date {
	return d.AddMonthsClamped(n * 12)
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Properties
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) IsZero() bool      { return d.t.IsZero() }
func (d Date) Time() time.Time   { return d.t }

func (d Date) String() string {
	return d.t.Format("2006-01-02")
}

// DaysBetween returns the number of days from one date to another.
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}
