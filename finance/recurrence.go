/*
recurrence.go - Recurrence rule evaluation

PURPOSE:
  Implements the schedule behind recurring records: given an anchor date, a
  frequency, and an optional end date, enumerate every occurrence that falls
  inside an arbitrary window.

FREQUENCY MAPPING:
  weekly    every 7 days
  biweekly  every 14 days
  monthly   every month, same day-of-month (clamped)
  yearly    every year, same month/day (clamped)

CALENDAR-AWARE STEPPING:
  Month and year advancement keeps the anchor's day-of-month and clamps to the
  last valid day of the target month. A monthly rule anchored on Jan 31 emits
  Feb 28 (29 in leap years), Mar 31, Apr 30, ... Each occurrence is computed by
  advancing the ANCHOR by k periods; stepping an already-clamped date would
  drift (Jan 31 -> Feb 28 -> Mar 28 instead of Mar 31).

BOUNDS:
  The upper bound is min(window end, rule end date), both inclusive. Candidates
  before the window start are skipped, not emitted.

SEE ALSO:
  - time.go: AddMonthsClamped / AddYearsClamped
  - expand.go: Applies a Rule to a Record
*/
package finance

// Rule describes a repeating schedule: a frequency anchored at a start date,
// optionally bounded by an inclusive end date.
type Rule struct {
	Start Date
	Freq  Frequency
	End   *Date
}

// OccurrencesWithin returns every occurrence date inside the inclusive window,
// in ascending order. An unknown frequency or a zero anchor yields nil;
// malformed schedules degrade, they never fail.
func (r Rule) OccurrencesWithin(w Window) []Date {
	if r.Start.IsZero() {
		return nil
	}

	limit := w.End
	if r.End != nil && r.End.Before(limit) {
		limit = *r.End
	}
	if limit.Before(r.Start) {
		return nil
	}

	switch r.Freq {
	case FreqWeekly:
		return r.byDays(7, w.Start, limit)
	case FreqBiweekly:
		return r.byDays(14, w.Start, limit)
	case FreqMonthly:
		return r.byMonths(1, w.Start, limit)
	case FreqYearly:
		return r.byMonths(12, w.Start, limit)
	default:
		return nil
	}
}

// byDays enumerates fixed-length steps. The first in-window candidate is
// computed directly so a rule anchored years back does not walk day by day.
func (r Rule) byDays(step int, from, limit Date) []Date {
	k := 0
	if gap := DaysBetween(r.Start, from); gap > 0 {
		k = (gap + step - 1) / step
	}

	var dates []Date
	for {
		candidate := r.Start.AddDays(k * step)
		if candidate.After(limit) {
			return dates
		}
		if candidate.AfterOrEqual(from) {
			dates = append(dates, candidate)
		}
		k++
	}
}

func (r Rule) byMonths(step int, from, limit Date) []Date {
	var dates []Date
	for k := 0; ; k++ {
		candidate := r.Start.AddMonthsClamped(k * step)
		if candidate.After(limit) {
			return dates
		}
		if candidate.AfterOrEqual(from) {
			dates = append(dates, candidate)
		}
	}
}
