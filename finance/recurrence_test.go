package finance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendful/report-engine/finance"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) finance.Date {
	return finance.NewDate(year, month, day)
}

func mustYearWindow(t *testing.T, year int) finance.Window {
	t.Helper()
	w, err := finance.YearWindow(year)
	require.NoError(t, err)
	return w
}

func mustMonthWindow(t *testing.T, year int, month time.Month) finance.Window {
	t.Helper()
	w, err := finance.MonthWindow(year, month)
	require.NoError(t, err)
	return w
}

func dateStrings(dates []finance.Date) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.String()
	}
	return out
}

// =============================================================================
// WEEKLY / BIWEEKLY
// =============================================================================

func TestRule_Weekly_EmitsEverySeventhDay(t *testing.T) {
	// GIVEN: A weekly rule anchored on Mon Jan 2 2023, no end date
	// WHEN: Expanding into January 2023
	// THEN: Jan 2, 9, 16, 23, 30

	rule := finance.Rule{Start: date(2023, time.January, 2), Freq: finance.FreqWeekly}
	got := rule.OccurrencesWithin(mustMonthWindow(t, 2023, time.January))

	assert.Equal(t,
		[]string{"2023-01-02", "2023-01-09", "2023-01-16", "2023-01-23", "2023-01-30"},
		dateStrings(got))
}

func TestRule_Biweekly_EndDateClipsSchedule(t *testing.T) {
	// GIVEN: A biweekly rule from Jan 1 2023 ending Jan 20 2023
	// WHEN: Expanding into the whole of 2023
	// THEN: Jan 1 and Jan 15 only; Jan 29 exceeds the end date

	end := date(2023, time.January, 20)
	rule := finance.Rule{Start: date(2023, time.January, 1), Freq: finance.FreqBiweekly, End: &end}
	got := rule.OccurrencesWithin(mustYearWindow(t, 2023))

	assert.Equal(t, []string{"2023-01-01", "2023-01-15"}, dateStrings(got))
}

func TestRule_Weekly_AnchorYearsBeforeWindow_StaysOnAnchorCycle(t *testing.T) {
	// GIVEN: A weekly rule anchored Wed Jan 1 2020
	// WHEN: Expanding into the first week of March 2023
	// THEN: Every emitted date is a whole number of weeks from the anchor

	rule := finance.Rule{Start: date(2020, time.January, 1), Freq: finance.FreqWeekly}
	got := rule.OccurrencesWithin(finance.Window{
		Start: date(2023, time.March, 1),
		End:   date(2023, time.March, 7),
	})

	require.Len(t, got, 1)
	assert.Equal(t, 0, finance.DaysBetween(rule.Start, got[0])%7)
}

// =============================================================================
// MONTHLY / YEARLY - calendar-aware stepping
// =============================================================================

func TestRule_Monthly_Jan31_ClampsToEndOfFebruary(t *testing.T) {
	// GIVEN: A monthly rule anchored on Jan 31 2023
	// WHEN: Expanding into February 2023 (28 days)
	// THEN: Exactly one occurrence, clamped to Feb 28

	rule := finance.Rule{Start: date(2023, time.January, 31), Freq: finance.FreqMonthly}
	got := rule.OccurrencesWithin(mustMonthWindow(t, 2023, time.February))

	assert.Equal(t, []string{"2023-02-28"}, dateStrings(got))
}

func TestRule_Monthly_Jan31_LeapFebruaryClampsTo29(t *testing.T) {
	rule := finance.Rule{Start: date(2024, time.January, 31), Freq: finance.FreqMonthly}
	got := rule.OccurrencesWithin(mustMonthWindow(t, 2024, time.February))

	assert.Equal(t, []string{"2024-02-29"}, dateStrings(got))
}

func TestRule_Monthly_Jan31_DoesNotDriftAfterClamping(t *testing.T) {
	// GIVEN: A monthly rule anchored on Jan 31 2023
	// WHEN: Expanding across the full year
	// THEN: Long months return to the 31st; clamping Feb never drags
	//       March down to the 28th

	rule := finance.Rule{Start: date(2023, time.January, 31), Freq: finance.FreqMonthly}
	got := rule.OccurrencesWithin(mustYearWindow(t, 2023))

	assert.Equal(t, []string{
		"2023-01-31", "2023-02-28", "2023-03-31", "2023-04-30",
		"2023-05-31", "2023-06-30", "2023-07-31", "2023-08-31",
		"2023-09-30", "2023-10-31", "2023-11-30", "2023-12-31",
	}, dateStrings(got))
}

func TestRule_Yearly_Feb29_ClampsInNonLeapYears(t *testing.T) {
	rule := finance.Rule{Start: date(2020, time.February, 29), Freq: finance.FreqYearly}

	got := rule.OccurrencesWithin(mustYearWindow(t, 2023))
	assert.Equal(t, []string{"2023-02-28"}, dateStrings(got))

	got = rule.OccurrencesWithin(mustYearWindow(t, 2024))
	assert.Equal(t, []string{"2024-02-29"}, dateStrings(got))
}

func TestRule_Yearly_OnePerYear(t *testing.T) {
	rule := finance.Rule{Start: date(2019, time.June, 15), Freq: finance.FreqYearly}
	got := rule.OccurrencesWithin(mustYearWindow(t, 2023))

	assert.Equal(t, []string{"2023-06-15"}, dateStrings(got))
}

// =============================================================================
// BOUNDS AND DEGRADATION
// =============================================================================

func TestRule_StartInsideWindow_FirstOccurrenceIsAnchor(t *testing.T) {
	rule := finance.Rule{Start: date(2023, time.July, 10), Freq: finance.FreqMonthly}
	got := rule.OccurrencesWithin(mustYearWindow(t, 2023))

	require.NotEmpty(t, got)
	assert.Equal(t, "2023-07-10", got[0].String())
	assert.Equal(t, []string{
		"2023-07-10", "2023-08-10", "2023-09-10",
		"2023-10-10", "2023-11-10", "2023-12-10",
	}, dateStrings(got))
}

func TestRule_StartAfterWindow_NoOccurrences(t *testing.T) {
	rule := finance.Rule{Start: date(2024, time.March, 1), Freq: finance.FreqWeekly}
	got := rule.OccurrencesWithin(mustYearWindow(t, 2023))

	assert.Empty(t, got)
}

func TestRule_EndBeforeWindow_NoOccurrences(t *testing.T) {
	end := date(2022, time.June, 1)
	rule := finance.Rule{Start: date(2022, time.January, 1), Freq: finance.FreqMonthly, End: &end}
	got := rule.OccurrencesWithin(mustYearWindow(t, 2023))

	assert.Empty(t, got)
}

func TestRule_UnknownFrequency_EmitsNothing(t *testing.T) {
	// Unknown frequencies degrade to zero occurrences; they never panic or error.
	rule := finance.Rule{Start: date(2023, time.January, 1), Freq: finance.Frequency("daily")}
	got := rule.OccurrencesWithin(mustYearWindow(t, 2023))

	assert.Empty(t, got)
}

func TestRule_ZeroAnchor_EmitsNothing(t *testing.T) {
	rule := finance.Rule{Freq: finance.FreqWeekly}
	got := rule.OccurrencesWithin(mustYearWindow(t, 2023))

	assert.Empty(t, got)
}

func TestRule_AllOccurrencesWithinBounds(t *testing.T) {
	// Property: start <= occurrence <= min(window end, rule end), inside window.
	end := date(2023, time.October, 1)
	window := mustYearWindow(t, 2023)

	for _, freq := range []finance.Frequency{
		finance.FreqWeekly, finance.FreqBiweekly, finance.FreqMonthly, finance.FreqYearly,
	} {
		rule := finance.Rule{Start: date(2021, time.March, 14), Freq: freq, End: &end}
		for _, d := range rule.OccurrencesWithin(window) {
			assert.True(t, d.AfterOrEqual(rule.Start), "%s: %s before anchor", freq, d)
			assert.True(t, d.BeforeOrEqual(end), "%s: %s after rule end", freq, d)
			assert.True(t, window.Contains(d), "%s: %s outside window", freq, d)
		}
	}
}
