package finance

// =============================================================================
// EXPANSION - Record -> dated occurrences for one window
// =============================================================================

// Expand materializes a record into the occurrences it contributes to the
// given window. The record itself is never modified; every occurrence is a
// shallow copy, so the same record can be expanded for different windows
// concurrently.
//
// Cases:
//   - One-time record: exactly one occurrence dated at StartDate. Window
//     membership is the caller's concern (the storage layer pre-filters
//     one-time records by year/month).
//   - Recurring record without a start date: the record cannot be scheduled;
//     it is passed through once with an unset occurrence date rather than
//     dropped or rejected. Unset dates sort after all real dates.
//   - Recurring record: one occurrence per rule date inside the window.
//     Unknown frequencies yield zero occurrences.
func Expand(rec Record, w Window) []Occurrence {
	if rec.Rule == "" {
		return []Occurrence{{Record: rec, OccurrenceDate: rec.StartDate}}
	}

	if rec.StartDate.IsZero() {
		return []Occurrence{{Record: rec}}
	}

	rule := Rule{Start: rec.StartDate, Freq: rec.Rule, End: rec.EndDate}
	dates := rule.OccurrencesWithin(w)

	occurrences := make([]Occurrence, 0, len(dates))
	for _, d := range dates {
		occurrences = append(occurrences, Occurrence{Record: rec, OccurrenceDate: d})
	}
	return occurrences
}
