package finance

import "sort"

// =============================================================================
// OCCURRENCE ORDERING - The total order every report returns
// =============================================================================

// CompareOccurrences defines the report order: occurrence date descending
// (most recent first), then description descending (case-sensitive), so that
// on 2023-03-01 "Rent" lists before "Gym". Returns -1 if a sorts before b,
// 1 if after, 0 if tied.
//
// Zero occurrence dates (recurring records missing an anchor, see Expand)
// compare as the oldest possible date and therefore land at the end.
func CompareOccurrences(a, b Occurrence) int {
	if a.OccurrenceDate.After(b.OccurrenceDate) {
		return -1
	}
	if a.OccurrenceDate.Before(b.OccurrenceDate) {
		return 1
	}
	if a.Description > b.Description {
		return -1
	}
	if a.Description < b.Description {
		return 1
	}
	return 0
}

// SortOccurrences orders the list in place. The sort is stable: occurrences
// tied on both date and description keep their relative order, so repeated
// runs over the same input produce byte-identical reports.
func SortOccurrences(list []Occurrence) {
	sort.SliceStable(list, func(i, j int) bool {
		return CompareOccurrences(list[i], list[j]) < 0
	})
}
