/*
Package finance provides the core report computation engine.

PURPOSE:
  This package contains the value types and pure algorithms behind periodic
  financial reports: recurrence rules, report windows, and the expansion of
  recurring records into concrete dated occurrences. Nothing here touches a
  database or the network.

KEY CONCEPTS IN THIS FILE (types.go):
  - Record: An income or expense entry (one-time or recurring)
  - Occurrence: One concrete dated instance of a record, derived at report time
  - Frequency: How often a recurring record repeats
  - Owner/Record/Category IDs: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Immutability: Records are inputs; expansion copies, never mutates
  2. Precision: Uses decimal.Decimal for amounts to avoid floating-point errors
  3. Determinism: Identical inputs produce identically ordered output

USAGE:
  rule := finance.Rule{Start: start, Freq: finance.FreqMonthly}
  window, _ := finance.MonthWindow(2024, time.February)
  for _, occ := range finance.Expand(record, window) {
      fmt.Println(occ.OccurrenceDate, occ.Description)
  }

SEE ALSO:
  - recurrence.go: Rule evaluation and calendar-aware stepping
  - window.go: Year and month window resolution
  - expand.go: Record-to-occurrence expansion
  - sort.go: The total order over occurrences
*/
package finance

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type RecordID string
type OwnerID string
type CategoryID string

// =============================================================================
// FREQUENCY - How often a recurring record repeats
// =============================================================================

type Frequency string

const (
	FreqWeekly   Frequency = "weekly"
	FreqBiweekly Frequency = "biweekly"
	FreqMonthly  Frequency = "monthly"
	FreqYearly   Frequency = "yearly"
)

// Known reports whether the frequency is one this engine understands.
// Unknown frequencies expand to zero occurrences rather than failing the
// whole report; callers use Known to decide whether to log the degradation.
func (f Frequency) Known() bool {
	switch f {
	case FreqWeekly, FreqBiweekly, FreqMonthly, FreqYearly:
		return true
	}
	return false
}

// =============================================================================
// RECORD - A single income or expense entry
// =============================================================================

// Record is a financial record owned by one account. Income and expense
// records are structurally identical; which domain a record belongs to is
// decided by where it is stored, not by its shape.
//
// A record is recurring iff Rule is set AND StartDate is set. For one-time
// records StartDate is the event date; for recurring records it is the anchor
// of the schedule. EndDate, when present, is the inclusive last day the
// schedule may emit, independent of any report window.
type Record struct {
	ID          RecordID
	OwnerID     OwnerID
	Description string
	Amount      decimal.Decimal
	CategoryID  CategoryID
	StartDate   Date
	EndDate     *Date
	Rule        Frequency // empty = one-time
}

// IsRecurring reports whether the record describes a repeating schedule that
// can actually be expanded. A rule without an anchor date cannot.
func (r Record) IsRecurring() bool {
	return r.Rule != "" && !r.StartDate.IsZero()
}

// =============================================================================
// OCCURRENCE - One dated instance of a record, derived at report time
// =============================================================================

// Occurrence is a shallow copy of a Record pinned to one concrete date.
// Occurrences exist only for the duration of a report computation and are
// never persisted.
type Occurrence struct {
	Record
	OccurrenceDate Date
}

// =============================================================================
// CATEGORY - Owner-scoped label for records
// =============================================================================

type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

type Category struct {
	ID      CategoryID
	OwnerID OwnerID
	Name    string
	Type    CategoryType
}
