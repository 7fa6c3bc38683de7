/*
source.go - Storage interface consumed by the report aggregator

PURPOSE:
  Defines the interface between report computation and the database. The
  aggregator never builds queries; it asks a Source for exactly the two
  record shapes it needs. Different implementations can use SQLite,
  PostgreSQL, or in-memory storage.

ONE SOURCE PER DOMAIN:
  Incomes and expenses are structurally identical, so a single generic
  aggregator is parameterized with the Source of the domain it reports on.
  A store exposes one Source per table (see store/sqlite and store/memory)
  instead of four near-identical report entry points.

QUERY CONTRACT:
  NonRecurringInYear/Month: records with no recurrence rule whose start date
  falls in the requested year (or year+month). The date filter lives in the
  store so unrelated records are never loaded.

  Recurring: ALL recurring records for the owner, with no date filter. A rule
  anchored years before the window can still emit occurrences inside it, so
  prefiltering by date here would silently drop valid records.

  Ordering from the store (start date desc, description asc) is an
  optimization only; the aggregator re-sorts after merging.

SEE ALSO:
  - aggregator.go: The consumer of this interface
  - store/sqlite/sqlite.go: Production implementation
  - store/memory/memory.go: In-memory implementation for testing
*/
package report

import (
	"context"
	"time"

	"github.com/spendful/report-engine/finance"
)

// Source supplies one domain's records (incomes or expenses), always scoped
// to a single owner. All methods honor context cancellation.
type Source interface {
	// NonRecurringInYear returns one-time records whose start date falls in
	// the given calendar year.
	NonRecurringInYear(ctx context.Context, owner finance.OwnerID, year int) ([]finance.Record, error)

	// NonRecurringInMonth returns one-time records whose start date falls in
	// the given calendar month.
	NonRecurringInMonth(ctx context.Context, owner finance.OwnerID, year int, month time.Month) ([]finance.Record, error)

	// Recurring returns every recurring record for the owner, regardless of
	// date. The recurrence rule decides window membership, not the store.
	Recurring(ctx context.Context, owner finance.OwnerID) ([]finance.Record, error)
}
