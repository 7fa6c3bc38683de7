/*
Package report merges one-time and recurring financial records into ordered
periodic reports.

PURPOSE:
  The Aggregator is the orchestration layer of the report engine: resolve the
  requested window, fetch the two record shapes from storage, expand recurring
  records into dated occurrences, merge, sort, return.

PIPELINE:
  1. Resolve window (year or year+month). Invalid input fails here, before
     any storage access.
  2. Fetch one-time records (store filters by year/month) and recurring
     records (owner filter only) concurrently. Either failure aborts the
     whole call; a canceled context never yields a partial report.
  3. One-time records are pinned to their start date. Recurring records are
     expanded against the window; a record with an unrecognized rule degrades
     to zero occurrences and a warning log - one bad row must not break an
     entire report.
  4. Merge and sort: occurrence date descending, then description.

GUARANTEE:
  The returned list contains every occurrence whose date lies inside the
  window (inclusive) and no others. Identical inputs over an unchanged record
  set produce identical, identically ordered output.

SEE ALSO:
  - source.go: The storage interface this consumes
  - finance/expand.go: Record expansion
  - finance/sort.go: The report order
*/
package report

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spendful/report-engine/finance"
)

// Aggregator computes periodic reports for one record domain. It is stateless
// and safe for concurrent use; every call works on freshly fetched records.
type Aggregator struct {
	source Source
	logger *slog.Logger
}

// NewAggregator creates an aggregator over the given source. A nil logger
// falls back to slog's default.
func NewAggregator(source Source, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{source: source, logger: logger}
}

// YearReport returns every occurrence for the owner inside the calendar year,
// most recent first.
func (a *Aggregator) YearReport(ctx context.Context, owner finance.OwnerID, year int) ([]finance.Occurrence, error) {
	window, err := finance.YearWindow(year)
	if err != nil {
		return nil, err
	}
	return a.report(ctx, owner, window, func(ctx context.Context) ([]finance.Record, error) {
		return a.source.NonRecurringInYear(ctx, owner, year)
	})
}

// YearMonthReport returns every occurrence for the owner inside the calendar
// month, most recent first.
func (a *Aggregator) YearMonthReport(ctx context.Context, owner finance.OwnerID, year int, month time.Month) ([]finance.Occurrence, error) {
	window, err := finance.MonthWindow(year, month)
	if err != nil {
		return nil, err
	}
	return a.report(ctx, owner, window, func(ctx context.Context) ([]finance.Record, error) {
		return a.source.NonRecurringInMonth(ctx, owner, year, month)
	})
}

// report runs the shared pipeline. fetchOneTime captures the year/month
// filter; the recurring fetch is always owner-wide.
func (a *Aggregator) report(
	ctx context.Context,
	owner finance.OwnerID,
	window finance.Window,
	fetchOneTime func(context.Context) ([]finance.Record, error),
) ([]finance.Occurrence, error) {

	var oneTime, recurring []finance.Record

	// The two fetches are independent; run them concurrently. Either failure
	// cancels the other and aborts the call - no partial reports.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := fetchOneTime(gctx)
		if err != nil {
			return &finance.StorageError{Op: "fetch non-recurring records", Err: err}
		}
		oneTime = records
		return nil
	})
	g.Go(func() error {
		records, err := a.source.Recurring(gctx, owner)
		if err != nil {
			return &finance.StorageError{Op: "fetch recurring records", Err: err}
		}
		recurring = records
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	occurrences := make([]finance.Occurrence, 0, len(oneTime)+len(recurring))

	// One-time records occur exactly once, on their start date. The store
	// already guaranteed the date is inside the window.
	for _, rec := range oneTime {
		occurrences = append(occurrences, finance.Occurrence{Record: rec, OccurrenceDate: rec.StartDate})
	}

	for _, rec := range recurring {
		if !rec.Rule.Known() {
			a.logger.Warn("skipping record with unrecognized recurrence rule",
				"record_id", string(rec.ID),
				"owner_id", string(rec.OwnerID),
				"rule", string(rec.Rule),
				"err", finance.ErrMalformedRecord)
			continue
		}
		occurrences = append(occurrences, finance.Expand(rec, window)...)
	}

	finance.SortOccurrences(occurrences)
	return occurrences, nil
}
