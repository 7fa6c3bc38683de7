// Package memory provides an in-memory store for testing and development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spendful/report-engine/finance"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Store keeps records for both domains plus categories in memory. It
// implements the same surface as the SQLite store: report.Source per domain
// via Incomes()/Expenses(), and owner-scoped CRUD.
type Store struct {
	mu         sync.RWMutex
	incomes    map[finance.RecordID]finance.Record
	expenses   map[finance.RecordID]finance.Record
	categories map[finance.CategoryID]finance.Category

	// When set, every read fails with this error. Lets tests exercise the
	// fail-fast contract of the aggregator.
	FailReads error
}

func New() *Store {
	return &Store{
		incomes:    make(map[finance.RecordID]finance.Record),
		expenses:   make(map[finance.RecordID]finance.Record),
		categories: make(map[finance.CategoryID]finance.Category),
	}
}

// Incomes returns the income-domain view of the store.
func (s *Store) Incomes() *DomainView { return &DomainView{store: s, income: true} }

// Expenses returns the expense-domain view of the store.
func (s *Store) Expenses() *DomainView { return &DomainView{store: s, income: false} }

// =============================================================================
// DOMAIN VIEW - report.Source over one record table
// =============================================================================

// DomainView implements report.Source and record CRUD for one domain.
type DomainView struct {
	store  *Store
	income bool
}

func (v *DomainView) records() map[finance.RecordID]finance.Record {
	if v.income {
		return v.store.incomes
	}
	return v.store.expenses
}

func (v *DomainView) Create(_ context.Context, rec finance.Record) error {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	v.records()[rec.ID] = rec
	return nil
}

func (v *DomainView) Get(_ context.Context, owner finance.OwnerID, id finance.RecordID) (finance.Record, error) {
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	rec, ok := v.records()[id]
	if !ok || rec.OwnerID != owner {
		return finance.Record{}, finance.ErrNotFound
	}
	return rec, nil
}

func (v *DomainView) Delete(_ context.Context, owner finance.OwnerID, id finance.RecordID) error {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	rec, ok := v.records()[id]
	if !ok || rec.OwnerID != owner {
		return finance.ErrNotFound
	}
	delete(v.records(), id)
	return nil
}

func (v *DomainView) List(_ context.Context, owner finance.OwnerID) ([]finance.Record, error) {
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	if err := v.store.FailReads; err != nil {
		return nil, err
	}
	var result []finance.Record
	for _, rec := range v.records() {
		if rec.OwnerID == owner {
			result = append(result, rec)
		}
	}
	sortRecords(result)
	return result, nil
}

// NonRecurringInYear implements report.Source.
func (v *DomainView) NonRecurringInYear(ctx context.Context, owner finance.OwnerID, year int) ([]finance.Record, error) {
	return v.filtered(ctx, owner, func(rec finance.Record) bool {
		return rec.Rule == "" && rec.StartDate.Year() == year
	})
}

// NonRecurringInMonth implements report.Source.
func (v *DomainView) NonRecurringInMonth(ctx context.Context, owner finance.OwnerID, year int, month time.Month) ([]finance.Record, error) {
	return v.filtered(ctx, owner, func(rec finance.Record) bool {
		return rec.Rule == "" && rec.StartDate.Year() == year && rec.StartDate.Month() == month
	})
}

// Recurring implements report.Source.
func (v *DomainView) Recurring(ctx context.Context, owner finance.OwnerID) ([]finance.Record, error) {
	return v.filtered(ctx, owner, func(rec finance.Record) bool {
		return rec.Rule != ""
	})
}

func (v *DomainView) filtered(ctx context.Context, owner finance.OwnerID, keep func(finance.Record) bool) ([]finance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	if err := v.store.FailReads; err != nil {
		return nil, err
	}

	var result []finance.Record
	for _, rec := range v.records() {
		if rec.OwnerID == owner && keep(rec) {
			result = append(result, rec)
		}
	}
	sortRecords(result)
	return result, nil
}

// sortRecords matches the store ordering contract: start date desc,
// description asc. The aggregator re-sorts anyway; this keeps memory and
// SQLite stores observably identical.
func sortRecords(records []finance.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].StartDate.Equal(records[j].StartDate) {
			return records[i].StartDate.After(records[j].StartDate)
		}
		return records[i].Description < records[j].Description
	})
}

// =============================================================================
// CATEGORY CRUD
// =============================================================================

func (s *Store) CreateCategory(_ context.Context, c finance.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
	return nil
}

func (s *Store) GetCategory(_ context.Context, owner finance.OwnerID, id finance.CategoryID) (finance.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok || c.OwnerID != owner {
		return finance.Category{}, finance.ErrNotFound
	}
	return c, nil
}

func (s *Store) ListCategories(_ context.Context, owner finance.OwnerID) ([]finance.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []finance.Category
	for _, c := range s.categories {
		if c.OwnerID == owner {
			result = append(result, c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *Store) UpdateCategory(_ context.Context, c finance.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.categories[c.ID]
	if !ok || existing.OwnerID != c.OwnerID {
		return finance.ErrNotFound
	}
	s.categories[c.ID] = c
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, owner finance.OwnerID, id finance.CategoryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok || c.OwnerID != owner {
		return finance.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

// CategoryInUse reports whether any income or expense references the category.
func (s *Store) CategoryInUse(_ context.Context, owner finance.OwnerID, id finance.CategoryID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.incomes {
		if rec.OwnerID == owner && rec.CategoryID == id {
			return true, nil
		}
	}
	for _, rec := range s.expenses {
		if rec.OwnerID == owner && rec.CategoryID == id {
			return true, nil
		}
	}
	return false, nil
}
