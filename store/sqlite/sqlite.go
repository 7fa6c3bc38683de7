/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements record and category persistence using SQLite. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  report.Source: One per domain, via Incomes() and Expenses()

KEY TABLES:
  incomes, expenses: Financial records; identical shape, separate domains
  categories:        Owner-scoped labels for records

QUERY SHAPES:
  The report engine issues exactly two query shapes per domain:
  - Non-recurring records filtered by owner + start date year (or year+month).
    The date filter lives HERE so report computation never loads unrelated
    rows.
  - Recurring records filtered by owner only. A rule anchored years back can
    still emit occurrences in the current window, so no date filter.
  Both are ordered start_date desc, description asc; the aggregator re-sorts
  after merging, so this ordering is an optimization, not a contract.

DATE AND AMOUNT ENCODING:
  Dates are TEXT in YYYY-MM-DD form; lexical order equals chronological order,
  and substr() extracts year/month without date functions. Amounts are TEXT
  holding exact decimal strings - money never round-trips through float64.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers don't
  block, single writer at a time, better crash recovery.

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper migration
  tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - report/source.go: Interface definition and query contract
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/spendful/report-engine/finance"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_categories_owner
		ON categories(owner_id);

	CREATE TABLE IF NOT EXISTS incomes (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		description TEXT NOT NULL,
		amount TEXT NOT NULL,
		category_id TEXT,
		start_date TEXT NOT NULL,
		end_date TEXT,
		recurring_rule TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		description TEXT NOT NULL,
		amount TEXT NOT NULL,
		category_id TEXT,
		start_date TEXT NOT NULL,
		end_date TEXT,
		recurring_rule TEXT,
		created_at TEXT NOT NULL
	);

	-- Hot path: report fetches filter on owner + rule presence + start date
	CREATE INDEX IF NOT EXISTS idx_incomes_owner_rule_date
		ON incomes(owner_id, recurring_rule, start_date DESC);
	CREATE INDEX IF NOT EXISTS idx_expenses_owner_rule_date
		ON expenses(owner_id, recurring_rule, start_date DESC);

	CREATE INDEX IF NOT EXISTS idx_incomes_category
		ON incomes(category_id);
	CREATE INDEX IF NOT EXISTS idx_expenses_category
		ON expenses(category_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Incomes returns the income-domain view of the store.
func (s *Store) Incomes() *DomainView { return &DomainView{db: s.db, table: "incomes"} }

// Expenses returns the expense-domain view of the store.
func (s *Store) Expenses() *DomainView { return &DomainView{db: s.db, table: "expenses"} }

// =============================================================================
// DOMAIN VIEW - report.Source + record CRUD over one table
// =============================================================================

// DomainView scopes record operations to one table. The table name is one of
// two compile-time constants, never user input.
type DomainView struct {
	db    *sql.DB
	table string
}

const recordColumns = "id, owner_id, description, amount, category_id, start_date, end_date, recurring_rule"

// Create inserts a record.
func (v *DomainView) Create(ctx context.Context, rec finance.Record) error {
	var endDate sql.NullString
	if rec.EndDate != nil {
		endDate = sql.NullString{String: rec.EndDate.String(), Valid: true}
	}
	var rule sql.NullString
	if rec.Rule != "" {
		rule = sql.NullString{String: string(rec.Rule), Valid: true}
	}
	var categoryID sql.NullString
	if rec.CategoryID != "" {
		categoryID = sql.NullString{String: string(rec.CategoryID), Valid: true}
	}

	_, err := v.db.ExecContext(ctx,
		`INSERT INTO `+v.table+` (`+recordColumns+`, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(rec.ID), string(rec.OwnerID), rec.Description, rec.Amount.String(),
		categoryID, rec.StartDate.String(), endDate, rule,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert into %s: %w", v.table, err)
	}
	return nil
}

// Get returns one record, owner-scoped.
func (v *DomainView) Get(ctx context.Context, owner finance.OwnerID, id finance.RecordID) (finance.Record, error) {
	row := v.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM `+v.table+` WHERE id = ? AND owner_id = ?`,
		string(id), string(owner))

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return finance.Record{}, finance.ErrNotFound
	}
	return rec, err
}

// Delete removes one record, owner-scoped.
func (v *DomainView) Delete(ctx context.Context, owner finance.OwnerID, id finance.RecordID) error {
	result, err := v.db.ExecContext(ctx,
		`DELETE FROM `+v.table+` WHERE id = ? AND owner_id = ?`,
		string(id), string(owner))
	if err != nil {
		return fmt.Errorf("delete from %s: %w", v.table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return finance.ErrNotFound
	}
	return nil
}

// List returns all records for the owner, newest first.
func (v *DomainView) List(ctx context.Context, owner finance.OwnerID) ([]finance.Record, error) {
	return v.query(ctx,
		`SELECT `+recordColumns+` FROM `+v.table+`
		 WHERE owner_id = ?
		 ORDER BY start_date DESC, description ASC`,
		string(owner))
}

// NonRecurringInYear implements report.Source. Dates are stored as
// YYYY-MM-DD, so the year is the first four characters.
func (v *DomainView) NonRecurringInYear(ctx context.Context, owner finance.OwnerID, year int) ([]finance.Record, error) {
	return v.query(ctx,
		`SELECT `+recordColumns+` FROM `+v.table+`
		 WHERE owner_id = ? AND recurring_rule IS NULL AND substr(start_date, 1, 4) = ?
		 ORDER BY start_date DESC, description ASC`,
		string(owner), fmt.Sprintf("%04d", year))
}

// NonRecurringInMonth implements report.Source.
func (v *DomainView) NonRecurringInMonth(ctx context.Context, owner finance.OwnerID, year int, month time.Month) ([]finance.Record, error) {
	return v.query(ctx,
		`SELECT `+recordColumns+` FROM `+v.table+`
		 WHERE owner_id = ? AND recurring_rule IS NULL
		   AND substr(start_date, 1, 4) = ? AND substr(start_date, 6, 2) = ?
		 ORDER BY start_date DESC, description ASC`,
		string(owner), fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", int(month)))
}

// Recurring implements report.Source. No date filter: the recurrence rule
// decides window membership, not the store.
func (v *DomainView) Recurring(ctx context.Context, owner finance.OwnerID) ([]finance.Record, error) {
	return v.query(ctx,
		`SELECT `+recordColumns+` FROM `+v.table+`
		 WHERE owner_id = ? AND recurring_rule IS NOT NULL
		 ORDER BY start_date DESC, description ASC`,
		string(owner))
}

func (v *DomainView) query(ctx context.Context, q string, args ...any) ([]finance.Record, error) {
	rows, err := v.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", v.table, err)
	}
	defer rows.Close()

	var records []finance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", v.table, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (finance.Record, error) {
	var (
		rec        finance.Record
		id, owner  string
		amount     string
		categoryID sql.NullString
		startDate  string
		endDate    sql.NullString
		rule       sql.NullString
	)
	if err := s.Scan(&id, &owner, &rec.Description, &amount, &categoryID, &startDate, &endDate, &rule); err != nil {
		return finance.Record{}, err
	}

	rec.ID = finance.RecordID(id)
	rec.OwnerID = finance.OwnerID(owner)
	if categoryID.Valid {
		rec.CategoryID = finance.CategoryID(categoryID.String)
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return finance.Record{}, fmt.Errorf("amount %q: %w", amount, err)
	}
	rec.Amount = value

	start, err := finance.ParseDate(startDate)
	if err != nil {
		return finance.Record{}, fmt.Errorf("start_date %q: %w", startDate, err)
	}
	rec.StartDate = start

	if endDate.Valid {
		end, err := finance.ParseDate(endDate.String)
		if err != nil {
			return finance.Record{}, fmt.Errorf("end_date %q: %w", endDate.String, err)
		}
		rec.EndDate = &end
	}
	if rule.Valid {
		rec.Rule = finance.Frequency(rule.String)
	}
	return rec, nil
}

// =============================================================================
// CATEGORY CRUD
// =============================================================================

func (s *Store) CreateCategory(ctx context.Context, c finance.Category) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, owner_id, name, type, created_at) VALUES (?, ?, ?, ?, ?)`,
		string(c.ID), string(c.OwnerID), c.Name, string(c.Type),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *Store) GetCategory(ctx context.Context, owner finance.OwnerID, id finance.CategoryID) (finance.Category, error) {
	var c finance.Category
	var cid, cowner, ctype string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, type FROM categories WHERE id = ? AND owner_id = ?`,
		string(id), string(owner)).Scan(&cid, &cowner, &c.Name, &ctype)
	if err == sql.ErrNoRows {
		return finance.Category{}, finance.ErrNotFound
	}
	if err != nil {
		return finance.Category{}, fmt.Errorf("get category: %w", err)
	}
	c.ID = finance.CategoryID(cid)
	c.OwnerID = finance.OwnerID(cowner)
	c.Type = finance.CategoryType(ctype)
	return c, nil
}

func (s *Store) ListCategories(ctx context.Context, owner finance.OwnerID) ([]finance.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, type FROM categories WHERE owner_id = ? ORDER BY name ASC`,
		string(owner))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []finance.Category
	for rows.Next() {
		var c finance.Category
		var cid, cowner, ctype string
		if err := rows.Scan(&cid, &cowner, &c.Name, &ctype); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.ID = finance.CategoryID(cid)
		c.OwnerID = finance.OwnerID(cowner)
		c.Type = finance.CategoryType(ctype)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) UpdateCategory(ctx context.Context, c finance.Category) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, type = ? WHERE id = ? AND owner_id = ?`,
		c.Name, string(c.Type), string(c.ID), string(c.OwnerID))
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return finance.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, owner finance.OwnerID, id finance.CategoryID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND owner_id = ?`,
		string(id), string(owner))
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return finance.ErrNotFound
	}
	return nil
}

// CategoryInUse reports whether any income or expense references the category.
// Deleting a category that records still point at would orphan them.
func (s *Store) CategoryInUse(ctx context.Context, owner finance.OwnerID, id finance.CategoryID) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT
			(SELECT COUNT(*) FROM incomes WHERE owner_id = ? AND category_id = ?) +
			(SELECT COUNT(*) FROM expenses WHERE owner_id = ? AND category_id = ?)`,
		string(owner), string(id), string(owner), string(id)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("category in use: %w", err)
	}
	return count > 0, nil
}
