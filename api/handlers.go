/*
handlers.go - HTTP API handlers for the report engine

PURPOSE:
  Exposes the report engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the aggregator and stores.

ENDPOINTS:
  Reports:
    GET    /api/reports/incomes/{year}          Income report for a year
    GET    /api/reports/incomes/{year}/{month}  Income report for a month
    GET    /api/reports/expenses/{year}         Expense report for a year
    GET    /api/reports/expenses/{year}/{month} Expense report for a month

  Records:
    GET    /api/incomes          List income records
    POST   /api/incomes          Create income record
    DELETE /api/incomes/{id}     Delete income record
    (same shape under /api/expenses)

  Categories:
    GET    /api/categories       List categories
    POST   /api/categories       Create category
    GET    /api/categories/{id}  Get category
    PUT    /api/categories/{id}  Update category
    DELETE /api/categories/{id}  Delete category (rejected while in use)

OWNER SCOPING:
  Every request carries X-Owner-ID. Authentication proper lives in front of
  this service; the engine only scopes queries by the owner it is handed.

ERROR HANDLING:
  - 400: Invalid window (bad year/month), malformed payloads
  - 401: Missing owner
  - 404: Record or category not found
  - 409: Deleting a category still referenced by records
  - 503: Storage unavailable
  - 500: Everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - report/aggregator.go: The logic behind the report endpoints
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/spendful/report-engine/finance"
	"github.com/spendful/report-engine/report"
)

// =============================================================================
// STORE INTERFACES - What the handlers need from persistence
// =============================================================================

// RecordStore is one domain's records: the report source plus CRUD.
// Both store/sqlite and store/memory domain views satisfy it.
type RecordStore interface {
	report.Source
	Create(ctx context.Context, rec finance.Record) error
	Get(ctx context.Context, owner finance.OwnerID, id finance.RecordID) (finance.Record, error)
	Delete(ctx context.Context, owner finance.OwnerID, id finance.RecordID) error
	List(ctx context.Context, owner finance.OwnerID) ([]finance.Record, error)
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, c finance.Category) error
	GetCategory(ctx context.Context, owner finance.OwnerID, id finance.CategoryID) (finance.Category, error)
	ListCategories(ctx context.Context, owner finance.OwnerID) ([]finance.Category, error)
	UpdateCategory(ctx context.Context, c finance.Category) error
	DeleteCategory(ctx context.Context, owner finance.OwnerID, id finance.CategoryID) error
	CategoryInUse(ctx context.Context, owner finance.OwnerID, id finance.CategoryID) (bool, error)
}

// =============================================================================
// HANDLER
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	incomes    RecordStore
	expenses   RecordStore
	categories CategoryStore

	incomeReports  *report.Aggregator
	expenseReports *report.Aggregator
}

// NewHandler wires the handlers to their stores. One aggregator per domain,
// both running the identical pipeline.
func NewHandler(incomes, expenses RecordStore, categories CategoryStore, logger *slog.Logger) *Handler {
	return &Handler{
		incomes:        incomes,
		expenses:       expenses,
		categories:     categories,
		incomeReports:  report.NewAggregator(incomes, logger),
		expenseReports: report.NewAggregator(expenses, logger),
	}
}

// domain resolves the {domain} route parameter to the matching store and
// aggregator. Unknown domains fall through to a 404.
func (h *Handler) domain(r *http.Request) (RecordStore, *report.Aggregator, bool) {
	switch chi.URLParam(r, "domain") {
	case "incomes":
		return h.incomes, h.incomeReports, true
	case "expenses":
		return h.expenses, h.expenseReports, true
	}
	return nil, nil, false
}

func ownerID(r *http.Request) finance.OwnerID {
	return finance.OwnerID(r.Header.Get("X-Owner-ID"))
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// YearReport handles GET /api/reports/{domain}/{year}.
func (h *Handler) YearReport(w http.ResponseWriter, r *http.Request) {
	_, aggregator, ok := h.domain(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown report domain", nil)
		return
	}
	owner := ownerID(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Missing X-Owner-ID header", nil)
		return
	}

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Year must be an integer", err)
		return
	}

	occurrences, err := aggregator.YearReport(r.Context(), owner, year)
	if err != nil {
		writeReportError(w, err)
		return
	}
	writeOccurrences(w, occurrences)
}

// YearMonthReport handles GET /api/reports/{domain}/{year}/{month}.
func (h *Handler) YearMonthReport(w http.ResponseWriter, r *http.Request) {
	_, aggregator, ok := h.domain(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown report domain", nil)
		return
	}
	owner := ownerID(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Missing X-Owner-ID header", nil)
		return
	}

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Year must be an integer", err)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Month must be an integer", err)
		return
	}

	occurrences, err := aggregator.YearMonthReport(r.Context(), owner, year, time.Month(month))
	if err != nil {
		writeReportError(w, err)
		return
	}
	writeOccurrences(w, occurrences)
}

func writeOccurrences(w http.ResponseWriter, occurrences []finance.Occurrence) {
	dtos := make([]OccurrenceDTO, len(occurrences))
	for i, occ := range occurrences {
		dtos[i] = occurrenceDTO(occ)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func writeReportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, finance.ErrInvalidWindow):
		writeError(w, http.StatusBadRequest, "Invalid report window", err)
	case errors.Is(err, finance.ErrStorageUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Storage unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "Failed to compute report", err)
	}
}

// =============================================================================
// RECORD HANDLERS
// =============================================================================

// ListRecords handles GET /api/{domain}.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	store, _, ok := h.domain(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown record domain", nil)
		return
	}
	owner := ownerID(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Missing X-Owner-ID header", nil)
		return
	}

	records, err := store.List(r.Context(), owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list records", err)
		return
	}

	dtos := make([]RecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = recordDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateRecord handles POST /api/{domain}.
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	store, _, ok := h.domain(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown record domain", nil)
		return
	}
	owner := ownerID(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Missing X-Owner-ID header", nil)
		return
	}

	var req CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}
	if req.Description == "" || req.Amount == "" || req.StartDate == "" {
		writeError(w, http.StatusBadRequest, "description, amount and start_date are required", nil)
		return
	}
	if req.RecurringRule != "" && !finance.Frequency(req.RecurringRule).Known() {
		writeError(w, http.StatusBadRequest, "recurring_rule must be weekly, biweekly, monthly or yearly", nil)
		return
	}

	rec, err := req.toRecord(owner)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid record payload", err)
		return
	}
	rec.ID = finance.RecordID(uuid.NewString())

	if err := store.Create(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create record", err)
		return
	}
	writeJSON(w, http.StatusCreated, recordDTO(rec))
}

// DeleteRecord handles DELETE /api/{domain}/{id}.
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	store, _, ok := h.domain(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown record domain", nil)
		return
	}
	owner := ownerID(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Missing X-Owner-ID header", nil)
		return
	}

	id := finance.RecordID(chi.URLParam(r, "id"))
	if err := store.Delete(r.Context(), owner, id); err != nil {
		if errors.Is(err, finance.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Record not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete record", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CATEGORY HANDLERS
// =============================================================================

// ListCategories handles GET /api/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Missing X-Owner-ID header", nil)
		return
	}

	categories, err := h.categories.ListCategories(r.Context(), owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list categories", err)
		return
	}

	dtos := make([]CategoryDTO, len(categories))
	for i, c := range categories {
		dtos[i] = CategoryDTO{ID: string(c.ID), OwnerID: string(c.OwnerID), Name: c.Name, Type: string(c.Type)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCategory handles GET /api/categories/{id}.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Missing X-Owner-ID header", nil)
		return
	}

	id := finance.CategoryID(chi.URLParam(r, "id"))
	c, err := h.categories.GetCategory(r.Context(), owner, id)
	if err != nil {
		if errors.Is(err, finance.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Category not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get category", err)
		return
	}
	writeJSON(w, http.StatusOK, CategoryDTO{ID: string(c.ID), OwnerID: string(c.OwnerID), Name: c.Name, Type: string(c.Type)})
}

// CreateCategory handles POST /api/categories.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Missing X-Owner-ID header", nil)
		return
	}

	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	ctype := finance.CategoryType(req.Type)
	if ctype != finance.CategoryIncome && ctype != finance.CategoryExpense {
		writeError(w, http.StatusBadRequest, "type must be income or expense", nil)
		return
	}

	c := finance.Category{
		ID:      finance.CategoryID(uuid.NewString()),
		OwnerID: owner,
		Name:    req.Name,
		Type:    ctype,
	}
	if err := h.categories.CreateCategory(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create category", err)
		return
	}
	writeJSON(w, http.StatusCreated, CategoryDTO{ID: string(c.ID), OwnerID: string(c.OwnerID), Name: c.Name, Type: string(c.Type)})
}

// UpdateCategory handles PUT /api/categories/{id}.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Missing X-Owner-ID header", nil)
		return
	}

	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return
	}

	c := finance.Category{
		ID:      finance.CategoryID(chi.URLParam(r, "id")),
		OwnerID: owner,
		Name:    req.Name,
		Type:    finance.CategoryType(req.Type),
	}
	if err := h.categories.UpdateCategory(r.Context(), c); err != nil {
		if errors.Is(err, finance.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Category not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update category", err)
		return
	}
	writeJSON(w, http.StatusOK, CategoryDTO{ID: string(c.ID), OwnerID: string(c.OwnerID), Name: c.Name, Type: string(c.Type)})
}

// DeleteCategory handles DELETE /api/categories/{id}. Categories still
// referenced by records cannot be deleted.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Missing X-Owner-ID header", nil)
		return
	}

	id := finance.CategoryID(chi.URLParam(r, "id"))
	inUse, err := h.categories.CategoryInUse(r.Context(), owner, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check category usage", err)
		return
	}
	if inUse {
		writeError(w, http.StatusConflict, "Category is referenced by existing records", nil)
		return
	}

	if err := h.categories.DeleteCategory(r.Context(), owner, id); err != nil {
		if errors.Is(err, finance.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Category not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete category", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
