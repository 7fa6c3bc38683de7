package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendful/report-engine/api"
	"github.com/spendful/report-engine/finance"
	"github.com/spendful/report-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	handler := api.NewHandler(store.Incomes(), store.Expenses(), store, logger)
	server := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(server.Close)
	return server, store
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func doRequest(t *testing.T, method, url, owner string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if owner != "" {
		req.Header.Set("X-Owner-ID", owner)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func seedExpense(t *testing.T, store *memory.Store, id, desc string, rule finance.Frequency, start finance.Date) {
	t.Helper()
	require.NoError(t, store.Expenses().Create(context.Background(), finance.Record{
		ID:          finance.RecordID(id),
		OwnerID:     "owner-1",
		Description: desc,
		Amount:      decimal.RequireFromString("25.00"),
		StartDate:   start,
		Rule:        rule,
	}))
}

// =============================================================================
// REPORT ENDPOINTS
// =============================================================================

func TestYearReportEndpoint_ReturnsSortedOccurrences(t *testing.T) {
	server, store := newTestServer(t)
	seedExpense(t, store, "one", "Car repair", "", finance.NewDate(2023, time.March, 10))
	seedExpense(t, store, "rec", "Rent", finance.FreqMonthly, finance.NewDate(2023, time.November, 5))

	resp := doRequest(t, http.MethodGet, server.URL+"/api/reports/expenses/2023", "owner-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	occurrences := decode[[]api.OccurrenceDTO](t, resp)
	require.Len(t, occurrences, 3)
	assert.Equal(t, "2023-12-05", occurrences[0].OccurrenceDate)
	assert.Equal(t, "2023-11-05", occurrences[1].OccurrenceDate)
	assert.Equal(t, "2023-03-10", occurrences[2].OccurrenceDate)
}

func TestYearMonthReportEndpoint_ClampsEndOfMonth(t *testing.T) {
	server, store := newTestServer(t)
	seedExpense(t, store, "rec", "Rent", finance.FreqMonthly, finance.NewDate(2023, time.January, 31))

	resp := doRequest(t, http.MethodGet, server.URL+"/api/reports/expenses/2023/2", "owner-1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	occurrences := decode[[]api.OccurrenceDTO](t, resp)
	require.Len(t, occurrences, 1)
	assert.Equal(t, "2023-02-28", occurrences[0].OccurrenceDate)
}

func TestReportEndpoint_InvalidMonth_Returns400(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/reports/incomes/2023/13", "owner-1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportEndpoint_NonIntegerYear_Returns400(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/reports/incomes/banana", "owner-1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportEndpoint_MissingOwner_Returns401(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/reports/expenses/2023", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestReportEndpoint_UnknownDomain_Returns404(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/reports/debts/2023", "owner-1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// RECORD ENDPOINTS
// =============================================================================

func TestCreateRecordEndpoint_RoundTrip(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/incomes/", "owner-1", api.CreateRecordRequest{
		Description:   "Paycheck",
		Amount:        "2500.00",
		StartDate:     "2023-01-15",
		RecurringRule: "biweekly",
		EndDate:       "2023-06-30",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decode[api.RecordDTO](t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "biweekly", created.RecurringRule)

	listResp := doRequest(t, http.MethodGet, server.URL+"/api/incomes/", "owner-1", nil)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	records := decode[[]api.RecordDTO](t, listResp)
	require.Len(t, records, 1)
	assert.Equal(t, "Paycheck", records[0].Description)
}

func TestCreateRecordEndpoint_RejectsUnknownRule(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/expenses/", "owner-1", api.CreateRecordRequest{
		Description:   "Rent",
		Amount:        "900",
		StartDate:     "2023-01-01",
		RecurringRule: "quarterly",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteRecordEndpoint_OwnerScoped(t *testing.T) {
	server, store := newTestServer(t)
	seedExpense(t, store, "rec-1", "Rent", "", finance.NewDate(2023, time.March, 1))

	resp := doRequest(t, http.MethodDelete, server.URL+"/api/expenses/rec-1", "owner-2", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, http.MethodDelete, server.URL+"/api/expenses/rec-1", "owner-1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

// =============================================================================
// CATEGORY ENDPOINTS
// =============================================================================

func TestCategoryEndpoints_CRUD(t *testing.T) {
	server, _ := newTestServer(t)

	createResp := doRequest(t, http.MethodPost, server.URL+"/api/categories/", "owner-1", api.CreateCategoryRequest{
		Name: "Housing",
		Type: "expense",
	})
	require.Equal(t, http.StatusCreated, createResp.StatusCode)
	created := decode[api.CategoryDTO](t, createResp)

	getResp := doRequest(t, http.MethodGet, server.URL+"/api/categories/"+created.ID, "owner-1", nil)
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	updateResp := doRequest(t, http.MethodPut, server.URL+"/api/categories/"+created.ID, "owner-1", api.CreateCategoryRequest{
		Name: "Home",
		Type: "expense",
	})
	require.Equal(t, http.StatusOK, updateResp.StatusCode)

	deleteResp := doRequest(t, http.MethodDelete, server.URL+"/api/categories/"+created.ID, "owner-1", nil)
	assert.Equal(t, http.StatusNoContent, deleteResp.StatusCode)
}

func TestDeleteCategoryEndpoint_InUse_Returns409(t *testing.T) {
	server, store := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, store.CreateCategory(ctx, finance.Category{
		ID: "cat-1", OwnerID: "owner-1", Name: "Housing", Type: finance.CategoryExpense,
	}))
	require.NoError(t, store.Expenses().Create(ctx, finance.Record{
		ID: "rec-1", OwnerID: "owner-1", Description: "Rent",
		Amount: decimal.RequireFromString("900"), CategoryID: "cat-1",
		StartDate: finance.NewDate(2023, time.January, 1),
	}))

	resp := doRequest(t, http.MethodDelete, server.URL+"/api/categories/cat-1", "owner-1", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCategoryEndpoint_CrossOwner_NotFound(t *testing.T) {
	server, store := newTestServer(t)
	require.NoError(t, store.CreateCategory(context.Background(), finance.Category{
		ID: "cat-1", OwnerID: "owner-1", Name: "Housing", Type: finance.CategoryExpense,
	}))

	resp := doRequest(t, http.MethodGet, server.URL+"/api/categories/cat-1", "owner-2", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
