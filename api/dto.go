package api

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/spendful/report-engine/finance"
)

// =============================================================================
// DATA TRANSFER OBJECTS - JSON shapes for the HTTP API
// =============================================================================

// RecordDTO is the wire form of an income or expense record. Amounts travel
// as strings to keep decimal precision across JSON.
type RecordDTO struct {
	ID            string `json:"id"`
	OwnerID       string `json:"owner_id"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	CategoryID    string `json:"category_id,omitempty"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date,omitempty"`
	RecurringRule string `json:"recurring_rule,omitempty"`
}

// OccurrenceDTO is a record pinned to one report date.
type OccurrenceDTO struct {
	RecordDTO
	OccurrenceDate string `json:"occurrence_date,omitempty"`
}

type CategoryDTO struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
}

// CreateRecordRequest is the payload for POST /api/incomes and /api/expenses.
type CreateRecordRequest struct {
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	CategoryID    string `json:"category_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	RecurringRule string `json:"recurring_rule"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func recordDTO(rec finance.Record) RecordDTO {
	dto := RecordDTO{
		ID:            string(rec.ID),
		OwnerID:       string(rec.OwnerID),
		Description:   rec.Description,
		Amount:        rec.Amount.String(),
		CategoryID:    string(rec.CategoryID),
		StartDate:     rec.StartDate.String(),
		RecurringRule: string(rec.Rule),
	}
	if rec.EndDate != nil {
		dto.EndDate = rec.EndDate.String()
	}
	return dto
}

func occurrenceDTO(occ finance.Occurrence) OccurrenceDTO {
	dto := OccurrenceDTO{RecordDTO: recordDTO(occ.Record)}
	if !occ.OccurrenceDate.IsZero() {
		dto.OccurrenceDate = occ.OccurrenceDate.String()
	}
	return dto
}

func (req CreateRecordRequest) toRecord(owner finance.OwnerID) (finance.Record, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return finance.Record{}, err
	}
	start, err := finance.ParseDate(req.StartDate)
	if err != nil {
		return finance.Record{}, err
	}

	rec := finance.Record{
		OwnerID:     owner,
		Description: req.Description,
		Amount:      amount,
		CategoryID:  finance.CategoryID(req.CategoryID),
		StartDate:   start,
		Rule:        finance.Frequency(req.RecurringRule),
	}
	if req.EndDate != "" {
		end, err := finance.ParseDate(req.EndDate)
		if err != nil {
			return finance.Record{}, err
		}
		rec.EndDate = &end
	}
	return rec, nil
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]string{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, status, body)
}
