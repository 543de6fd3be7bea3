package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/batchledger/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// ReportsStore defines the database methods needed by report handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ReportsStore interface {
	SummarizeVouchers(ctx context.Context, arg database.SummarizeVouchersParams) ([]database.SummarizeVouchersRow, error)
}

// ReportsHandler handles report endpoints.
type ReportsHandler struct {
	store ReportsStore
	now   func() time.Time
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(store ReportsStore) *ReportsHandler {
	return &ReportsHandler{store: store, now: time.Now}
}

func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/summary", h.Summary)
}

// --- Response types ---

type summaryRow struct {
	TransactionType string          `json:"transaction_type"`
	VoucherCount    int64           `json:"voucher_count"`
	BasicAmount     decimal.Decimal `json:"basic_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

type summaryResponse struct {
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Types     []summaryRow `json:"types"`
}

// --- Handlers ---

// Summary returns voucher count and totals per transaction type. The range
// defaults to the first of the current month through today.
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	start, err := queryDate(r, "start_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}
	end, err := queryDate(r, "end_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	now := h.now()
	if !end.Valid {
		end = pgtype.Date{Time: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), Valid: true}
	}
	if !start.Valid {
		start = pgtype.Date{Time: time.Date(end.Time.Year(), end.Time.Month(), 1, 0, 0, 0, 0, time.UTC), Valid: true}
	}
	if end.Time.Before(start.Time) {
		writeError(w, http.StatusBadRequest, codeValidation, "end_date must not be before start_date")
		return
	}

	rows, err := h.store.SummarizeVouchers(r.Context(), database.SummarizeVouchersParams{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		writeInternal(w, "summarize vouchers", err)
		return
	}

	types := make([]summaryRow, len(rows))
	for i, row := range rows {
		types[i] = summaryRow(row)
	}
	writeData(w, http.StatusOK, summaryResponse{
		StartDate: start.Time.Format(dateLayout),
		EndDate:   end.Time.Format(dateLayout),
		Types:     types,
	})
}
