package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/batchledger/api/internal/database"
	"github.com/batchledger/api/internal/ledger"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// LedgerStore defines the database methods needed by ledger handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type LedgerStore interface {
	ListLedgerEntries(ctx context.Context, arg database.ListLedgerEntriesParams) ([]database.ListLedgerEntriesRow, error)
}

// LedgerHandler serves party ledgers with balances recomputed from vouchers.
type LedgerHandler struct {
	store LedgerStore
}

func NewLedgerHandler(store LedgerStore) *LedgerHandler {
	return &LedgerHandler{store: store}
}

func (h *LedgerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ledger", h.View)
	r.Get("/ledger/export", h.Export)
}

// build loads every voucher up to end_date and replays it. Entries before
// start_date only contribute to the opening balance.
func (h *LedgerHandler) build(w http.ResponseWriter, r *http.Request) ([]ledger.Party, bool) {
	partyID, err := queryUUID(r, "party_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return nil, false
	}
	start, err := queryDate(r, "start_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return nil, false
	}
	end, err := queryDate(r, "end_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return nil, false
	}
	if start.Valid && end.Valid && end.Time.Before(start.Time) {
		writeError(w, http.StatusBadRequest, codeValidation, "end_date must not be before start_date")
		return nil, false
	}

	rows, err := h.store.ListLedgerEntries(r.Context(), database.ListLedgerEntriesParams{
		PartyID: partyID,
		EndDate: end,
	})
	if err != nil {
		writeInternal(w, "list ledger entries", err)
		return nil, false
	}

	var from time.Time
	if start.Valid {
		from = start.Time
	}
	return ledger.Build(toLedgerEntries(rows), from), true
}

func toLedgerEntries(rows []database.ListLedgerEntriesRow) []ledger.Entry {
	entries := make([]ledger.Entry, 0, len(rows))
	for _, row := range rows {
		if !row.PartyID.Valid {
			continue
		}
		entries = append(entries, ledger.Entry{
			VoucherID:       row.ID,
			PartyID:         row.PartyID.Bytes,
			PartyName:       row.PartyName.String,
			TransactionType: row.TransactionType,
			VchNo:           row.VchNo,
			InvoiceNumber:   row.InvoiceNumber,
			Narration:       row.Narration.String,
			Date:            dateOrZero(row.TransactionDate),
			Amount:          row.TotalAmount,
			DC:              row.Dc,
		})
	}
	return entries
}

func dateOrZero(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}
	return d.Time
}

// View returns the ledger as JSON.
func (h *LedgerHandler) View(w http.ResponseWriter, r *http.Request) {
	parties, ok := h.build(w, r)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, parties)
}

// Export returns the same ledger as an .xlsx workbook.
func (h *LedgerHandler) Export(w http.ResponseWriter, r *http.Request) {
	parties, ok := h.build(w, r)
	if !ok {
		return
	}

	name := "ledger"
	if s := r.URL.Query().Get("end_date"); s != "" {
		name += "-" + s
	}

	var buf bytes.Buffer
	if err := ledger.WriteXLSX(&buf, parties); err != nil {
		writeInternal(w, "build ledger workbook", err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".xlsx"))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logrus.WithError(err).Warn("send ledger workbook")
	}
}
