// Package ledger derives per-party running balances from voucher headers.
//
// Balances are always replayed from the complete history; stored
// balance_amount values on vouchers are never read.
package ledger

import (
	"sort"
	"time"

	"github.com/batchledger/api/internal/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is one voucher header as seen by the ledger.
type Entry struct {
	VoucherID       int64           `json:"voucher_id"`
	PartyID         uuid.UUID       `json:"party_id"`
	PartyName       string          `json:"party_name"`
	TransactionType string          `json:"transaction_type"`
	VchNo           string          `json:"vch_no"`
	InvoiceNumber   string          `json:"invoice_number"`
	Narration       string          `json:"narration,omitempty"`
	Date            time.Time       `json:"date"`
	Amount          decimal.Decimal `json:"amount"`
	DC              string          `json:"dc"`
}

// Line is an entry with its debit or credit column and the balance after it.
type Line struct {
	Entry
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Balance decimal.Decimal `json:"balance"`
}

// Party is the ledger of a single party within the requested window.
type Party struct {
	PartyID   uuid.UUID       `json:"party_id"`
	PartyName string          `json:"party_name"`
	Opening   decimal.Decimal `json:"opening_balance"`
	Lines     []Line          `json:"lines"`
	Debit     decimal.Decimal `json:"total_debit"`
	Credit    decimal.Decimal `json:"total_credit"`
	Closing   decimal.Decimal `json:"closing_balance"`
}

// Build replays entries in (party, date, voucher id) order starting from a
// zero balance for each party. 'D' adds the amount and 'C' subtracts it.
// Entries dated before from are folded into the party's opening balance; a
// zero from keeps every entry as a line. entries is not modified.
func Build(entries []Entry, from time.Time) []Party {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.PartyID != b.PartyID {
			if a.PartyName != b.PartyName {
				return a.PartyName < b.PartyName
			}
			return a.PartyID.String() < b.PartyID.String()
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.VoucherID < b.VoucherID
	})

	var parties []Party
	var cur *Party
	for _, e := range sorted {
		if cur == nil || cur.PartyID != e.PartyID {
			parties = append(parties, Party{PartyID: e.PartyID, PartyName: e.PartyName, Lines: []Line{}})
			cur = &parties[len(parties)-1]
		}

		var debit, credit decimal.Decimal
		switch e.DC {
		case enum.DCDebit:
			debit = e.Amount
		case enum.DCCredit:
			credit = e.Amount
		}
		delta := debit.Sub(credit)

		if !from.IsZero() && e.Date.Before(from) {
			cur.Opening = cur.Opening.Add(delta)
			cur.Closing = cur.Opening
			continue
		}

		cur.Closing = cur.Closing.Add(delta)
		cur.Debit = cur.Debit.Add(debit)
		cur.Credit = cur.Credit.Add(credit)
		cur.Lines = append(cur.Lines, Line{Entry: e, Debit: debit, Credit: credit, Balance: cur.Closing})
	}
	return parties
}
