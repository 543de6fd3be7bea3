package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/batchledger/api/internal/database"
	"github.com/batchledger/api/internal/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type capKey struct {
	productID uuid.UUID
	batch     string // "" aggregates every batch of the product
}

// checkNoteCap rejects a credit or debit note whose lines ask for more than
// the referenced invoice sold (or bought) less what other notes of the same
// type already returned against it. excludeID is the note being edited, or 0.
func checkNoteCap(ctx context.Context, store VoucherStore, noteType, invoice string, excludeID int64, lines []resolvedLine) error {
	origin, ok := enum.NoteOrigin(noteType)
	if !ok {
		return nil
	}

	n, err := store.CountVouchersByInvoice(ctx, database.CountVouchersByInvoiceParams{
		TransactionType: origin,
		InvoiceNumber:   invoice,
	})
	if err != nil {
		return fmt.Errorf("count origin invoice: %w", err)
	}
	if n == 0 {
		return &NotFoundError{Entity: strings.ToLower(origin) + " invoice", Key: invoice}
	}

	invoiced, err := store.SumInvoiceQuantities(ctx, database.SumInvoiceQuantitiesParams{
		TransactionType: origin,
		InvoiceNumber:   invoice,
	})
	if err != nil {
		return fmt.Errorf("sum invoice quantities: %w", err)
	}
	noted, err := store.SumNoteQuantities(ctx, database.SumNoteQuantitiesParams{
		TransactionType: noteType,
		AgainstInvoice:  invoice,
		ExcludeID:       excludeID,
	})
	if err != nil {
		return fmt.Errorf("sum note quantities: %w", err)
	}

	available := make(map[capKey]decimal.Decimal)
	for _, r := range invoiced {
		available[capKey{r.ProductID, r.Batch}] = available[capKey{r.ProductID, r.Batch}].Add(r.Quantity)
		available[capKey{r.ProductID, ""}] = available[capKey{r.ProductID, ""}].Add(r.Quantity)
	}
	for _, r := range noted {
		available[capKey{r.ProductID, r.Batch}] = available[capKey{r.ProductID, r.Batch}].Sub(r.Quantity)
		available[capKey{r.ProductID, ""}] = available[capKey{r.ProductID, ""}].Sub(r.Quantity)
	}

	// Requested per (product, batch) and per product, in first-seen order.
	requested := make(map[capKey]decimal.Decimal)
	names := make(map[uuid.UUID]string)
	var order []capKey
	add := func(k capKey, q decimal.Decimal) {
		if _, seen := requested[k]; !seen {
			order = append(order, k)
		}
		requested[k] = requested[k].Add(q)
	}
	for _, l := range lines {
		names[l.product.ID] = l.product.Name
		if l.Batch != "" {
			add(capKey{l.product.ID, l.Batch}, l.Quantity)
		}
		add(capKey{l.product.ID, ""}, l.Quantity)
	}

	for _, k := range order {
		avail := decimal.Max(available[k], decimal.Zero)
		if requested[k].GreaterThan(avail) {
			return &QuantityExceededError{
				Product:   names[k.productID],
				Batch:     k.batch,
				Origin:    strings.ToLower(origin),
				Available: avail,
				Requested: requested[k],
			}
		}
	}
	return nil
}
