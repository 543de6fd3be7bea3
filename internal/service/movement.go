package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/batchledger/api/internal/database"
	"github.com/batchledger/api/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// movement is a signed change to a batch's counters.
type movement struct {
	quantity decimal.Decimal
	stockIn  decimal.Decimal
	stockOut decimal.Decimal
}

// forwardMovement is the change a transaction with the given effect makes for q units.
func forwardMovement(effect enum.StockEffect, q decimal.Decimal) movement {
	switch effect {
	case enum.StockDecrease:
		return movement{quantity: q.Neg(), stockOut: q}
	case enum.StockIncrease:
		return movement{quantity: q, stockIn: q}
	}
	return movement{}
}

func (m movement) inverse() movement {
	return movement{quantity: m.quantity.Neg(), stockIn: m.stockIn.Neg(), stockOut: m.stockOut.Neg()}
}

type counters struct {
	quantity decimal.Decimal
	stockIn  decimal.Decimal
	stockOut decimal.Decimal
}

type clamp struct {
	field    string
	expected decimal.Decimal
}

// apply moves c by m. Any counter that would end below zero is set to zero
// and reported.
func (m movement) apply(c counters) (counters, []clamp) {
	var clamps []clamp
	next := func(field string, cur, delta decimal.Decimal) decimal.Decimal {
		v := cur.Add(delta)
		if v.IsNegative() {
			clamps = append(clamps, clamp{field: field, expected: v})
			return decimal.Zero
		}
		return v
	}
	out := counters{
		quantity: next("quantity", c.quantity, m.quantity),
		stockIn:  next("stock_in", c.stockIn, m.stockIn),
		stockOut: next("stock_out", c.stockOut, m.stockOut),
	}
	return out, clamps
}

// stockTarget names the batch a movement applies to.
type stockTarget struct {
	productID   uuid.UUID
	productName string
	batch       string
	mfgDate     pgtype.Date
	expDate     pgtype.Date
}

// applyMovement locks the target batch, creating it zeroed when absent, and
// writes m to it. Clamped counters come back as reconciliation warnings.
func applyMovement(ctx context.Context, store VoucherStore, t stockTarget, m movement) ([]ReconciliationWarning, error) {
	if err := store.EnsureBatch(ctx, database.EnsureBatchParams{
		ProductID:   t.productID,
		BatchNumber: t.batch,
		MfgDate:     t.mfgDate,
		ExpDate:     t.expDate,
	}); err != nil {
		return nil, fmt.Errorf("ensure batch %s: %w", t.batch, err)
	}

	b, err := store.GetBatchForUpdate(ctx, database.GetBatchForUpdateParams{
		ProductID:   t.productID,
		BatchNumber: t.batch,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "batch", Key: t.batch}
		}
		return nil, fmt.Errorf("lock batch %s: %w", t.batch, err)
	}

	next, clamps := m.apply(counters{quantity: b.Quantity, stockIn: b.StockIn, stockOut: b.StockOut})
	if err := store.SetBatchCounters(ctx, database.SetBatchCountersParams{
		ID:       b.ID,
		Quantity: next.quantity,
		StockIn:  next.stockIn,
		StockOut: next.stockOut,
	}); err != nil {
		return nil, fmt.Errorf("update batch %s: %w", t.batch, err)
	}

	var warnings []ReconciliationWarning
	for _, c := range clamps {
		warnings = append(warnings, ReconciliationWarning{
			ProductID: t.productID,
			Product:   t.productName,
			Batch:     t.batch,
			Field:     c.field,
			Expected:  c.expected,
			ClampedTo: decimal.Zero,
		})
	}
	return warnings, nil
}
