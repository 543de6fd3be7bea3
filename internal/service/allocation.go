package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/batchledger/api/internal/database"
	"github.com/batchledger/api/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// allocation is the quantity of one line taken from (or put into) one batch.
type allocation struct {
	batchID  uuid.UUID
	batch    string
	quantity decimal.Decimal
}

// planFIFO walks batches in the given order taking what each holds until
// required is covered. ok is false when the batches together hold less than
// required; available is their total either way.
func planFIFO(batches []database.Batch, required decimal.Decimal) (allocs []allocation, available decimal.Decimal, ok bool) {
	remaining := required
	for _, b := range batches {
		if !b.Quantity.IsPositive() {
			continue
		}
		available = available.Add(b.Quantity)
		if !remaining.IsPositive() {
			continue
		}
		take := decimal.Min(b.Quantity, remaining)
		allocs = append(allocs, allocation{batchID: b.ID, batch: b.BatchNumber, quantity: take})
		remaining = remaining.Sub(take)
	}
	if remaining.IsPositive() {
		return nil, available, false
	}
	return allocs, available, true
}

// allocateLines moves stock for every line and prices the resulting pieces.
func (s *VoucherService) allocateLines(ctx context.Context, store VoucherStore, req PostRequest, lines []resolvedLine) ([]piece, error) {
	effect := enum.EffectOf(req.TransactionType)
	kacha := req.OrderMode == enum.OrderModeKacha
	orderLinked := req.OrderNumber != ""

	var pieces []piece
	for i, line := range lines {
		var allocs []allocation

		switch effect {
		case enum.StockDecrease:
			a, err := allocateDecrease(ctx, store, line, orderLinked)
			if err != nil {
				return nil, err
			}
			allocs = a

		case enum.StockIncrease:
			batch := line.Batch
			if batch == "" {
				batch = enum.DefaultBatch
			}
			target := stockTarget{
				productID:   line.product.ID,
				productName: line.product.Name,
				batch:       batch,
				mfgDate:     optDate(line.MfgDate),
				expDate:     optDate(line.ExpDate),
			}
			if _, err := applyMovement(ctx, store, target, forwardMovement(effect, line.Quantity)); err != nil {
				return nil, fmt.Errorf("items[%d]: %w", i, err)
			}
			allocs = []allocation{{batch: batch, quantity: line.Quantity}}

		default:
			allocs = []allocation{{batch: line.Batch, quantity: line.Quantity}}
		}

		s.log.WithFields(logrus.Fields{
			"product": line.product.Name,
			"pieces":  len(allocs),
			"effect":  effect.String(),
		}).Debug("allocated line")

		pieces = append(pieces, splitLine(line, allocs, kacha)...)
	}
	return pieces, nil
}

// allocateDecrease takes a line's quantity out of stock: from the named batch
// when there is one, otherwise first-in-first-out over the product's batches.
// Order-linked lines consume the oldest manufacture date first.
func allocateDecrease(ctx context.Context, store VoucherStore, line resolvedLine, orderLinked bool) ([]allocation, error) {
	name := line.product.Name

	if line.Batch != "" {
		b, err := store.GetBatchForUpdate(ctx, database.GetBatchForUpdateParams{
			ProductID:   line.product.ID,
			BatchNumber: line.Batch,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, &NotFoundError{Entity: "batch", Key: fmt.Sprintf("%s of product %s", line.Batch, name)}
			}
			return nil, fmt.Errorf("lock batch: %w", err)
		}
		if b.Quantity.LessThan(line.Quantity) {
			return nil, &InsufficientStockError{Product: name, Batch: line.Batch, Available: b.Quantity, Required: line.Quantity}
		}
		a := allocation{batchID: b.ID, batch: b.BatchNumber, quantity: line.Quantity}
		if err := deduct(ctx, store, name, a); err != nil {
			return nil, err
		}
		return []allocation{a}, nil
	}

	var (
		batches []database.Batch
		err     error
	)
	if orderLinked {
		batches, err = store.LockBatchesByMfgDate(ctx, line.product.ID)
	} else {
		batches, err = store.LockBatchesByCreated(ctx, line.product.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("lock batches: %w", err)
	}

	allocs, available, ok := planFIFO(batches, line.Quantity)
	if !ok {
		return nil, &InsufficientStockError{Product: name, Available: available, Required: line.Quantity}
	}
	for _, a := range allocs {
		if err := deduct(ctx, store, name, a); err != nil {
			return nil, err
		}
	}
	return allocs, nil
}

// deduct applies a guarded decrement; zero affected rows means the batch no
// longer holds the quantity.
func deduct(ctx context.Context, store VoucherStore, productName string, a allocation) error {
	n, err := store.DeductBatch(ctx, database.DeductBatchParams{Amount: a.quantity, ID: a.batchID})
	if err != nil {
		return fmt.Errorf("deduct batch %s: %w", a.batch, err)
	}
	if n == 0 {
		return fmt.Errorf("deduct batch %s of product %s: %w", a.batch, productName, ErrInsufficientStock)
	}
	return nil
}

func optDate(t *time.Time) pgtype.Date {
	if t == nil || t.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}
