package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/batchledger/api/internal/database"
	"github.com/batchledger/api/internal/enum"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sirupsen/logrus"
)

// DeleteResult is the removed voucher and any counters clamped while undoing its stock.
type DeleteResult struct {
	Voucher  database.Voucher
	Warnings []ReconciliationWarning
}

// Update replaces a voucher's lines and header. The old stock and account
// effects are undone and the new ones applied in a single transaction; the
// voucher keeps its id, type and creation time.
func (s *VoucherService) Update(ctx context.Context, id int64, req PostRequest) (*PostResult, error) {
	return s.update(ctx, id, "", req)
}

// UpdateNote is Update restricted to a stored voucher of noteType
// (CreditNote or DebitNote). The note must reference an invoice.
func (s *VoucherService) UpdateNote(ctx context.Context, id int64, noteType string, req PostRequest) (*PostResult, error) {
	if _, ok := enum.NoteOrigin(noteType); !ok {
		return nil, invalid("transaction_type", "%q is not a note type", noteType)
	}
	return s.update(ctx, id, noteType, req)
}

func (s *VoucherService) update(ctx context.Context, id int64, noteType string, req PostRequest) (*PostResult, error) {
	// --- Begin transaction ---
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// --- Load and lock ---
	old, err := lockVoucher(ctx, store, id)
	if err != nil {
		return nil, err
	}
	if noteType != "" && old.TransactionType != noteType {
		return nil, invalid("transaction_type", "voucher %d is a %s, not a %s", id, old.TransactionType, noteType)
	}
	if req.TransactionType == "" {
		req.TransactionType = old.TransactionType
	}
	if req.TransactionType != old.TransactionType {
		return nil, invalid("transaction_type", "cannot change %s to %s", old.TransactionType, req.TransactionType)
	}
	if err := normalizeRequest(&req); err != nil {
		return nil, err
	}
	if req.AgainstInvoice == "" && old.AgainstInvoice.Valid {
		req.AgainstInvoice = old.AgainstInvoice.String
	}
	if noteType != "" && req.AgainstInvoice == "" {
		return nil, invalid("against_invoice", "is required for %s", noteType)
	}

	oldDetails, err := store.ListVoucherDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list voucher details: %w", err)
	}

	// --- Resolve and check before any write ---
	if err := resolveAccounts(ctx, store, req); err != nil {
		return nil, err
	}
	lines, err := resolveLines(ctx, store, req.Items)
	if err != nil {
		return nil, err
	}
	if _, isNote := enum.NoteOrigin(req.TransactionType); isNote && req.AgainstInvoice != "" {
		if err := checkNoteCap(ctx, store, req.TransactionType, req.AgainstInvoice, id, lines); err != nil {
			return nil, err
		}
	}

	// --- Undo old effects ---
	warnings, err := s.reverseStock(ctx, store, old, oldDetails)
	if err != nil {
		return nil, err
	}
	if err := s.applySideEffects(ctx, store, old, true); err != nil {
		return nil, err
	}
	if err := store.DeleteVoucherDetails(ctx, id); err != nil {
		return nil, fmt.Errorf("delete voucher details: %w", err)
	}

	// --- Apply new lines ---
	pieces, err := s.allocateLines(ctx, store, req, lines)
	if err != nil {
		return nil, err
	}

	vchNo := old.VchNo
	if req.VchNo != "" {
		vchNo = req.VchNo
	}
	invoiceNumber := old.InvoiceNumber
	if req.InvoiceNumber != "" {
		invoiceNumber = req.InvoiceNumber
	}

	t := computeTotals(req, pieces)
	voucher, err := store.UpdateVoucher(ctx, database.UpdateVoucherParams{
		ID:              id,
		VchNo:           vchNo,
		InvoiceNumber:   invoiceNumber,
		AgainstInvoice:  optText(req.AgainstInvoice),
		PartyID:         optUUID(req.PartyID),
		AccountID:       optUUID(req.AccountID),
		TransactionDate: pgtype.Date{Time: req.TransactionDate, Valid: true},
		BasicAmount:     t.basic,
		TaxAmount:       t.tax,
		TotalAmount:     t.total,
		SgstAmount:      t.sgst,
		CgstAmount:      t.cgst,
		IgstAmount:      t.igst,
		SgstPercent:     t.sgstPercent,
		CgstPercent:     t.cgstPercent,
		IgstPercent:     t.igstPercent,
		PaidAmount:      t.paid,
		BalanceAmount:   t.balance,
		Status:          t.status,
		Dc:              req.DC,
		OrderNumber:     optText(req.OrderNumber),
		OrderMode:       optText(req.OrderMode),
		Narration:       optText(req.Narration),
	})
	if err != nil {
		return nil, fmt.Errorf("update voucher: %w", err)
	}

	details, err := insertDetails(ctx, store, id, pieces)
	if err != nil {
		return nil, err
	}
	if err := s.applySideEffects(ctx, store, voucher, false); err != nil {
		return nil, err
	}
	if err := refreshProducts(ctx, store, touchedProducts(oldDetails, pieces)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.publishWarnings(voucher.ID, warnings)
	s.publish(enum.TopicVouchers, enum.EventVoucherUpdated, voucher)

	return &PostResult{Voucher: voucher, Details: details, Warnings: warnings}, nil
}

// Delete removes a voucher after undoing its stock and account effects.
func (s *VoucherService) Delete(ctx context.Context, id int64) (*DeleteResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	old, err := lockVoucher(ctx, store, id)
	if err != nil {
		return nil, err
	}
	details, err := store.ListVoucherDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list voucher details: %w", err)
	}

	warnings, err := s.reverseStock(ctx, store, old, details)
	if err != nil {
		return nil, err
	}
	if err := s.applySideEffects(ctx, store, old, true); err != nil {
		return nil, err
	}
	if err := store.DeleteVoucherDetails(ctx, id); err != nil {
		return nil, fmt.Errorf("delete voucher details: %w", err)
	}
	if err := store.DeleteVoucher(ctx, id); err != nil {
		return nil, fmt.Errorf("delete voucher: %w", err)
	}
	if err := refreshProducts(ctx, store, touchedProducts(details, nil)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.publishWarnings(old.ID, warnings)
	s.publish(enum.TopicVouchers, enum.EventVoucherDeleted, old)

	return &DeleteResult{Voucher: old, Warnings: warnings}, nil
}

func lockVoucher(ctx context.Context, store VoucherStore, id int64) (database.Voucher, error) {
	v, err := store.GetVoucherForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Voucher{}, &NotFoundError{Entity: "voucher", Key: fmt.Sprint(id)}
		}
		return database.Voucher{}, fmt.Errorf("lock voucher: %w", err)
	}
	return v, nil
}

// reverseStock undoes the stock movement of every stored detail of v.
func (s *VoucherService) reverseStock(ctx context.Context, store VoucherStore, v database.Voucher, details []database.VoucherDetail) ([]ReconciliationWarning, error) {
	effect := enum.EffectOf(v.TransactionType)
	if effect == enum.StockNone {
		return nil, nil
	}

	var warnings []ReconciliationWarning
	for _, d := range details {
		target := stockTarget{productID: d.ProductID, productName: d.Product, batch: d.Batch}
		w, err := applyMovement(ctx, store, target, forwardMovement(effect, d.Quantity).inverse())
		if err != nil {
			return nil, fmt.Errorf("reverse %s batch %s: %w", d.Product, d.Batch, err)
		}
		for _, rw := range w {
			s.log.WithFields(logrus.Fields{
				"voucher_id": v.ID,
				"product":    rw.Product,
				"batch":      rw.Batch,
				"field":      rw.Field,
				"expected":   rw.Expected.String(),
				"clamped_to": rw.ClampedTo.String(),
			}).Warn("stock counter clamped during reversal")
		}
		warnings = append(warnings, w...)
	}
	return warnings, nil
}

func (s *VoucherService) publishWarnings(voucherID int64, warnings []ReconciliationWarning) {
	for _, w := range warnings {
		s.publish(enum.TopicStock, enum.EventReconciliationWarning, struct {
			VoucherID int64 `json:"voucher_id"`
			ReconciliationWarning
		}{voucherID, w})
	}
}
