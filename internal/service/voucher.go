package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/batchledger/api/internal/catalog"
	"github.com/batchledger/api/internal/database"
	"github.com/batchledger/api/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// VoucherStore defines the DB methods needed to post, edit and delete vouchers.
// Satisfied by *database.Queries (and its WithTx variant).
type VoucherStore interface {
	GetProduct(ctx context.Context, id uuid.UUID) (database.Product, error)
	ListActiveProducts(ctx context.Context) ([]database.Product, error)
	RefreshProductStock(ctx context.Context, productID uuid.UUID) error

	GetBatchForUpdate(ctx context.Context, arg database.GetBatchForUpdateParams) (database.Batch, error)
	LockBatchesByCreated(ctx context.Context, productID uuid.UUID) ([]database.Batch, error)
	LockBatchesByMfgDate(ctx context.Context, productID uuid.UUID) ([]database.Batch, error)
	EnsureBatch(ctx context.Context, arg database.EnsureBatchParams) error
	DeductBatch(ctx context.Context, arg database.DeductBatchParams) (int64, error)
	SetBatchCounters(ctx context.Context, arg database.SetBatchCountersParams) error

	NextVoucherID(ctx context.Context) (int64, error)
	CreateVoucher(ctx context.Context, arg database.CreateVoucherParams) (database.Voucher, error)
	GetVoucherForUpdate(ctx context.Context, id int64) (database.Voucher, error)
	UpdateVoucher(ctx context.Context, arg database.UpdateVoucherParams) (database.Voucher, error)
	DeleteVoucher(ctx context.Context, id int64) error
	CountVouchersByInvoice(ctx context.Context, arg database.CountVouchersByInvoiceParams) (int64, error)

	CreateVoucherDetail(ctx context.Context, arg database.CreateVoucherDetailParams) (database.VoucherDetail, error)
	ListVoucherDetails(ctx context.Context, voucherID int64) ([]database.VoucherDetail, error)
	DeleteVoucherDetails(ctx context.Context, voucherID int64) error
	SumInvoiceQuantities(ctx context.Context, arg database.SumInvoiceQuantitiesParams) ([]database.SumInvoiceQuantitiesRow, error)
	SumNoteQuantities(ctx context.Context, arg database.SumNoteQuantitiesParams) ([]database.SumNoteQuantitiesRow, error)

	GetOrderByNumber(ctx context.Context, orderNumber string) (database.Order, error)
	SetOrderStatus(ctx context.Context, arg database.SetOrderStatusParams) error
	SetOrderItemsInvoiced(ctx context.Context, arg database.SetOrderItemsInvoicedParams) error
	GetAccount(ctx context.Context, id uuid.UUID) (database.Account, error)
	AddAccountUnpaid(ctx context.Context, arg database.AddAccountUnpaidParams) error
}

// NewVoucherStore creates a VoucherStore from a DBTX (pool or tx).
type NewVoucherStore func(db database.DBTX) VoucherStore

// Publisher receives voucher and stock events after a transaction commits.
// Satisfied by *ws.Hub.
type Publisher interface {
	Publish(topic, eventType string, payload any)
}

// PostRequest is the input for posting or editing a voucher. Pointer amounts
// distinguish "not supplied" from zero.
type PostRequest struct {
	TransactionType string
	VchNo           string
	InvoiceNumber   string
	AgainstInvoice  string
	PartyID         *uuid.UUID
	AccountID       *uuid.UUID
	TransactionDate time.Time

	BasicAmount *decimal.Decimal
	TaxAmount   *decimal.Decimal
	TotalAmount *decimal.Decimal
	SgstAmount  *decimal.Decimal
	CgstAmount  *decimal.Decimal
	IgstAmount  *decimal.Decimal
	SgstPercent decimal.Decimal
	CgstPercent decimal.Decimal
	IgstPercent decimal.Decimal
	PaidAmount  decimal.Decimal

	DC          string
	OrderNumber string
	OrderMode   string
	Narration   string
	CreatedBy   *uuid.UUID

	Items []LineRequest
}

// LineRequest is one requested line item. Either ProductID or ProductName
// identifies the product.
type LineRequest struct {
	ProductID   uuid.UUID
	ProductName string
	Batch       string
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	Discount    decimal.Decimal
	Gst         decimal.Decimal
	Cgst        decimal.Decimal
	Sgst        decimal.Decimal
	Igst        decimal.Decimal
	Cess        decimal.Decimal
	Total       *decimal.Decimal
	MfgDate     *time.Time
	ExpDate     *time.Time
}

// ReconciliationWarning records a batch counter that would have gone negative
// while undoing a stock movement and was clamped instead.
type ReconciliationWarning struct {
	ProductID uuid.UUID       `json:"product_id"`
	Product   string          `json:"product"`
	Batch     string          `json:"batch"`
	Field     string          `json:"field"`
	Expected  decimal.Decimal `json:"expected"`
	ClampedTo decimal.Decimal `json:"clamped_to"`
}

// PostResult is the stored voucher with its detail rows.
type PostResult struct {
	Voucher  database.Voucher
	Details  []database.VoucherDetail
	Warnings []ReconciliationWarning
}

// VoucherService posts, edits and deletes vouchers together with their stock
// and account side effects.
type VoucherService struct {
	pool     TxBeginner
	newStore NewVoucherStore
	events   Publisher
	log      logrus.FieldLogger
}

// NewVoucherService creates a new VoucherService. events may be nil.
func NewVoucherService(pool TxBeginner, newStore NewVoucherStore, events Publisher, log logrus.FieldLogger) *VoucherService {
	return &VoucherService{pool: pool, newStore: newStore, events: events, log: log}
}

// resolvedLine is a request line bound to its catalog product.
type resolvedLine struct {
	LineRequest
	product database.Product
}

// Post validates req and writes the voucher, its details and every stock and
// account effect in one transaction.
func (s *VoucherService) Post(ctx context.Context, req PostRequest) (*PostResult, error) {
	if err := normalizeRequest(&req); err != nil {
		return nil, err
	}

	// --- Begin transaction ---
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// --- Resolve accounts and products ---
	if err := resolveAccounts(ctx, store, req); err != nil {
		return nil, err
	}
	lines, err := resolveLines(ctx, store, req.Items)
	if err != nil {
		return nil, err
	}

	// --- Note cap ---
	if _, isNote := enum.NoteOrigin(req.TransactionType); isNote && req.AgainstInvoice != "" {
		if err := checkNoteCap(ctx, store, req.TransactionType, req.AgainstInvoice, 0, lines); err != nil {
			return nil, err
		}
	}

	// --- Allocate stock ---
	pieces, err := s.allocateLines(ctx, store, req, lines)
	if err != nil {
		return nil, err
	}

	// --- Header ---
	id, err := store.NextVoucherID(ctx)
	if err != nil {
		return nil, fmt.Errorf("next voucher id: %w", err)
	}
	prefix := enum.NumberPrefix(req.TransactionType)
	vchNo := req.VchNo
	if vchNo == "" {
		vchNo = fmt.Sprintf("%s-%06d", prefix, id)
	}
	invoiceNumber := req.InvoiceNumber
	if invoiceNumber == "" {
		invoiceNumber = fmt.Sprintf("%s-%06d", prefix, id)
	}

	t := computeTotals(req, pieces)
	voucher, err := store.CreateVoucher(ctx, database.CreateVoucherParams{
		ID:              id,
		TransactionType: req.TransactionType,
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
		CreatedBy:       optUUID(req.CreatedBy),
	})
	if err != nil {
		return nil, fmt.Errorf("create voucher: %w", err)
	}

	// --- Details ---
	details, err := insertDetails(ctx, store, voucher.ID, pieces)
	if err != nil {
		return nil, err
	}

	// --- Side effects ---
	if err := s.applySideEffects(ctx, store, voucher, false); err != nil {
		return nil, err
	}

	if err := refreshProducts(ctx, store, touchedProducts(nil, pieces)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.publish(enum.TopicVouchers, enum.EventVoucherPosted, voucher)

	return &PostResult{Voucher: voucher, Details: details}, nil
}

// normalizeRequest validates req in place and fills its defaults.
func normalizeRequest(req *PostRequest) error {
	if !enum.IsTransactionType(req.TransactionType) {
		return invalid("transaction_type", "unknown transaction type %q", req.TransactionType)
	}
	effect := enum.EffectOf(req.TransactionType)

	req.DC = strings.ToUpper(strings.TrimSpace(req.DC))
	switch req.DC {
	case "":
		req.DC = enum.DefaultDC(req.TransactionType)
	case enum.DCDebit, enum.DCCredit:
	default:
		return invalid("dc", "must be D or C")
	}

	req.OrderMode = strings.ToUpper(strings.TrimSpace(req.OrderMode))
	switch req.OrderMode {
	case "", enum.OrderModePakka, enum.OrderModeKacha:
	default:
		return invalid("order_mode", "must be PAKKA or KACHA")
	}

	if effect != enum.StockNone && len(req.Items) == 0 {
		return invalid("items", "%s requires at least one line item", req.TransactionType)
	}
	if len(req.Items) == 0 && req.TotalAmount == nil {
		return invalid("total_amount", "is required when there are no line items")
	}

	for i, item := range req.Items {
		if !item.Quantity.IsPositive() {
			return invalid(fmt.Sprintf("items[%d].quantity", i), "must be greater than 0")
		}
		for _, f := range []struct {
			name string
			v    decimal.Decimal
		}{
			{"price", item.Price}, {"discount", item.Discount}, {"gst", item.Gst},
			{"cgst", item.Cgst}, {"sgst", item.Sgst}, {"igst", item.Igst}, {"cess", item.Cess},
		} {
			if f.v.IsNegative() {
				return invalid(fmt.Sprintf("items[%d].%s", i, f.name), "must not be negative")
			}
		}
		if item.Total != nil && item.Total.IsNegative() {
			return invalid(fmt.Sprintf("items[%d].total", i), "must not be negative")
		}
		req.Items[i].Batch = strings.TrimSpace(item.Batch)
	}

	for _, f := range []struct {
		name string
		v    *decimal.Decimal
	}{
		{"basic_amount", req.BasicAmount}, {"tax_amount", req.TaxAmount}, {"total_amount", req.TotalAmount},
	} {
		if f.v != nil && f.v.IsNegative() {
			return invalid(f.name, "must not be negative")
		}
	}
	if req.PaidAmount.IsNegative() {
		return invalid("paid_amount", "must not be negative")
	}

	if req.TransactionDate.IsZero() {
		req.TransactionDate = time.Now()
	}
	req.AgainstInvoice = strings.TrimSpace(req.AgainstInvoice)
	req.OrderNumber = strings.TrimSpace(req.OrderNumber)
	return nil
}

// resolveAccounts checks that the party and account, when given, exist and
// are active.
func resolveAccounts(ctx context.Context, store VoucherStore, req PostRequest) error {
	for _, id := range []*uuid.UUID{req.PartyID, req.AccountID} {
		if id == nil {
			continue
		}
		if _, err := store.GetAccount(ctx, *id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return &NotFoundError{Entity: "account", Key: id.String()}
			}
			return fmt.Errorf("get account: %w", err)
		}
	}
	return nil
}

// resolveLines binds every active request line to a product, by id or by
// name.
func resolveLines(ctx context.Context, store VoucherStore, items []LineRequest) ([]resolvedLine, error) {
	var (
		matcher  *catalog.Matcher
		products map[uuid.UUID]database.Product
	)
	lines := make([]resolvedLine, len(items))

	for i, item := range items {
		switch {
		case item.ProductID != uuid.Nil:
			p, err := store.GetProduct(ctx, item.ProductID)
			if errors.Is(err, pgx.ErrNoRows) || (err == nil && !p.IsActive) {
				return nil, &NotFoundError{Entity: "product", Key: item.ProductID.String()}
			}
			if err != nil {
				return nil, fmt.Errorf("items[%d]: get product: %w", i, err)
			}
			lines[i] = resolvedLine{LineRequest: item, product: p}

		case strings.TrimSpace(item.ProductName) != "":
			if matcher == nil {
				all, err := store.ListActiveProducts(ctx)
				if err != nil {
					return nil, fmt.Errorf("list products: %w", err)
				}
				products = make(map[uuid.UUID]database.Product, len(all))
				candidates := make([]catalog.Product, len(all))
				for j, p := range all {
					products[p.ID] = p
					candidates[j] = catalog.Product{ID: p.ID, Name: p.Name, SKU: p.Sku.String, Keywords: p.Keywords}
				}
				matcher = catalog.New(candidates)
			}

			res := matcher.Match(item.ProductName)
			switch res.Status {
			case catalog.Matched:
				lines[i] = resolvedLine{LineRequest: item, product: products[res.Product.ID]}
			case catalog.Ambiguous:
				names := make([]string, len(res.Candidates))
				for j, c := range res.Candidates {
					names[j] = c.Name
				}
				return nil, invalid(fmt.Sprintf("items[%d].product", i), "%q is ambiguous: %s", item.ProductName, strings.Join(names, ", "))
			default:
				return nil, &NotFoundError{Entity: "product", Key: item.ProductName}
			}

		default:
			return nil, invalid(fmt.Sprintf("items[%d]", i), "product_id or product is required")
		}
	}

	return lines, nil
}

// insertDetails writes one detail row per allocated piece.
func insertDetails(ctx context.Context, store VoucherStore, voucherID int64, pieces []piece) ([]database.VoucherDetail, error) {
	details := make([]database.VoucherDetail, 0, len(pieces))
	for _, p := range pieces {
		d, err := store.CreateVoucherDetail(ctx, database.CreateVoucherDetailParams{
			VoucherID: voucherID,
			ProductID: p.productID,
			Product:   p.productName,
			Batch:     p.batch,
			Quantity:  p.quantity,
			Price:     p.price,
			Discount:  p.discount,
			Gst:       p.gst,
			Cgst:      p.cgst,
			Sgst:      p.sgst,
			Igst:      p.igst,
			Cess:      p.cess,
			Taxable:   p.taxable,
			TaxAmount: p.taxAmount,
			Total:     p.total,
		})
		if err != nil {
			return nil, fmt.Errorf("create voucher detail: %w", err)
		}
		details = append(details, d)
	}
	return details, nil
}

// applySideEffects marks the linked order invoiced and books the voucher total
// against the party. With undo set it reverts both.
func (s *VoucherService) applySideEffects(ctx context.Context, store VoucherStore, v database.Voucher, undo bool) error {
	if v.TransactionType != enum.TxSales && v.TransactionType != enum.TxStockTransfer {
		return nil
	}
	if !v.OrderNumber.Valid || v.OrderNumber.String == "" {
		return nil
	}

	order, err := store.GetOrderByNumber(ctx, v.OrderNumber.String)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		s.log.WithFields(logrus.Fields{
			"voucher_id":   v.ID,
			"order_number": v.OrderNumber.String,
		}).Warn("linked order not found")
	case err != nil:
		return fmt.Errorf("get order: %w", err)
	default:
		status := enum.OrderStatusInvoiced
		if undo {
			status = enum.OrderStatusPending
		}
		if err := store.SetOrderStatus(ctx, database.SetOrderStatusParams{ID: order.ID, Status: status}); err != nil {
			return fmt.Errorf("set order status: %w", err)
		}
		if err := store.SetOrderItemsInvoiced(ctx, database.SetOrderItemsInvoicedParams{OrderID: order.ID, Invoiced: !undo}); err != nil {
			return fmt.Errorf("set order items invoiced: %w", err)
		}
	}

	if v.PartyID.Valid {
		amount := v.TotalAmount
		if undo {
			amount = amount.Neg()
		}
		if err := store.AddAccountUnpaid(ctx, database.AddAccountUnpaidParams{Amount: amount, ID: v.PartyID.Bytes}); err != nil {
			return fmt.Errorf("update unpaid amount: %w", err)
		}
	}
	return nil
}

// touchedProducts returns the distinct product ids across details and pieces in a stable order.
func touchedProducts(details []database.VoucherDetail, pieces []piece) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	add := func(id uuid.UUID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, d := range details {
		add(d.ProductID)
	}
	for _, p := range pieces {
		add(p.productID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func refreshProducts(ctx context.Context, store VoucherStore, ids []uuid.UUID) error {
	for _, id := range ids {
		if err := store.RefreshProductStock(ctx, id); err != nil {
			return fmt.Errorf("refresh product stock: %w", err)
		}
	}
	return nil
}

func (s *VoucherService) publish(topic, eventType string, payload any) {
	if s.events != nil {
		s.events.Publish(topic, eventType, payload)
	}
}

func optText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func optUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil || *id == uuid.Nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}
