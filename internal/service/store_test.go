package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/batchledger/api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// --- Mock implementations ---

// mockTx implements pgx.Tx with only the methods we need.
// The unused methods panic so we catch accidental calls.
type mockTx struct {
	commitErr error
	committed bool
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (m *mockTx) Commit(ctx context.Context) error {
	if m.commitErr == nil {
		m.committed = true
	}
	return m.commitErr
}
func (m *mockTx) Rollback(ctx context.Context) error { return nil }
func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (m *mockTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (m *mockTx) Conn() *pgx.Conn { panic("not implemented") }

// mockTxBeginner implements TxBeginner.
type mockTxBeginner struct {
	tx  pgx.Tx
	err error
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	return m.tx, m.err
}

// memStore is an in-memory VoucherStore. It keeps just enough state to check
// stock, voucher and account effects end to end.
type memStore struct {
	products  map[uuid.UUID]database.Product
	accounts  map[uuid.UUID]database.Account
	batches   []*database.Batch
	vouchers  map[int64]database.Voucher
	details   map[int64][]database.VoucherDetail
	orders    map[string]*database.Order
	invoiced  map[uuid.UUID]bool
	unpaid    map[uuid.UUID]decimal.Decimal
	refreshed map[uuid.UUID]int

	nextID int64
	clock  time.Time

	createVoucherErr error
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[uuid.UUID]database.Product),
		accounts:  make(map[uuid.UUID]database.Account),
		vouchers:  make(map[int64]database.Voucher),
		details:   make(map[int64][]database.VoucherDetail),
		orders:    make(map[string]*database.Order),
		invoiced:  make(map[uuid.UUID]bool),
		unpaid:    make(map[uuid.UUID]decimal.Decimal),
		refreshed: make(map[uuid.UUID]int),
		clock:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

// --- Fixtures ---

func (m *memStore) addProduct(name string) database.Product {
	p := database.Product{ID: uuid.New(), Name: name, Unit: "PCS", IsActive: true, MaintainBatch: true}
	m.products[p.ID] = p
	return p
}

func (m *memStore) addAccount(name string) database.Account {
	a := database.Account{ID: uuid.New(), Name: name, AccountType: "CUSTOMER", IsActive: true}
	m.accounts[a.ID] = a
	return a
}

func (m *memStore) addBatch(productID uuid.UUID, number, qty string, mfg *time.Time) *database.Batch {
	b := &database.Batch{
		ID:          uuid.New(),
		ProductID:   productID,
		BatchNumber: number,
		OpeningQty:  dec(qty),
		Quantity:    dec(qty),
		CreatedAt:   m.tick(),
	}
	if mfg != nil {
		b.MfgDate = pgtype.Date{Time: *mfg, Valid: true}
	}
	m.batches = append(m.batches, b)
	return b
}

func (m *memStore) addOrder(number string) *database.Order {
	o := &database.Order{ID: uuid.New(), OrderNumber: number, Status: "PENDING"}
	m.orders[number] = o
	return o
}

func (m *memStore) batch(productID uuid.UUID, number string) *database.Batch {
	for _, b := range m.batches {
		if b.ProductID == productID && b.BatchNumber == number {
			return b
		}
	}
	return nil
}

func (m *memStore) removeBatch(productID uuid.UUID, number string) {
	for i, b := range m.batches {
		if b.ProductID == productID && b.BatchNumber == number {
			m.batches = append(m.batches[:i], m.batches[i+1:]...)
			return
		}
	}
}

// --- VoucherStore ---

func (m *memStore) GetProduct(ctx context.Context, id uuid.UUID) (database.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return database.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *memStore) ListActiveProducts(ctx context.Context) ([]database.Product, error) {
	var out []database.Product
	for _, p := range m.products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) RefreshProductStock(ctx context.Context, productID uuid.UUID) error {
	p := m.products[productID]
	p.StockIn, p.StockOut, p.Balance = decimal.Zero, decimal.Zero, decimal.Zero
	for _, b := range m.batches {
		if b.ProductID == productID {
			p.StockIn = p.StockIn.Add(b.StockIn)
			p.StockOut = p.StockOut.Add(b.StockOut)
			p.Balance = p.Balance.Add(b.Quantity)
		}
	}
	m.products[productID] = p
	m.refreshed[productID]++
	return nil
}

func (m *memStore) GetBatchForUpdate(ctx context.Context, arg database.GetBatchForUpdateParams) (database.Batch, error) {
	b := m.batch(arg.ProductID, arg.BatchNumber)
	if b == nil {
		return database.Batch{}, pgx.ErrNoRows
	}
	return *b, nil
}

func (m *memStore) lockBatches(productID uuid.UUID, less func(a, b *database.Batch) bool) []database.Batch {
	var out []*database.Batch
	for _, b := range m.batches {
		if b.ProductID == productID && b.Quantity.IsPositive() {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	rows := make([]database.Batch, len(out))
	for i, b := range out {
		rows[i] = *b
	}
	return rows
}

func (m *memStore) LockBatchesByCreated(ctx context.Context, productID uuid.UUID) ([]database.Batch, error) {
	return m.lockBatches(productID, func(a, b *database.Batch) bool {
		return a.CreatedAt.Before(b.CreatedAt)
	}), nil
}

func (m *memStore) LockBatchesByMfgDate(ctx context.Context, productID uuid.UUID) ([]database.Batch, error) {
	return m.lockBatches(productID, func(a, b *database.Batch) bool {
		switch {
		case a.MfgDate.Valid && !b.MfgDate.Valid:
			return true
		case !a.MfgDate.Valid && b.MfgDate.Valid:
			return false
		case a.MfgDate.Valid && !a.MfgDate.Time.Equal(b.MfgDate.Time):
			return a.MfgDate.Time.Before(b.MfgDate.Time)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	}), nil
}

func (m *memStore) EnsureBatch(ctx context.Context, arg database.EnsureBatchParams) error {
	if m.batch(arg.ProductID, arg.BatchNumber) != nil {
		return nil
	}
	m.batches = append(m.batches, &database.Batch{
		ID:          uuid.New(),
		ProductID:   arg.ProductID,
		BatchNumber: arg.BatchNumber,
		MfgDate:     arg.MfgDate,
		ExpDate:     arg.ExpDate,
		CreatedAt:   m.tick(),
	})
	return nil
}

func (m *memStore) DeductBatch(ctx context.Context, arg database.DeductBatchParams) (int64, error) {
	for _, b := range m.batches {
		if b.ID == arg.ID {
			if b.Quantity.LessThan(arg.Amount) {
				return 0, nil
			}
			b.Quantity = b.Quantity.Sub(arg.Amount)
			b.StockOut = b.StockOut.Add(arg.Amount)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memStore) SetBatchCounters(ctx context.Context, arg database.SetBatchCountersParams) error {
	for _, b := range m.batches {
		if b.ID == arg.ID {
			b.Quantity, b.StockIn, b.StockOut = arg.Quantity, arg.StockIn, arg.StockOut
		}
	}
	return nil
}

func (m *memStore) NextVoucherID(ctx context.Context) (int64, error) {
	m.nextID++
	return m.nextID, nil
}

func (m *memStore) CreateVoucher(ctx context.Context, arg database.CreateVoucherParams) (database.Voucher, error) {
	if m.createVoucherErr != nil {
		return database.Voucher{}, m.createVoucherErr
	}
	now := m.tick()
	v := database.Voucher{
		ID: arg.ID, TransactionType: arg.TransactionType, VchNo: arg.VchNo, InvoiceNumber: arg.InvoiceNumber,
		AgainstInvoice: arg.AgainstInvoice, PartyID: arg.PartyID, AccountID: arg.AccountID,
		TransactionDate: arg.TransactionDate, BasicAmount: arg.BasicAmount, TaxAmount: arg.TaxAmount,
		TotalAmount: arg.TotalAmount, SgstAmount: arg.SgstAmount, CgstAmount: arg.CgstAmount,
		IgstAmount: arg.IgstAmount, SgstPercent: arg.SgstPercent, CgstPercent: arg.CgstPercent,
		IgstPercent: arg.IgstPercent, PaidAmount: arg.PaidAmount, BalanceAmount: arg.BalanceAmount,
		Status: arg.Status, Dc: arg.Dc, OrderNumber: arg.OrderNumber, OrderMode: arg.OrderMode,
		Narration: arg.Narration, CreatedBy: arg.CreatedBy, CreatedAt: now, UpdatedAt: now,
	}
	m.vouchers[v.ID] = v
	return v, nil
}

func (m *memStore) GetVoucherForUpdate(ctx context.Context, id int64) (database.Voucher, error) {
	v, ok := m.vouchers[id]
	if !ok {
		return database.Voucher{}, pgx.ErrNoRows
	}
	return v, nil
}

func (m *memStore) UpdateVoucher(ctx context.Context, arg database.UpdateVoucherParams) (database.Voucher, error) {
	v, ok := m.vouchers[arg.ID]
	if !ok {
		return database.Voucher{}, pgx.ErrNoRows
	}
	v.VchNo, v.InvoiceNumber, v.AgainstInvoice = arg.VchNo, arg.InvoiceNumber, arg.AgainstInvoice
	v.PartyID, v.AccountID, v.TransactionDate = arg.PartyID, arg.AccountID, arg.TransactionDate
	v.BasicAmount, v.TaxAmount, v.TotalAmount = arg.BasicAmount, arg.TaxAmount, arg.TotalAmount
	v.SgstAmount, v.CgstAmount, v.IgstAmount = arg.SgstAmount, arg.CgstAmount, arg.IgstAmount
	v.SgstPercent, v.CgstPercent, v.IgstPercent = arg.SgstPercent, arg.CgstPercent, arg.IgstPercent
	v.PaidAmount, v.BalanceAmount, v.Status, v.Dc = arg.PaidAmount, arg.BalanceAmount, arg.Status, arg.Dc
	v.OrderNumber, v.OrderMode, v.Narration = arg.OrderNumber, arg.OrderMode, arg.Narration
	v.UpdatedAt = m.tick()
	m.vouchers[v.ID] = v
	return v, nil
}

func (m *memStore) DeleteVoucher(ctx context.Context, id int64) error {
	delete(m.vouchers, id)
	return nil
}

func (m *memStore) CountVouchersByInvoice(ctx context.Context, arg database.CountVouchersByInvoiceParams) (int64, error) {
	var n int64
	for _, v := range m.vouchers {
		if v.TransactionType == arg.TransactionType && v.InvoiceNumber == arg.InvoiceNumber {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreateVoucherDetail(ctx context.Context, arg database.CreateVoucherDetailParams) (database.VoucherDetail, error) {
	d := database.VoucherDetail{
		ID: uuid.New(), VoucherID: arg.VoucherID, ProductID: arg.ProductID, Product: arg.Product,
		Batch: arg.Batch, Quantity: arg.Quantity, Price: arg.Price, Discount: arg.Discount,
		Gst: arg.Gst, Cgst: arg.Cgst, Sgst: arg.Sgst, Igst: arg.Igst, Cess: arg.Cess,
		Taxable: arg.Taxable, TaxAmount: arg.TaxAmount, Total: arg.Total, CreatedAt: m.tick(),
	}
	m.details[arg.VoucherID] = append(m.details[arg.VoucherID], d)
	return d, nil
}

func (m *memStore) ListVoucherDetails(ctx context.Context, voucherID int64) ([]database.VoucherDetail, error) {
	return append([]database.VoucherDetail(nil), m.details[voucherID]...), nil
}

func (m *memStore) DeleteVoucherDetails(ctx context.Context, voucherID int64) error {
	delete(m.details, voucherID)
	return nil
}

func (m *memStore) sumDetails(match func(v database.Voucher) bool) []database.SumInvoiceQuantitiesRow {
	type key struct {
		p uuid.UUID
		b string
	}
	sums := make(map[key]decimal.Decimal)
	var order []key
	for id, v := range m.vouchers {
		if !match(v) {
			continue
		}
		for _, d := range m.details[id] {
			k := key{d.ProductID, d.Batch}
			if _, ok := sums[k]; !ok {
				order = append(order, k)
			}
			sums[k] = sums[k].Add(d.Quantity)
		}
	}
	rows := make([]database.SumInvoiceQuantitiesRow, len(order))
	for i, k := range order {
		rows[i] = database.SumInvoiceQuantitiesRow{ProductID: k.p, Batch: k.b, Quantity: sums[k]}
	}
	return rows
}

func (m *memStore) SumInvoiceQuantities(ctx context.Context, arg database.SumInvoiceQuantitiesParams) ([]database.SumInvoiceQuantitiesRow, error) {
	return m.sumDetails(func(v database.Voucher) bool {
		return v.TransactionType == arg.TransactionType && v.InvoiceNumber == arg.InvoiceNumber
	}), nil
}

func (m *memStore) SumNoteQuantities(ctx context.Context, arg database.SumNoteQuantitiesParams) ([]database.SumNoteQuantitiesRow, error) {
	rows := m.sumDetails(func(v database.Voucher) bool {
		return v.TransactionType == arg.TransactionType && v.AgainstInvoice.String == arg.AgainstInvoice && v.ID != arg.ExcludeID
	})
	out := make([]database.SumNoteQuantitiesRow, len(rows))
	for i, r := range rows {
		out[i] = database.SumNoteQuantitiesRow(r)
	}
	return out, nil
}

func (m *memStore) GetOrderByNumber(ctx context.Context, orderNumber string) (database.Order, error) {
	o, ok := m.orders[orderNumber]
	if !ok {
		return database.Order{}, pgx.ErrNoRows
	}
	return *o, nil
}

func (m *memStore) SetOrderStatus(ctx context.Context, arg database.SetOrderStatusParams) error {
	for _, o := range m.orders {
		if o.ID == arg.ID {
			o.Status = arg.Status
		}
	}
	return nil
}

func (m *memStore) SetOrderItemsInvoiced(ctx context.Context, arg database.SetOrderItemsInvoicedParams) error {
	m.invoiced[arg.OrderID] = arg.Invoiced
	return nil
}

// GetAccount sees active accounts only, like the query it stands in for.
func (m *memStore) GetAccount(ctx context.Context, id uuid.UUID) (database.Account, error) {
	a, ok := m.accounts[id]
	if !ok || !a.IsActive {
		return database.Account{}, pgx.ErrNoRows
	}
	return a, nil
}

func (m *memStore) AddAccountUnpaid(ctx context.Context, arg database.AddAccountUnpaidParams) error {
	m.unpaid[arg.ID] = m.unpaid[arg.ID].Add(arg.Amount)
	return nil
}

// --- Publisher ---

type publishedEvent struct {
	topic     string
	eventType string
	payload   any
}

type recordingPublisher struct {
	events []publishedEvent
}

func (p *recordingPublisher) Publish(topic, eventType string, payload any) {
	p.events = append(p.events, publishedEvent{topic, eventType, payload})
}

func (p *recordingPublisher) count(eventType string) int {
	n := 0
	for _, e := range p.events {
		if e.eventType == eventType {
			n++
		}
	}
	return n
}

// --- Test helpers ---

type testEnv struct {
	svc    *VoucherService
	store  *memStore
	tx     *mockTx
	events *recordingPublisher
	hook   *test.Hook
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	tx := &mockTx{}
	events := &recordingPublisher{}
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	newStore := func(db database.DBTX) VoucherStore { return store }
	svc := NewVoucherService(&mockTxBeginner{tx: tx}, newStore, events, logger)
	return &testEnv{svc: svc, store: store, tx: tx, events: events, hook: hook}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func assertDec(t *testing.T, what string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s: got %s, want %s", what, got.String(), want)
	}
}
