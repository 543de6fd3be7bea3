package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/batchledger/api/internal/enum"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// =====================
// Validation tests
// =====================

func TestPost_Validation(t *testing.T) {
	pid := uuid.New()
	line := LineRequest{ProductID: pid, Quantity: dec("1"), Price: dec("10")}

	tests := []struct {
		name  string
		req   PostRequest
		field string
	}{
		{"unknown type", PostRequest{TransactionType: "Refund", Items: []LineRequest{line}}, "transaction_type"},
		{"type is case sensitive", PostRequest{TransactionType: "sales", Items: []LineRequest{line}}, "transaction_type"},
		{"stock type without items", PostRequest{TransactionType: enum.TxSales}, "items"},
		{"receipt without total", PostRequest{TransactionType: enum.TxReceipt}, "total_amount"},
		{"bad dc", PostRequest{TransactionType: enum.TxSales, DC: "X", Items: []LineRequest{line}}, "dc"},
		{"bad order mode", PostRequest{TransactionType: enum.TxSales, OrderMode: "CASH", Items: []LineRequest{line}}, "order_mode"},
		{"zero quantity", PostRequest{TransactionType: enum.TxSales, Items: []LineRequest{{ProductID: pid, Quantity: dec("0")}}}, "items[0].quantity"},
		{"negative price", PostRequest{TransactionType: enum.TxPurchase, Items: []LineRequest{{ProductID: pid, Quantity: dec("1"), Price: dec("-1")}}}, "items[0].price"},
		{"negative cess", PostRequest{TransactionType: enum.TxPurchase, Items: []LineRequest{{ProductID: pid, Quantity: dec("1"), Cess: dec("-2")}}}, "items[0].cess"},
		{"negative paid", PostRequest{TransactionType: enum.TxReceipt, TotalAmount: decPtr("10"), PaidAmount: dec("-1")}, "paid_amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.svc.Post(context.Background(), tt.req)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Errorf("field: got %+v, want %q", ve, tt.field)
			}
			if env.store.nextID != 0 {
				t.Error("no voucher id should be drawn for an invalid request")
			}
		})
	}
}

func TestPost_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Post(context.Background(), PostRequest{
		TransactionType: enum.TxPurchase,
		Items:           []LineRequest{{ProductID: uuid.New(), Quantity: dec("1")}},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPost_InactiveProductByID(t *testing.T) {
	env := newTestEnv(t)
	p := env.store.addProduct("Discontinued")
	p.IsActive = false
	env.store.products[p.ID] = p

	_, err := env.svc.Post(context.Background(), PostRequest{
		TransactionType: enum.TxPurchase,
		Items:           []LineRequest{{ProductID: p.ID, Quantity: dec("1")}},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(env.store.batches) != 0 {
		t.Errorf("batches: got %d, want none", len(env.store.batches))
	}
}

func TestPost_UnknownAccounts(t *testing.T) {
	inactive := func(env *testEnv) uuid.UUID {
		a := env.store.addAccount("Closed Clinic")
		a.IsActive = false
		env.store.accounts[a.ID] = a
		return a.ID
	}
	missing := func(*testEnv) uuid.UUID { return uuid.New() }

	tests := []struct {
		name  string
		id    func(*testEnv) uuid.UUID
		apply func(req *PostRequest, id uuid.UUID)
	}{
		{"missing party", missing, func(req *PostRequest, id uuid.UUID) { req.PartyID = &id }},
		{"inactive party", inactive, func(req *PostRequest, id uuid.UUID) { req.PartyID = &id }},
		{"missing account", missing, func(req *PostRequest, id uuid.UUID) { req.AccountID = &id }},
		{"inactive account", inactive, func(req *PostRequest, id uuid.UUID) { req.AccountID = &id }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			p := env.store.addProduct("Saline")
			env.store.addBatch(p.ID, "A", "5", nil)

			req := PostRequest{
				TransactionType: enum.TxSales,
				Items:           []LineRequest{{ProductID: p.ID, Quantity: dec("2"), Price: dec("10")}},
			}
			id := tt.id(env)
			tt.apply(&req, id)

			_, err := env.svc.Post(context.Background(), req)
			var nf *NotFoundError
			if !errors.As(err, &nf) || nf.Entity != "account" || nf.Key != id.String() {
				t.Fatalf("expected account NotFoundError for %s, got %v", id, err)
			}
			if env.store.nextID != 0 || len(env.store.vouchers) != 0 {
				t.Error("no voucher should be created")
			}
			assertDec(t, "batch A", env.store.batch(p.ID, "A").Quantity, "5")
			if env.tx.committed {
				t.Error("rejected post must not commit")
			}
		})
	}
}

// =====================
// Increase tests
// =====================

func TestPost_PurchaseCreatesBatch(t *testing.T) {
	env := newTestEnv(t)
	p := env.store.addProduct("Paracetamol 500mg")

	res, err := env.svc.Post(context.Background(), PostRequest{
		TransactionType: enum.TxPurchase,
		Items: []LineRequest{{
			ProductID: p.ID, Batch: "B1", Quantity: dec("10"), Price: dec("100"), Gst: dec("12"),
			MfgDate: date(2024, 1, 10), ExpDate: date(2026, 1, 10),
		}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v := res.Voucher
	if v.VchNo != "PUR-000001" || v.InvoiceNumber != "PUR-000001" {
		t.Errorf("numbers: got %q / %q", v.VchNo, v.InvoiceNumber)
	}
	if v.Dc != enum.DCCredit {
		t.Errorf("dc: got %q, want C", v.Dc)
	}
	assertDec(t, "basic", v.BasicAmount, "1000")
	assertDec(t, "tax", v.TaxAmount, "120")
	assertDec(t, "total", v.TotalAmount, "1120")
	assertDec(t, "balance", v.BalanceAmount, "1120")
	if v.Status != enum.VoucherStatusUnpaid {
		t.Errorf("status: got %q", v.Status)
	}

	b := env.store.batch(p.ID, "B1")
	if b == nil {
		t.Fatal("batch B1 not created")
	}
	assertDec(t, "batch quantity", b.Quantity, "10")
	assertDec(t, "batch stock_in", b.StockIn, "10")
	if !b.MfgDate.Valid || b.MfgDate.Time.Year() != 2024 {
		t.Errorf("mfg date not carried onto the new batch: %+v", b.MfgDate)
	}

	prod := env.store.products[p.ID]
	assertDec(t, "product balance", prod.Balance, "10")
	assertDec(t, "product stock_in", prod.StockIn, "10")

	if len(res.Details) != 1 || res.Details[0].Batch != "B1" {
		t.Errorf("details: got %+v", res.Details)
	}
	if !env.tx.committed {
		t.Error("transaction not committed")
	}
	if env.events.count(enum.EventVoucherPosted) != 1 {
		t.Errorf("expected one %s event, got %+v", enum.EventVoucherPosted, env.events.events)
	}
}

func TestPost_PurchaseDefaultBatchAccumulates(t *testing.T) {
	env := newTestEnv(t)
	p := env.store.addProduct("Cough Syrup")

	for i := 0; i < 2; i++ {
		if _, err := env.svc.Post(context.Background(), PostRequest{
			TransactionType: enum.TxPurchase,
			Items:           []LineRequest{{ProductID: p.ID, Quantity: dec("4")}},
		}); err != nil {
			t.Fatalf("post %d: %v", i, err)
		}
	}

	b := env.store.batch(p.ID, enum.DefaultBatch)
	if b == nil {
		t.Fatal("DEFAULT batch not created")
	}
	assertDec(t, "quantity", b.Quantity, "8")
	assertDec(t, "stock_in", b.StockIn, "8")
}

// =====================
// Decrease tests
// =====================

func TestPost_SalesFIFOAcrossBatches(t *testing.T) {
	env := newTestEnv(t)
	p := env.store.addProduct("Vitamin C")
	a := env.store.addBatch(p.ID, "A", "5", nil)
	b := env.store.addBatch(p.ID, "B", "10", nil)

	res, err := env.svc.Post(context.Background(), PostRequest{
		TransactionType: enum.TxSales,
		Items:           []LineRequest{{ProductID: p.ID, Quantity: dec("8"), Price: dec("10"), Discount: dec("8")}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertDec(t, "A quantity", a.Quantity, "0")
	assertDec(t, "A stock_out", a.StockOut, "5")
	assertDec(t, "B quantity", b.Quantity, "7")
	assertDec(t, "B stock_out", b.StockOut, "3")

	if len(res.Details) != 2 {
		t.Fatalf("expected 2 detail rows, got %d", len(res.Details))
	}
	if res.Details[0].Batch != "A" || res.Details[1].Batch != "B" {
		t.Errorf("detail batches: %q, %q", res.Details[0].Batch, res.Details[1].Batch)
	}
	assertDec(t, "discount A", res.Details[0].Discount, "5")
	assertDec(t, "discount B", res.Details[1].Discount, "3")
	assertDec(t, "taxable A", res.Details[0].Taxable, "45")
	assertDec(t, "taxable B", res.Details[1].Taxable, "27")
	assertDec(t, "total", res.Voucher.TotalAmount, "72")
	if res.Voucher.Dc != enum.DCDebit {
		t.Errorf("dc: got %q, want D", res.Voucher.Dc)
	}

	assertDec(t, "product balance", env.store.products[p.ID].Balance, "7")
}

func TestPost_OrderLinkedUsesManufactureDate(t *testing.T) {
	env := newTestEnv(t)
	p := env.store.addProduct("Saline")
	newer := env.store.addBatch(p.ID, "JUNE", "5", date(2024, 6, 1))
	older := env.store.addBatch(p.ID, "JAN", "5", date(2024, 1, 1))
	undated := env.store.addBatch(p.ID, "NODATE", "5", nil)
	order := env.store.addOrder("ORD-1")
	party := env.store.addAccount("Apollo Clinic").ID

	res, err := env.svc.Post(context.Background(), PostRequest{
		TransactionType: enum.TxSales,
		PartyID:         &party,
		OrderNumber:     "ORD-1",
		Items:           []LineRequest{{ProductID: p.ID, Quantity: dec("7"), Price: dec("2")}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertDec(t, "JAN", older.Quantity, "0")
	assertDec(t, "JUNE", newer.Quantity, "3")
	assertDec(t, "NODATE", undated.Quantity, "5")

	if order.Status != enum.OrderStatusInvoiced {
		t.Errorf("order status: got %q", order.Status)
	}
	if !env.store.invoiced[order.ID] {
		t.Error("order items not marked invoiced")
	}
	assertDec(t, "unpaid", env.store.unpaid[party], res.Voucher.TotalAmount.String())
}

func TestPost_ArbitraryFIFOIgnoresManufactureDate(t *testing.T) {
	env := newTestEnv(t)
	p := env.store.addProduct("Saline")
	first := env.store.addBatch(p.ID, "FIRST", "5", date(2024, 6, 1))
	second := env.store.addBatch(p.ID, "SECOND", "5", date(2024, 1, 1))

	if _, err := env.svc.Post(context.Background(), PostRequest{
		TransactionType: enum.TxStockTransfer,
		Items:           []LineRequest{{ProductID: p.ID, Quantity: dec("5")}},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertDec(t, "FIRST", first.Quantity, "0")
	assertDec(t, "SECOND", second.Quantity, "5")
}

func TestPost_SpecificBatch(t *testing.T) {
	env := newTestEnv(t)
	p := env.store.addProduct("Saline")
	env.store.addBatch(p.ID, "A", "5", nil)
	b := env.store.addBatch(p.ID, "B", "5", nil)

	if _, err := env.svc.Post(context.Background(), PostRequest{
		TransactionType: enum.TxSales,
		Items:           []LineRequest{{ProductID: p.ID, Batch: "B", Quantity: dec("2")}},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDec(t, "B", b.Quantity, "3")
}

func TestPost_SpecificBatchInsufficient(t *testing.T) {
	env := newTestEnv(t)
	p := env.store.addProduct("Saline")
	b := env.store.addBatch(p.ID, "B", "2", nil)

	_, err := env.svc.Post(context.Background(), PostRequest{
		TransactionType: enum.TxSales,
		Items:           []LineRequest{{ProductID: p.ID, Batch: "B", Quantity: dec("3")}},
	})
	var se *InsufficientStockError
	if !errors.As(err, &se) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if se.Product != "Saline" || se.Batch != "B" {
		t.Errorf("error identity: %+v", se)
	}
	assertDec(t, "available", se.Available, "2")
	assertDec(t, "required", se.Required, "3")
	assertDec(t, "untouched", b.Quantity, "2")
	if env.tx.committed {
		t.Error("failed post must not commit")
	}
}

func TestPost_SpecificBatchMissing(t *testing.T) {
	env := newTestEnv(t)
	p := env.store.addProduct("Saline")

	_, err := env.svc.Post(context.Background(), PostRequest{
		TransactionType: enum.TxSales,
		Items:           []LineRequest{{ProductID: p.ID, Batch: "NOPE", Quantity: dec("1")}},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPost_FIFOInsufficientLeavesBatchesUntouched(t *testing.T) {
	env := newTestEnv(t)
	p := env.store.addProduct("Saline")
	a := env.store.addBatch(p.ID, "A", "2", nil)
	b := env.store.addBatch(p.ID, "B", "3", nil)

	_, err := env.svc.Post(context.Background(), PostRequest{
		TransactionType: enum.TxSales,
		Items:           []LineRequest{{ProductID: p.ID, Quantity: dec("8")}},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if !strings.Contains(err.Error(), "available 5, required 8") {
		t.Errorf("message should report the shortage: %q", err.Error())
	}
	assertDec(t, "A", a.Quantity, "2")
	assertDec(t, "B", b.Quantity, "3")
}

// =====================
// Totals tests
// =====================

func TestPost_KachaZeroesTax(t *testing.T) {
	env := newTestEnv(t)
	p := env.store.addProduct("Saline")
	env.store.addBatch(p.ID, "A", "10", nil)

	res, err := env.svc.Post(context.Background(), PostRequest{
		TransactionType: enum.TxSales,
		OrderMode:       "kacha",
		SgstPercent:     dec("9"),
		CgstPercent:     dec("9"),
		Items:           []LineRequest{{ProductID: p.ID, Quantity: dec("2"), Price: dec("50"), Cgst: dec("9"), Sgst: dec("9"), Cess: dec("1")}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v := res.Voucher
	assertDec(t, "tax", v.TaxAmount, "0")
	assertDec(t, "total", v.TotalAmount, "100")
	assertDec(t, "sgst percent", v.SgstPercent, "0")
	assertDec(t, "cgst amount", v.CgstAmount, "0")
	if v.OrderMode.String != enum.OrderModeKacha {
		t.Errorf("order mode: got %q", v.OrderMode.String)
	}
	d := res.Details[0]
	assertDec(t, "line tax", d.TaxAmount, "0")
	assertDec(t, "line cgst", d.Cgst, "0")
	assertDec(t, "line cess", d.Cess, "0")
	assertDec(t, "line total", d.Total, "100")
}

func TestPost_SplitRatesAndCess(t *testing.T) {
	env := newTestEnv(t)
	p := env.store.addProduct("Saline")

	res, err := env.svc.Post(context.Background(), PostRequest{
		TransactionType: enum.TxPurchase,
		Items:           []LineRequest{{ProductID: p.ID, Quantity: dec("3"), Price: dec("33.33"), Cgst: dec("6"), Sgst: dec("6"), Cess: dec("1")}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// taxable 99.99, rate 13% -> 13.00
	assertDec(t, "basic", res.Voucher.BasicAmount, "99.99")
	assertDec(t, "tax", res.Voucher.TaxAmount, "13")
	assertDec(t, "total", res.Voucher.TotalAmount, "112.99")
	assertDec(t, "sgst amount", res.Voucher.SgstAmount, "6")
	assertDec(t, "cgst amount", res.Voucher.CgstAmount, "6")
}

func TestPost_SuppliedTotals(t *testing.T) {
	env := newTestEnv(t)
	p := env.store.addProduct("Saline")

	res, err := env.svc.Post(context.Background(), PostRequest{
		TransactionType: enum.TxPurchase,
		TotalAmount:     decPtr("1180"),
		PaidAmount:      dec("180"),
		Items:           []LineRequest{{ProductID: p.ID, Quantity: dec("10"), Price: dec("100")}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v := res.Voucher
	assertDec(t, "basic", v.BasicAmount, "1000")
	assertDec(t, "tax", v.TaxAmount, "180")
	assertDec(t, "total", v.TotalAmount, "1180")
	assertDec(t, "balance", v.BalanceAmount, "1000")
	if v.Status != enum.VoucherStatusPartial {
		t.Errorf("status: got %q, want PARTIAL", v.Status)
	}
}

func TestPost_ReceiptWithoutItems(t *testing.T) {
	env := newTestEnv(t)
	party := env.store.addAccount("Apollo Clinic").ID

	res, err := env.svc.Post(context.Background(), PostRequest{
		TransactionType: enum.TxReceipt,
		PartyID:         &party,
		TotalAmount:     decPtr("500"),
		PaidAmount:      dec("500"),
		InvoiceNumber:   "R-77",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v := res.Voucher
	if v.VchNo != "RCT-000001" || v.InvoiceNumber != "R-77" {
		t.Errorf("numbers: %q / %q", v.VchNo, v.InvoiceNumber)
	}
	if v.Dc != enum.DCCredit || v.Status != enum.VoucherStatusPaid {
		t.Errorf("dc/status: %q / %q", v.Dc, v.Status)
	}
	if len(res.Details) != 0 {
		t.Errorf("details: got %d", len(res.Details))
	}
	if _, ok := env.store.unpaid[party]; ok {
		t.Error("receipts do not touch unpaid_amount")
	}
}

func TestPost_ExplicitLineTotalProrated(t *testing.T) {
	env := newTestEnv(t)
	p := env.store.addProduct("Saline")
	env.store.addBatch(p.ID, "A", "1", nil)
	env.store.addBatch(p.ID, "B", "2", nil)

	res, err := env.svc.Post(context.Background(), PostRequest{
		TransactionType: enum.TxSales,
		Items:           []LineRequest{{ProductID: p.ID, Quantity: dec("3"), Price: dec("10"), Total: decPtr("100")}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDec(t, "piece A", res.Details[0].Total, "33.33")
	assertDec(t, "piece B", res.Details[1].Total, "66.67")
	assertDec(t, "voucher total", res.Voucher.TotalAmount, "100")
}

// =====================
// Product resolution
// =====================

func TestPost_ProductByName(t *testing.T) {
	env := newTestEnv(t)
	p := env.store.addProduct("Paracetamol 500mg")
	env.store.addProduct("Cough Syrup")

	res, err := env.svc.Post(context.Background(), PostRequest{
		TransactionType: enum.TxPurchase,
		Items:           []LineRequest{{ProductName: "paracetamol 500MG", Quantity: dec("1")}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Details[0].ProductID != p.ID || res.Details[0].Product != p.Name {
		t.Errorf("resolved to %+v", res.Details[0])
	}
}

func TestPost_ProductByNameAmbiguous(t *testing.T) {
	env := newTestEnv(t)
	env.store.addProduct("Paracetamol 500mg")
	env.store.addProduct("Paracetamol 650mg")

	_, err := env.svc.Post(context.Background(), PostRequest{
		TransactionType: enum.TxPurchase,
		Items:           []LineRequest{{ProductName: "paracetamol", Quantity: dec("1")}},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestPost_ProductNameRequired(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Post(context.Background(), PostRequest{
		TransactionType: enum.TxPurchase,
		Items:           []LineRequest{{Quantity: dec("1")}},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// =====================
// Side effects
// =====================

func TestPost_MissingOrderIsLogged(t *testing.T) {
	env := newTestEnv(t)
	p := env.store.addProduct("Saline")
	env.store.addBatch(p.ID, "A", "5", nil)

	if _, err := env.svc.Post(context.Background(), PostRequest{
		TransactionType: enum.TxSales,
		OrderNumber:     "GHOST",
		Items:           []LineRequest{{ProductID: p.ID, Quantity: dec("1")}},
	}); err != nil {
		t.Fatalf("missing order must not fail the post: %v", err)
	}

	found := false
	for _, e := range env.hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "linked order not found" && e.Data["order_number"] == "GHOST" {
			found = true
		}
	}
	if !found {
		t.Error("expected a warning for the missing order")
	}
}

func TestPost_CreateVoucherFailure(t *testing.T) {
	env := newTestEnv(t)
	p := env.store.addProduct("Saline")
	env.store.createVoucherErr = errors.New("boom")

	_, err := env.svc.Post(context.Background(), PostRequest{
		TransactionType: enum.TxPurchase,
		Items:           []LineRequest{{ProductID: p.ID, Quantity: dec("1")}},
	})
	if err == nil || !strings.Contains(err.Error(), "create voucher") {
		t.Fatalf("expected wrapped create error, got %v", err)
	}
	if env.tx.committed {
		t.Error("failed post must not commit")
	}
	if len(env.events.events) != 0 {
		t.Error("no events should be published for a failed post")
	}
}

func TestPost_BeginFailure(t *testing.T) {
	svc := NewVoucherService(&mockTxBeginner{err: errors.New("pool closed")}, nil, nil, logrus.New())
	_, err := svc.Post(context.Background(), PostRequest{TransactionType: enum.TxReceipt, TotalAmount: decPtr("1")})
	if err == nil || !strings.Contains(err.Error(), "begin tx") {
		t.Fatalf("expected begin error, got %v", err)
	}
}
