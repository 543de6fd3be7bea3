package service

import (
	"github.com/batchledger/api/internal/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// piece is one stored detail row: a line's share of a single batch, priced.
type piece struct {
	productID   uuid.UUID
	productName string
	batch       string
	quantity    decimal.Decimal
	price       decimal.Decimal
	discount    decimal.Decimal
	gst         decimal.Decimal
	cgst        decimal.Decimal
	sgst        decimal.Decimal
	igst        decimal.Decimal
	cess        decimal.Decimal
	taxable     decimal.Decimal
	taxAmount   decimal.Decimal
	total       decimal.Decimal
}

func money(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// taxRate is gst when set, otherwise the sum of the split rates.
func taxRate(gst, cgst, sgst, igst decimal.Decimal) decimal.Decimal {
	if !gst.IsZero() {
		return gst
	}
	return cgst.Add(sgst).Add(igst)
}

// splitLine prices a line across its allocations. Discount and an explicit
// line total are prorated by quantity; the last piece takes the remainder so
// the pieces sum exactly to the line.
func splitLine(line resolvedLine, allocs []allocation, kacha bool) []piece {
	pieces := make([]piece, 0, len(allocs))

	discountLeft := line.Discount
	var totalLeft decimal.Decimal
	if line.Total != nil {
		totalLeft = *line.Total
	}

	for i, a := range allocs {
		last := i == len(allocs)-1
		share := a.quantity.Div(line.Quantity)

		discount := discountLeft
		if !last {
			discount = money(line.Discount.Mul(share))
		}
		discountLeft = discountLeft.Sub(discount)

		p := piece{
			productID:   line.product.ID,
			productName: line.product.Name,
			batch:       a.batch,
			quantity:    a.quantity,
			price:       line.Price,
			discount:    discount,
			gst:         line.Gst,
			cgst:        line.Cgst,
			sgst:        line.Sgst,
			igst:        line.Igst,
			cess:        line.Cess,
		}
		p.taxable = money(a.quantity.Mul(line.Price).Sub(discount))

		if kacha {
			p.gst, p.cgst, p.sgst, p.igst, p.cess = decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
			p.taxAmount = decimal.Zero
			p.total = p.taxable
			pieces = append(pieces, p)
			continue
		}

		rate := taxRate(p.gst, p.cgst, p.sgst, p.igst).Add(p.cess)
		p.taxAmount = money(p.taxable.Mul(rate).Div(hundred))

		switch {
		case line.Total == nil:
			p.total = p.taxable.Add(p.taxAmount)
		case last:
			p.total = totalLeft
		default:
			p.total = money(line.Total.Mul(share))
			totalLeft = totalLeft.Sub(p.total)
		}
		pieces = append(pieces, p)
	}
	return pieces
}

// voucherTotals are the computed header amounts.
type voucherTotals struct {
	basic       decimal.Decimal
	tax         decimal.Decimal
	total       decimal.Decimal
	sgst        decimal.Decimal
	cgst        decimal.Decimal
	igst        decimal.Decimal
	sgstPercent decimal.Decimal
	cgstPercent decimal.Decimal
	igstPercent decimal.Decimal
	paid        decimal.Decimal
	balance     decimal.Decimal
	status      string
}

// computeTotals derives header amounts. A supplied total_amount wins, with a
// missing basic_amount taken from the lines (or the total when there are
// none) and a missing tax_amount as total minus basic; otherwise everything
// is summed from the pieces.
func computeTotals(req PostRequest, pieces []piece) voucherTotals {
	var lineBasic, lineTax, lineTotal, lineSgst, lineCgst, lineIgst decimal.Decimal
	for _, p := range pieces {
		lineBasic = lineBasic.Add(p.taxable)
		lineTax = lineTax.Add(p.taxAmount)
		lineTotal = lineTotal.Add(p.total)
		lineSgst = lineSgst.Add(p.taxable.Mul(p.sgst).Div(hundred))
		lineCgst = lineCgst.Add(p.taxable.Mul(p.cgst).Div(hundred))
		lineIgst = lineIgst.Add(p.taxable.Mul(p.igst).Div(hundred))
	}

	var t voucherTotals
	if req.TotalAmount != nil {
		t.total = *req.TotalAmount
		t.basic = lineBasic
		switch {
		case req.BasicAmount != nil:
			t.basic = *req.BasicAmount
		case len(pieces) == 0:
			t.basic = t.total
		}
		t.tax = t.total.Sub(t.basic)
		if req.TaxAmount != nil {
			t.tax = *req.TaxAmount
		}
	} else {
		t.basic, t.tax, t.total = lineBasic, lineTax, lineTotal
	}

	t.sgst, t.cgst, t.igst = pick(req.SgstAmount, lineSgst), pick(req.CgstAmount, lineCgst), pick(req.IgstAmount, lineIgst)
	t.sgstPercent, t.cgstPercent, t.igstPercent = req.SgstPercent, req.CgstPercent, req.IgstPercent

	if req.OrderMode == enum.OrderModeKacha {
		t.tax = decimal.Zero
		t.sgst, t.cgst, t.igst = decimal.Zero, decimal.Zero, decimal.Zero
		t.sgstPercent, t.cgstPercent, t.igstPercent = decimal.Zero, decimal.Zero, decimal.Zero
		t.total = t.basic
	}

	t.basic, t.tax, t.total = money(t.basic), money(t.tax), money(t.total)
	t.sgst, t.cgst, t.igst = money(t.sgst), money(t.cgst), money(t.igst)

	t.paid = money(req.PaidAmount)
	t.balance = t.total.Sub(t.paid)
	switch {
	case !t.balance.IsPositive():
		t.status = enum.VoucherStatusPaid
	case t.paid.IsPositive():
		t.status = enum.VoucherStatusPartial
	default:
		t.status = enum.VoucherStatusUnpaid
	}
	return t
}

func pick(supplied *decimal.Decimal, computed decimal.Decimal) decimal.Decimal {
	if supplied != nil {
		return *supplied
	}
	return computed
}
