package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const createVoucherDetail = `-- name: CreateVoucherDetail :one
INSERT INTO voucher_details (
    voucher_id, product_id, product, batch, quantity, price, discount,
    gst, cgst, sgst, igst, cess, taxable, tax_amount, total
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING id, voucher_id, product_id, product, batch, quantity, price, discount, gst, cgst, sgst, igst, cess, taxable, tax_amount, total, created_at
`

type CreateVoucherDetailParams struct {
	VoucherID int64           `json:"voucher_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Product   string          `json:"product"`
	Batch     string          `json:"batch"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Discount  decimal.Decimal `json:"discount"`
	Gst       decimal.Decimal `json:"gst"`
	Cgst      decimal.Decimal `json:"cgst"`
	Sgst      decimal.Decimal `json:"sgst"`
	Igst      decimal.Decimal `json:"igst"`
	Cess      decimal.Decimal `json:"cess"`
	Taxable   decimal.Decimal `json:"taxable"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

func (q *Queries) CreateVoucherDetail(ctx context.Context, arg CreateVoucherDetailParams) (VoucherDetail, error) {
	row := q.db.QueryRow(ctx, createVoucherDetail,
		arg.VoucherID,
		arg.ProductID,
		arg.Product,
		arg.Batch,
		arg.Quantity,
		arg.Price,
		arg.Discount,
		arg.Gst,
		arg.Cgst,
		arg.Sgst,
		arg.Igst,
		arg.Cess,
		arg.Taxable,
		arg.TaxAmount,
		arg.Total,
	)
	var i VoucherDetail
	err := row.Scan(
		&i.ID,
		&i.VoucherID,
		&i.ProductID,
		&i.Product,
		&i.Batch,
		&i.Quantity,
		&i.Price,
		&i.Discount,
		&i.Gst,
		&i.Cgst,
		&i.Sgst,
		&i.Igst,
		&i.Cess,
		&i.Taxable,
		&i.TaxAmount,
		&i.Total,
		&i.CreatedAt,
	)
	return i, err
}

const deleteVoucherDetails = `-- name: DeleteVoucherDetails :exec
DELETE FROM voucher_details WHERE voucher_id = $1
`

func (q *Queries) DeleteVoucherDetails(ctx context.Context, voucherID int64) error {
	_, err := q.db.Exec(ctx, deleteVoucherDetails, voucherID)
	return err
}

const listVoucherDetails = `-- name: ListVoucherDetails :many
SELECT id, voucher_id, product_id, product, batch, quantity, price, discount, gst, cgst, sgst, igst, cess, taxable, tax_amount, total, created_at FROM voucher_details WHERE voucher_id = $1 ORDER BY created_at, id
`

func (q *Queries) ListVoucherDetails(ctx context.Context, voucherID int64) ([]VoucherDetail, error) {
	rows, err := q.db.Query(ctx, listVoucherDetails, voucherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []VoucherDetail{}
	for rows.Next() {
		var i VoucherDetail
		if err := rows.Scan(
			&i.ID,
			&i.VoucherID,
			&i.ProductID,
			&i.Product,
			&i.Batch,
			&i.Quantity,
			&i.Price,
			&i.Discount,
			&i.Gst,
			&i.Cgst,
			&i.Sgst,
			&i.Igst,
			&i.Cess,
			&i.Taxable,
			&i.TaxAmount,
			&i.Total,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const sumInvoiceQuantities = `-- name: SumInvoiceQuantities :many
SELECT d.product_id, d.batch, SUM(d.quantity)::numeric AS quantity
FROM voucher_details d
JOIN vouchers v ON v.id = d.voucher_id
WHERE v.transaction_type = $1 AND v.invoice_number = $2
GROUP BY d.product_id, d.batch
`

type SumInvoiceQuantitiesParams struct {
	TransactionType string `json:"transaction_type"`
	InvoiceNumber   string `json:"invoice_number"`
}

type SumInvoiceQuantitiesRow struct {
	ProductID uuid.UUID       `json:"product_id"`
	Batch     string          `json:"batch"`
	Quantity  decimal.Decimal `json:"quantity"`
}

func (q *Queries) SumInvoiceQuantities(ctx context.Context, arg SumInvoiceQuantitiesParams) ([]SumInvoiceQuantitiesRow, error) {
	rows, err := q.db.Query(ctx, sumInvoiceQuantities, arg.TransactionType, arg.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []SumInvoiceQuantitiesRow{}
	for rows.Next() {
		var i SumInvoiceQuantitiesRow
		if err := rows.Scan(&i.ProductID, &i.Batch, &i.Quantity); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const sumNoteQuantities = `-- name: SumNoteQuantities :many
SELECT d.product_id, d.batch, SUM(d.quantity)::numeric AS quantity
FROM voucher_details d
JOIN vouchers v ON v.id = d.voucher_id
WHERE v.transaction_type = $1 AND v.against_invoice = $2 AND v.id <> $3
GROUP BY d.product_id, d.batch
`

type SumNoteQuantitiesParams struct {
	TransactionType string `json:"transaction_type"`
	AgainstInvoice  string `json:"against_invoice"`
	ExcludeID       int64  `json:"exclude_id"`
}

type SumNoteQuantitiesRow struct {
	ProductID uuid.UUID       `json:"product_id"`
	Batch     string          `json:"batch"`
	Quantity  decimal.Decimal `json:"quantity"`
}

func (q *Queries) SumNoteQuantities(ctx context.Context, arg SumNoteQuantitiesParams) ([]SumNoteQuantitiesRow, error) {
	rows, err := q.db.Query(ctx, sumNoteQuantities, arg.TransactionType, arg.AgainstInvoice, arg.ExcludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []SumNoteQuantitiesRow{}
	for rows.Next() {
		var i SumNoteQuantitiesRow
		if err := rows.Scan(&i.ProductID, &i.Batch, &i.Quantity); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
