package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const countVouchersByInvoice = `-- name: CountVouchersByInvoice :one
SELECT COUNT(*) FROM vouchers WHERE transaction_type = $1 AND invoice_number = $2
`

type CountVouchersByInvoiceParams struct {
	TransactionType string `json:"transaction_type"`
	InvoiceNumber   string `json:"invoice_number"`
}

func (q *Queries) CountVouchersByInvoice(ctx context.Context, arg CountVouchersByInvoiceParams) (int64, error) {
	row := q.db.QueryRow(ctx, countVouchersByInvoice, arg.TransactionType, arg.InvoiceNumber)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createVoucher = `-- name: CreateVoucher :one
INSERT INTO vouchers (
    id, transaction_type, vch_no, invoice_number, against_invoice, party_id, account_id,
    transaction_date, basic_amount, tax_amount, total_amount, sgst_amount, cgst_amount,
    igst_amount, sgst_percent, cgst_percent, igst_percent, paid_amount, balance_amount,
    status, dc, order_number, order_mode, narration, created_by
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
    $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25
)
RETURNING id, transaction_type, vch_no, invoice_number, against_invoice, party_id, account_id, transaction_date, basic_amount, tax_amount, total_amount, sgst_amount, cgst_amount, igst_amount, sgst_percent, cgst_percent, igst_percent, paid_amount, balance_amount, status, dc, order_number, order_mode, pdf_path, narration, created_by, created_at, updated_at
`

type CreateVoucherParams struct {
	ID              int64           `json:"id"`
	TransactionType string          `json:"transaction_type"`
	VchNo           string          `json:"vch_no"`
	InvoiceNumber   string          `json:"invoice_number"`
	AgainstInvoice  pgtype.Text     `json:"against_invoice"`
	PartyID         pgtype.UUID     `json:"party_id"`
	AccountID       pgtype.UUID     `json:"account_id"`
	TransactionDate pgtype.Date     `json:"transaction_date"`
	BasicAmount     decimal.Decimal `json:"basic_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	SgstAmount      decimal.Decimal `json:"sgst_amount"`
	CgstAmount      decimal.Decimal `json:"cgst_amount"`
	IgstAmount      decimal.Decimal `json:"igst_amount"`
	SgstPercent     decimal.Decimal `json:"sgst_percent"`
	CgstPercent     decimal.Decimal `json:"cgst_percent"`
	IgstPercent     decimal.Decimal `json:"igst_percent"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	BalanceAmount   decimal.Decimal `json:"balance_amount"`
	Status          string          `json:"status"`
	Dc              string          `json:"dc"`
	OrderNumber     pgtype.Text     `json:"order_number"`
	OrderMode       pgtype.Text     `json:"order_mode"`
	Narration       pgtype.Text     `json:"narration"`
	CreatedBy       pgtype.UUID     `json:"created_by"`
}

func (q *Queries) CreateVoucher(ctx context.Context, arg CreateVoucherParams) (Voucher, error) {
	row := q.db.QueryRow(ctx, createVoucher,
		arg.ID,
		arg.TransactionType,
		arg.VchNo,
		arg.InvoiceNumber,
		arg.AgainstInvoice,
		arg.PartyID,
		arg.AccountID,
		arg.TransactionDate,
		arg.BasicAmount,
		arg.TaxAmount,
		arg.TotalAmount,
		arg.SgstAmount,
		arg.CgstAmount,
		arg.IgstAmount,
		arg.SgstPercent,
		arg.CgstPercent,
		arg.IgstPercent,
		arg.PaidAmount,
		arg.BalanceAmount,
		arg.Status,
		arg.Dc,
		arg.OrderNumber,
		arg.OrderMode,
		arg.Narration,
		arg.CreatedBy,
	)
	var i Voucher
	err := row.Scan(
		&i.ID,
		&i.TransactionType,
		&i.VchNo,
		&i.InvoiceNumber,
		&i.AgainstInvoice,
		&i.PartyID,
		&i.AccountID,
		&i.TransactionDate,
		&i.BasicAmount,
		&i.TaxAmount,
		&i.TotalAmount,
		&i.SgstAmount,
		&i.CgstAmount,
		&i.IgstAmount,
		&i.SgstPercent,
		&i.CgstPercent,
		&i.IgstPercent,
		&i.PaidAmount,
		&i.BalanceAmount,
		&i.Status,
		&i.Dc,
		&i.OrderNumber,
		&i.OrderMode,
		&i.PdfPath,
		&i.Narration,
		&i.CreatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteVoucher = `-- name: DeleteVoucher :exec
DELETE FROM vouchers WHERE id = $1
`

func (q *Queries) DeleteVoucher(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, deleteVoucher, id)
	return err
}

const getVoucher = `-- name: GetVoucher :one
SELECT id, transaction_type, vch_no, invoice_number, against_invoice, party_id, account_id, transaction_date, basic_amount, tax_amount, total_amount, sgst_amount, cgst_amount, igst_amount, sgst_percent, cgst_percent, igst_percent, paid_amount, balance_amount, status, dc, order_number, order_mode, pdf_path, narration, created_by, created_at, updated_at FROM vouchers WHERE id = $1
`

func (q *Queries) GetVoucher(ctx context.Context, id int64) (Voucher, error) {
	row := q.db.QueryRow(ctx, getVoucher, id)
	var i Voucher
	err := row.Scan(
		&i.ID,
		&i.TransactionType,
		&i.VchNo,
		&i.InvoiceNumber,
		&i.AgainstInvoice,
		&i.PartyID,
		&i.AccountID,
		&i.TransactionDate,
		&i.BasicAmount,
		&i.TaxAmount,
		&i.TotalAmount,
		&i.SgstAmount,
		&i.CgstAmount,
		&i.IgstAmount,
		&i.SgstPercent,
		&i.CgstPercent,
		&i.IgstPercent,
		&i.PaidAmount,
		&i.BalanceAmount,
		&i.Status,
		&i.Dc,
		&i.OrderNumber,
		&i.OrderMode,
		&i.PdfPath,
		&i.Narration,
		&i.CreatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getVoucherForUpdate = `-- name: GetVoucherForUpdate :one
SELECT id, transaction_type, vch_no, invoice_number, against_invoice, party_id, account_id, transaction_date, basic_amount, tax_amount, total_amount, sgst_amount, cgst_amount, igst_amount, sgst_percent, cgst_percent, igst_percent, paid_amount, balance_amount, status, dc, order_number, order_mode, pdf_path, narration, created_by, created_at, updated_at FROM vouchers WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetVoucherForUpdate(ctx context.Context, id int64) (Voucher, error) {
	row := q.db.QueryRow(ctx, getVoucherForUpdate, id)
	var i Voucher
	err := row.Scan(
		&i.ID,
		&i.TransactionType,
		&i.VchNo,
		&i.InvoiceNumber,
		&i.AgainstInvoice,
		&i.PartyID,
		&i.AccountID,
		&i.TransactionDate,
		&i.BasicAmount,
		&i.TaxAmount,
		&i.TotalAmount,
		&i.SgstAmount,
		&i.CgstAmount,
		&i.IgstAmount,
		&i.SgstPercent,
		&i.CgstPercent,
		&i.IgstPercent,
		&i.PaidAmount,
		&i.BalanceAmount,
		&i.Status,
		&i.Dc,
		&i.OrderNumber,
		&i.OrderMode,
		&i.PdfPath,
		&i.Narration,
		&i.CreatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getVoucherView = `-- name: GetVoucherView :one
SELECT v.id, v.transaction_type, v.vch_no, v.invoice_number, v.against_invoice, v.party_id, v.account_id, v.transaction_date, v.basic_amount, v.tax_amount, v.total_amount, v.sgst_amount, v.cgst_amount, v.igst_amount, v.sgst_percent, v.cgst_percent, v.igst_percent, v.paid_amount, v.balance_amount, v.status, v.dc, v.order_number, v.order_mode, v.pdf_path, v.narration, v.created_by, v.created_at, v.updated_at, p.name AS party_name, a.name AS account_name
FROM vouchers v
LEFT JOIN accounts p ON p.id = v.party_id
LEFT JOIN accounts a ON a.id = v.account_id
WHERE v.id = $1
`

type GetVoucherViewRow struct {
	ID              int64           `json:"id"`
	TransactionType string          `json:"transaction_type"`
	VchNo           string          `json:"vch_no"`
	InvoiceNumber   string          `json:"invoice_number"`
	AgainstInvoice  pgtype.Text     `json:"against_invoice"`
	PartyID         pgtype.UUID     `json:"party_id"`
	AccountID       pgtype.UUID     `json:"account_id"`
	TransactionDate pgtype.Date     `json:"transaction_date"`
	BasicAmount     decimal.Decimal `json:"basic_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	SgstAmount      decimal.Decimal `json:"sgst_amount"`
	CgstAmount      decimal.Decimal `json:"cgst_amount"`
	IgstAmount      decimal.Decimal `json:"igst_amount"`
	SgstPercent     decimal.Decimal `json:"sgst_percent"`
	CgstPercent     decimal.Decimal `json:"cgst_percent"`
	IgstPercent     decimal.Decimal `json:"igst_percent"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	BalanceAmount   decimal.Decimal `json:"balance_amount"`
	Status          string          `json:"status"`
	Dc              string          `json:"dc"`
	OrderNumber     pgtype.Text     `json:"order_number"`
	OrderMode       pgtype.Text     `json:"order_mode"`
	PdfPath         pgtype.Text     `json:"pdf_path"`
	Narration       pgtype.Text     `json:"narration"`
	CreatedBy       pgtype.UUID     `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	PartyName       pgtype.Text     `json:"party_name"`
	AccountName     pgtype.Text     `json:"account_name"`
}

func (q *Queries) GetVoucherView(ctx context.Context, id int64) (GetVoucherViewRow, error) {
	row := q.db.QueryRow(ctx, getVoucherView, id)
	var i GetVoucherViewRow
	err := row.Scan(
		&i.ID,
		&i.TransactionType,
		&i.VchNo,
		&i.InvoiceNumber,
		&i.AgainstInvoice,
		&i.PartyID,
		&i.AccountID,
		&i.TransactionDate,
		&i.BasicAmount,
		&i.TaxAmount,
		&i.TotalAmount,
		&i.SgstAmount,
		&i.CgstAmount,
		&i.IgstAmount,
		&i.SgstPercent,
		&i.CgstPercent,
		&i.IgstPercent,
		&i.PaidAmount,
		&i.BalanceAmount,
		&i.Status,
		&i.Dc,
		&i.OrderNumber,
		&i.OrderMode,
		&i.PdfPath,
		&i.Narration,
		&i.CreatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.PartyName,
		&i.AccountName,
	)
	return i, err
}

const listLedgerEntries = `-- name: ListLedgerEntries :many
SELECT v.id, v.party_id, p.name AS party_name, v.transaction_type, v.vch_no, v.invoice_number,
       v.transaction_date, v.total_amount, v.dc, v.narration
FROM vouchers v
LEFT JOIN accounts p ON p.id = v.party_id
WHERE ($1::uuid IS NULL OR v.party_id = $1::uuid)
  AND ($2::date IS NULL OR v.transaction_date <= $2::date)
`

type ListLedgerEntriesParams struct {
	PartyID pgtype.UUID `json:"party_id"`
	EndDate pgtype.Date `json:"end_date"`
}

type ListLedgerEntriesRow struct {
	ID              int64           `json:"id"`
	PartyID         pgtype.UUID     `json:"party_id"`
	PartyName       pgtype.Text     `json:"party_name"`
	TransactionType string          `json:"transaction_type"`
	VchNo           string          `json:"vch_no"`
	InvoiceNumber   string          `json:"invoice_number"`
	TransactionDate pgtype.Date     `json:"transaction_date"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Dc              string          `json:"dc"`
	Narration       pgtype.Text     `json:"narration"`
}

func (q *Queries) ListLedgerEntries(ctx context.Context, arg ListLedgerEntriesParams) ([]ListLedgerEntriesRow, error) {
	rows, err := q.db.Query(ctx, listLedgerEntries, arg.PartyID, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListLedgerEntriesRow{}
	for rows.Next() {
		var i ListLedgerEntriesRow
		if err := rows.Scan(
			&i.ID,
			&i.PartyID,
			&i.PartyName,
			&i.TransactionType,
			&i.VchNo,
			&i.InvoiceNumber,
			&i.TransactionDate,
			&i.TotalAmount,
			&i.Dc,
			&i.Narration,
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

const listVouchers = `-- name: ListVouchers :many
SELECT v.id, v.transaction_type, v.vch_no, v.invoice_number, v.against_invoice, v.party_id, v.account_id, v.transaction_date, v.basic_amount, v.tax_amount, v.total_amount, v.sgst_amount, v.cgst_amount, v.igst_amount, v.sgst_percent, v.cgst_percent, v.igst_percent, v.paid_amount, v.balance_amount, v.status, v.dc, v.order_number, v.order_mode, v.pdf_path, v.narration, v.created_by, v.created_at, v.updated_at, p.name AS party_name, a.name AS account_name
FROM vouchers v
LEFT JOIN accounts p ON p.id = v.party_id
LEFT JOIN accounts a ON a.id = v.account_id
WHERE ($3::text IS NULL OR v.transaction_type = $3::text)
  AND ($4::uuid IS NULL OR v.party_id = $4::uuid)
  AND ($5::date IS NULL OR v.transaction_date >= $5::date)
  AND ($6::date IS NULL OR v.transaction_date <= $6::date)
ORDER BY v.transaction_date DESC, v.id DESC
LIMIT $1 OFFSET $2
`

type ListVouchersParams struct {
	Limit           int32       `json:"limit"`
	Offset          int32       `json:"offset"`
	TransactionType pgtype.Text `json:"transaction_type"`
	PartyID         pgtype.UUID `json:"party_id"`
	StartDate       pgtype.Date `json:"start_date"`
	EndDate         pgtype.Date `json:"end_date"`
}

type ListVouchersRow struct {
	ID              int64           `json:"id"`
	TransactionType string          `json:"transaction_type"`
	VchNo           string          `json:"vch_no"`
	InvoiceNumber   string          `json:"invoice_number"`
	AgainstInvoice  pgtype.Text     `json:"against_invoice"`
	PartyID         pgtype.UUID     `json:"party_id"`
	AccountID       pgtype.UUID     `json:"account_id"`
	TransactionDate pgtype.Date     `json:"transaction_date"`
	BasicAmount     decimal.Decimal `json:"basic_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	SgstAmount      decimal.Decimal `json:"sgst_amount"`
	CgstAmount      decimal.Decimal `json:"cgst_amount"`
	IgstAmount      decimal.Decimal `json:"igst_amount"`
	SgstPercent     decimal.Decimal `json:"sgst_percent"`
	CgstPercent     decimal.Decimal `json:"cgst_percent"`
	IgstPercent     decimal.Decimal `json:"igst_percent"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	BalanceAmount   decimal.Decimal `json:"balance_amount"`
	Status          string          `json:"status"`
	Dc              string          `json:"dc"`
	OrderNumber     pgtype.Text     `json:"order_number"`
	OrderMode       pgtype.Text     `json:"order_mode"`
	PdfPath         pgtype.Text     `json:"pdf_path"`
	Narration       pgtype.Text     `json:"narration"`
	CreatedBy       pgtype.UUID     `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	PartyName       pgtype.Text     `json:"party_name"`
	AccountName     pgtype.Text     `json:"account_name"`
}

func (q *Queries) ListVouchers(ctx context.Context, arg ListVouchersParams) ([]ListVouchersRow, error) {
	rows, err := q.db.Query(ctx, listVouchers,
		arg.Limit,
		arg.Offset,
		arg.TransactionType,
		arg.PartyID,
		arg.StartDate,
		arg.EndDate,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListVouchersRow{}
	for rows.Next() {
		var i ListVouchersRow
		if err := rows.Scan(
			&i.ID,
			&i.TransactionType,
			&i.VchNo,
			&i.InvoiceNumber,
			&i.AgainstInvoice,
			&i.PartyID,
			&i.AccountID,
			&i.TransactionDate,
			&i.BasicAmount,
			&i.TaxAmount,
			&i.TotalAmount,
			&i.SgstAmount,
			&i.CgstAmount,
			&i.IgstAmount,
			&i.SgstPercent,
			&i.CgstPercent,
			&i.IgstPercent,
			&i.PaidAmount,
			&i.BalanceAmount,
			&i.Status,
			&i.Dc,
			&i.OrderNumber,
			&i.OrderMode,
			&i.PdfPath,
			&i.Narration,
			&i.CreatedBy,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.PartyName,
			&i.AccountName,
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

const nextVoucherID = `-- name: NextVoucherID :one
SELECT nextval('vouchers_id_seq')::bigint
`

func (q *Queries) NextVoucherID(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, nextVoucherID)
	var column_1 int64
	err := row.Scan(&column_1)
	return column_1, err
}

const setVoucherPdfPath = `-- name: SetVoucherPdfPath :execrows
UPDATE vouchers SET pdf_path = $2, updated_at = now() WHERE id = $1
`

type SetVoucherPdfPathParams struct {
	ID      int64       `json:"id"`
	PdfPath pgtype.Text `json:"pdf_path"`
}

func (q *Queries) SetVoucherPdfPath(ctx context.Context, arg SetVoucherPdfPathParams) (int64, error) {
	result, err := q.db.Exec(ctx, setVoucherPdfPath, arg.ID, arg.PdfPath)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const summarizeVouchers = `-- name: SummarizeVouchers :many
SELECT transaction_type,
       COUNT(*)::bigint AS voucher_count,
       COALESCE(SUM(basic_amount), 0)::numeric AS basic_amount,
       COALESCE(SUM(tax_amount), 0)::numeric AS tax_amount,
       COALESCE(SUM(total_amount), 0)::numeric AS total_amount
FROM vouchers
WHERE transaction_date >= $1::date AND transaction_date <= $2::date
GROUP BY transaction_type
ORDER BY transaction_type
`

type SummarizeVouchersParams struct {
	StartDate pgtype.Date `json:"start_date"`
	EndDate   pgtype.Date `json:"end_date"`
}

type SummarizeVouchersRow struct {
	TransactionType string          `json:"transaction_type"`
	VoucherCount    int64           `json:"voucher_count"`
	BasicAmount     decimal.Decimal `json:"basic_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

func (q *Queries) SummarizeVouchers(ctx context.Context, arg SummarizeVouchersParams) ([]SummarizeVouchersRow, error) {
	rows, err := q.db.Query(ctx, summarizeVouchers, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []SummarizeVouchersRow{}
	for rows.Next() {
		var i SummarizeVouchersRow
		if err := rows.Scan(
			&i.TransactionType,
			&i.VoucherCount,
			&i.BasicAmount,
			&i.TaxAmount,
			&i.TotalAmount,
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

const updateVoucher = `-- name: UpdateVoucher :one
UPDATE vouchers SET
    vch_no = $2, invoice_number = $3, against_invoice = $4, party_id = $5, account_id = $6,
    transaction_date = $7, basic_amount = $8, tax_amount = $9, total_amount = $10,
    sgst_amount = $11, cgst_amount = $12, igst_amount = $13, sgst_percent = $14,
    cgst_percent = $15, igst_percent = $16, paid_amount = $17, balance_amount = $18,
    status = $19, dc = $20, order_number = $21, order_mode = $22, narration = $23,
    updated_at = now()
WHERE id = $1
RETURNING id, transaction_type, vch_no, invoice_number, against_invoice, party_id, account_id, transaction_date, basic_amount, tax_amount, total_amount, sgst_amount, cgst_amount, igst_amount, sgst_percent, cgst_percent, igst_percent, paid_amount, balance_amount, status, dc, order_number, order_mode, pdf_path, narration, created_by, created_at, updated_at
`

type UpdateVoucherParams struct {
	ID              int64           `json:"id"`
	VchNo           string          `json:"vch_no"`
	InvoiceNumber   string          `json:"invoice_number"`
	AgainstInvoice  pgtype.Text     `json:"against_invoice"`
	PartyID         pgtype.UUID     `json:"party_id"`
	AccountID       pgtype.UUID     `json:"account_id"`
	TransactionDate pgtype.Date     `json:"transaction_date"`
	BasicAmount     decimal.Decimal `json:"basic_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	SgstAmount      decimal.Decimal `json:"sgst_amount"`
	CgstAmount      decimal.Decimal `json:"cgst_amount"`
	IgstAmount      decimal.Decimal `json:"igst_amount"`
	SgstPercent     decimal.Decimal `json:"sgst_percent"`
	CgstPercent     decimal.Decimal `json:"cgst_percent"`
	IgstPercent     decimal.Decimal `json:"igst_percent"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	BalanceAmount   decimal.Decimal `json:"balance_amount"`
	Status          string          `json:"status"`
	Dc              string          `json:"dc"`
	OrderNumber     pgtype.Text     `json:"order_number"`
	OrderMode       pgtype.Text     `json:"order_mode"`
	Narration       pgtype.Text     `json:"narration"`
}

func (q *Queries) UpdateVoucher(ctx context.Context, arg UpdateVoucherParams) (Voucher, error) {
	row := q.db.QueryRow(ctx, updateVoucher,
		arg.ID,
		arg.VchNo,
		arg.InvoiceNumber,
		arg.AgainstInvoice,
		arg.PartyID,
		arg.AccountID,
		arg.TransactionDate,
		arg.BasicAmount,
		arg.TaxAmount,
		arg.TotalAmount,
		arg.SgstAmount,
		arg.CgstAmount,
		arg.IgstAmount,
		arg.SgstPercent,
		arg.CgstPercent,
		arg.IgstPercent,
		arg.PaidAmount,
		arg.BalanceAmount,
		arg.Status,
		arg.Dc,
		arg.OrderNumber,
		arg.OrderMode,
		arg.Narration,
	)
	var i Voucher
	err := row.Scan(
		&i.ID,
		&i.TransactionType,
		&i.VchNo,
		&i.InvoiceNumber,
		&i.AgainstInvoice,
		&i.PartyID,
		&i.AccountID,
		&i.TransactionDate,
		&i.BasicAmount,
		&i.TaxAmount,
		&i.TotalAmount,
		&i.SgstAmount,
		&i.CgstAmount,
		&i.IgstAmount,
		&i.SgstPercent,
		&i.CgstPercent,
		&i.IgstPercent,
		&i.PaidAmount,
		&i.BalanceAmount,
		&i.Status,
		&i.Dc,
		&i.OrderNumber,
		&i.OrderMode,
		&i.PdfPath,
		&i.Narration,
		&i.CreatedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
