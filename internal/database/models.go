package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type Account struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	AccountType  string          `json:"account_type"`
	Phone        pgtype.Text     `json:"phone"`
	Email        pgtype.Text     `json:"email"`
	Gstin        pgtype.Text     `json:"gstin"`
	Address      pgtype.Text     `json:"address"`
	UnpaidAmount decimal.Decimal `json:"unpaid_amount"`
	Score        pgtype.Int4     `json:"score"`
	ScoreTier    pgtype.Text     `json:"score_tier"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type Batch struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	BatchNumber string          `json:"batch_number"`
	OpeningQty  decimal.Decimal `json:"opening_qty"`
	Quantity    decimal.Decimal `json:"quantity"`
	StockIn     decimal.Decimal `json:"stock_in"`
	StockOut    decimal.Decimal `json:"stock_out"`
	MfgDate     pgtype.Date     `json:"mfg_date"`
	ExpDate     pgtype.Date     `json:"exp_date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Order struct {
	ID          uuid.UUID   `json:"id"`
	OrderNumber string      `json:"order_number"`
	AccountID   pgtype.UUID `json:"account_id"`
	Status      string      `json:"status"`
	OrderMode   string      `json:"order_mode"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Invoiced  bool            `json:"invoiced"`
}

type Product struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Sku           pgtype.Text     `json:"sku"`
	Unit          string          `json:"unit"`
	Keywords      string          `json:"keywords"`
	MaintainBatch bool            `json:"maintain_batch"`
	OpeningStock  decimal.Decimal `json:"opening_stock"`
	StockIn       decimal.Decimal `json:"stock_in"`
	StockOut      decimal.Decimal `json:"stock_out"`
	Balance       decimal.Decimal `json:"balance"`
	GstPercent    decimal.Decimal `json:"gst_percent"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"hashed_password"`
	FullName       string    `json:"full_name"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Voucher struct {
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
}

type VoucherDetail struct {
	ID        uuid.UUID       `json:"id"`
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
	CreatedAt time.Time       `json:"created_at"`
}
