package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const createProduct = `-- name: CreateProduct :one
INSERT INTO products (name, sku, unit, keywords, maintain_batch, opening_stock, gst_percent, sale_price)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, name, sku, unit, keywords, maintain_batch, opening_stock, stock_in, stock_out, balance, gst_percent, sale_price, is_active, created_at, updated_at
`

type CreateProductParams struct {
	Name          string          `json:"name"`
	Sku           pgtype.Text     `json:"sku"`
	Unit          string          `json:"unit"`
	Keywords      string          `json:"keywords"`
	MaintainBatch bool            `json:"maintain_batch"`
	OpeningStock  decimal.Decimal `json:"opening_stock"`
	GstPercent    decimal.Decimal `json:"gst_percent"`
	SalePrice     decimal.Decimal `json:"sale_price"`
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, createProduct,
		arg.Name,
		arg.Sku,
		arg.Unit,
		arg.Keywords,
		arg.MaintainBatch,
		arg.OpeningStock,
		arg.GstPercent,
		arg.SalePrice,
	)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Sku,
		&i.Unit,
		&i.Keywords,
		&i.MaintainBatch,
		&i.OpeningStock,
		&i.StockIn,
		&i.StockOut,
		&i.Balance,
		&i.GstPercent,
		&i.SalePrice,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getProduct = `-- name: GetProduct :one
SELECT id, name, sku, unit, keywords, maintain_batch, opening_stock, stock_in, stock_out, balance, gst_percent, sale_price, is_active, created_at, updated_at FROM products WHERE id = $1
`

func (q *Queries) GetProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	row := q.db.QueryRow(ctx, getProduct, id)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Sku,
		&i.Unit,
		&i.Keywords,
		&i.MaintainBatch,
		&i.OpeningStock,
		&i.StockIn,
		&i.StockOut,
		&i.Balance,
		&i.GstPercent,
		&i.SalePrice,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listActiveProducts = `-- name: ListActiveProducts :many
SELECT id, name, sku, unit, keywords, maintain_batch, opening_stock, stock_in, stock_out, balance, gst_percent, sale_price, is_active, created_at, updated_at FROM products WHERE is_active = true ORDER BY name
`

func (q *Queries) ListActiveProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.Query(ctx, listActiveProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		var i Product
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Sku,
			&i.Unit,
			&i.Keywords,
			&i.MaintainBatch,
			&i.OpeningStock,
			&i.StockIn,
			&i.StockOut,
			&i.Balance,
			&i.GstPercent,
			&i.SalePrice,
			&i.IsActive,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const listProducts = `-- name: ListProducts :many
SELECT id, name, sku, unit, keywords, maintain_batch, opening_stock, stock_in, stock_out, balance, gst_percent, sale_price, is_active, created_at, updated_at FROM products
WHERE is_active = true
  AND ($3::text IS NULL OR name ILIKE '%' || $3::text || '%' OR sku ILIKE '%' || $3::text || '%')
ORDER BY name
LIMIT $1 OFFSET $2
`

type ListProductsParams struct {
	Limit  int32       `json:"limit"`
	Offset int32       `json:"offset"`
	Search pgtype.Text `json:"search"`
}

func (q *Queries) ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProducts, arg.Limit, arg.Offset, arg.Search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Product{}
	for rows.Next() {
		var i Product
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Sku,
			&i.Unit,
			&i.Keywords,
			&i.MaintainBatch,
			&i.OpeningStock,
			&i.StockIn,
			&i.StockOut,
			&i.Balance,
			&i.GstPercent,
			&i.SalePrice,
			&i.IsActive,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const refreshProductStock = `-- name: RefreshProductStock :exec
UPDATE products p
SET stock_in = s.stock_in, stock_out = s.stock_out, balance = s.balance, updated_at = now()
FROM (
    SELECT COALESCE(SUM(b.stock_in), 0)::numeric  AS stock_in,
           COALESCE(SUM(b.stock_out), 0)::numeric AS stock_out,
           COALESCE(SUM(b.quantity), 0)::numeric  AS balance
    FROM batches b
    WHERE b.product_id = $1
) s
WHERE p.id = $1
`

func (q *Queries) RefreshProductStock(ctx context.Context, productID uuid.UUID) error {
	_, err := q.db.Exec(ctx, refreshProductStock, productID)
	return err
}

const softDeleteProduct = `-- name: SoftDeleteProduct :one
UPDATE products SET is_active = false, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING id
`

func (q *Queries) SoftDeleteProduct(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, softDeleteProduct, id)
	err := row.Scan(&id)
	return id, err
}

const updateProduct = `-- name: UpdateProduct :one
UPDATE products
SET name = $2, sku = $3, unit = $4, keywords = $5, maintain_batch = $6, gst_percent = $7, sale_price = $8, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING id, name, sku, unit, keywords, maintain_batch, opening_stock, stock_in, stock_out, balance, gst_percent, sale_price, is_active, created_at, updated_at
`

type UpdateProductParams struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Sku           pgtype.Text     `json:"sku"`
	Unit          string          `json:"unit"`
	Keywords      string          `json:"keywords"`
	MaintainBatch bool            `json:"maintain_batch"`
	GstPercent    decimal.Decimal `json:"gst_percent"`
	SalePrice     decimal.Decimal `json:"sale_price"`
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, updateProduct,
		arg.ID,
		arg.Name,
		arg.Sku,
		arg.Unit,
		arg.Keywords,
		arg.MaintainBatch,
		arg.GstPercent,
		arg.SalePrice,
	)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Sku,
		&i.Unit,
		&i.Keywords,
		&i.MaintainBatch,
		&i.OpeningStock,
		&i.StockIn,
		&i.StockOut,
		&i.Balance,
		&i.GstPercent,
		&i.SalePrice,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
