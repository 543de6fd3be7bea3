package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const createOpeningBatch = `-- name: CreateOpeningBatch :one
INSERT INTO batches (product_id, batch_number, opening_qty, quantity, mfg_date, exp_date)
VALUES ($1, $2, $3, $3, $4, $5)
RETURNING id, product_id, batch_number, opening_qty, quantity, stock_in, stock_out, mfg_date, exp_date, created_at, updated_at
`

type CreateOpeningBatchParams struct {
	ProductID   uuid.UUID       `json:"product_id"`
	BatchNumber string          `json:"batch_number"`
	OpeningQty  decimal.Decimal `json:"opening_qty"`
	MfgDate     pgtype.Date     `json:"mfg_date"`
	ExpDate     pgtype.Date     `json:"exp_date"`
}

func (q *Queries) CreateOpeningBatch(ctx context.Context, arg CreateOpeningBatchParams) (Batch, error) {
	row := q.db.QueryRow(ctx, createOpeningBatch,
		arg.ProductID,
		arg.BatchNumber,
		arg.OpeningQty,
		arg.MfgDate,
		arg.ExpDate,
	)
	var i Batch
	err := row.Scan(
		&i.ID,
		&i.ProductID,
		&i.BatchNumber,
		&i.OpeningQty,
		&i.Quantity,
		&i.StockIn,
		&i.StockOut,
		&i.MfgDate,
		&i.ExpDate,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deductBatch = `-- name: DeductBatch :execrows
UPDATE batches
SET quantity = quantity - $1::numeric,
    stock_out = stock_out + $1::numeric,
    updated_at = now()
WHERE id = $2 AND quantity >= $1::numeric
`

type DeductBatchParams struct {
	Amount decimal.Decimal `json:"amount"`
	ID     uuid.UUID       `json:"id"`
}

func (q *Queries) DeductBatch(ctx context.Context, arg DeductBatchParams) (int64, error) {
	result, err := q.db.Exec(ctx, deductBatch, arg.Amount, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const ensureBatch = `-- name: EnsureBatch :exec
INSERT INTO batches (product_id, batch_number, mfg_date, exp_date)
VALUES ($1, $2, $3, $4)
ON CONFLICT (product_id, batch_number) DO NOTHING
`

type EnsureBatchParams struct {
	ProductID   uuid.UUID   `json:"product_id"`
	BatchNumber string      `json:"batch_number"`
	MfgDate     pgtype.Date `json:"mfg_date"`
	ExpDate     pgtype.Date `json:"exp_date"`
}

func (q *Queries) EnsureBatch(ctx context.Context, arg EnsureBatchParams) error {
	_, err := q.db.Exec(ctx, ensureBatch,
		arg.ProductID,
		arg.BatchNumber,
		arg.MfgDate,
		arg.ExpDate,
	)
	return err
}

const getBatchForUpdate = `-- name: GetBatchForUpdate :one
SELECT id, product_id, batch_number, opening_qty, quantity, stock_in, stock_out, mfg_date, exp_date, created_at, updated_at FROM batches WHERE product_id = $1 AND batch_number = $2 FOR UPDATE
`

type GetBatchForUpdateParams struct {
	ProductID   uuid.UUID `json:"product_id"`
	BatchNumber string    `json:"batch_number"`
}

func (q *Queries) GetBatchForUpdate(ctx context.Context, arg GetBatchForUpdateParams) (Batch, error) {
	row := q.db.QueryRow(ctx, getBatchForUpdate, arg.ProductID, arg.BatchNumber)
	var i Batch
	err := row.Scan(
		&i.ID,
		&i.ProductID,
		&i.BatchNumber,
		&i.OpeningQty,
		&i.Quantity,
		&i.StockIn,
		&i.StockOut,
		&i.MfgDate,
		&i.ExpDate,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listBatchesByProduct = `-- name: ListBatchesByProduct :many
SELECT id, product_id, batch_number, opening_qty, quantity, stock_in, stock_out, mfg_date, exp_date, created_at, updated_at FROM batches WHERE product_id = $1 ORDER BY created_at, id
`

func (q *Queries) ListBatchesByProduct(ctx context.Context, productID uuid.UUID) ([]Batch, error) {
	return q.queryBatches(ctx, listBatchesByProduct, productID)
}

const lockBatchesByCreated = `-- name: LockBatchesByCreated :many
SELECT id, product_id, batch_number, opening_qty, quantity, stock_in, stock_out, mfg_date, exp_date, created_at, updated_at FROM batches
WHERE product_id = $1 AND quantity > 0
ORDER BY created_at, id
FOR UPDATE
`

func (q *Queries) LockBatchesByCreated(ctx context.Context, productID uuid.UUID) ([]Batch, error) {
	return q.queryBatches(ctx, lockBatchesByCreated, productID)
}

const lockBatchesByMfgDate = `-- name: LockBatchesByMfgDate :many
SELECT id, product_id, batch_number, opening_qty, quantity, stock_in, stock_out, mfg_date, exp_date, created_at, updated_at FROM batches
WHERE product_id = $1 AND quantity > 0
ORDER BY mfg_date ASC NULLS LAST, created_at, id
FOR UPDATE
`

func (q *Queries) LockBatchesByMfgDate(ctx context.Context, productID uuid.UUID) ([]Batch, error) {
	return q.queryBatches(ctx, lockBatchesByMfgDate, productID)
}

func (q *Queries) queryBatches(ctx context.Context, query string, productID uuid.UUID) ([]Batch, error) {
	rows, err := q.db.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Batch{}
	for rows.Next() {
		var i Batch
		if err := rows.Scan(
			&i.ID,
			&i.ProductID,
			&i.BatchNumber,
			&i.OpeningQty,
			&i.Quantity,
			&i.StockIn,
			&i.StockOut,
			&i.MfgDate,
			&i.ExpDate,
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

const setBatchCounters = `-- name: SetBatchCounters :exec
UPDATE batches
SET quantity = $2, stock_in = $3, stock_out = $4, updated_at = now()
WHERE id = $1
`

type SetBatchCountersParams struct {
	ID       uuid.UUID       `json:"id"`
	Quantity decimal.Decimal `json:"quantity"`
	StockIn  decimal.Decimal `json:"stock_in"`
	StockOut decimal.Decimal `json:"stock_out"`
}

func (q *Queries) SetBatchCounters(ctx context.Context, arg SetBatchCountersParams) error {
	_, err := q.db.Exec(ctx, setBatchCounters,
		arg.ID,
		arg.Quantity,
		arg.StockIn,
		arg.StockOut,
	)
	return err
}
