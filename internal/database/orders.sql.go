package database

import (
	"context"

	"github.com/google/uuid"
)

const getOrderByNumber = `-- name: GetOrderByNumber :one
SELECT id, order_number, account_id, status, order_mode, created_at, updated_at FROM orders WHERE order_number = $1 FOR UPDATE
`

func (q *Queries) GetOrderByNumber(ctx context.Context, orderNumber string) (Order, error) {
	row := q.db.QueryRow(ctx, getOrderByNumber, orderNumber)
	var i Order
	err := row.Scan(
		&i.ID,
		&i.OrderNumber,
		&i.AccountID,
		&i.Status,
		&i.OrderMode,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const setOrderItemsInvoiced = `-- name: SetOrderItemsInvoiced :exec
UPDATE order_items SET invoiced = $2 WHERE order_id = $1
`

type SetOrderItemsInvoicedParams struct {
	OrderID  uuid.UUID `json:"order_id"`
	Invoiced bool      `json:"invoiced"`
}

func (q *Queries) SetOrderItemsInvoiced(ctx context.Context, arg SetOrderItemsInvoicedParams) error {
	_, err := q.db.Exec(ctx, setOrderItemsInvoiced, arg.OrderID, arg.Invoiced)
	return err
}

const setOrderStatus = `-- name: SetOrderStatus :exec
UPDATE orders SET status = $2, updated_at = now() WHERE id = $1
`

type SetOrderStatusParams struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

func (q *Queries) SetOrderStatus(ctx context.Context, arg SetOrderStatusParams) error {
	_, err := q.db.Exec(ctx, setOrderStatus, arg.ID, arg.Status)
	return err
}
