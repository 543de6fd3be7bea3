package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const addAccountUnpaid = `-- name: AddAccountUnpaid :exec
UPDATE accounts SET unpaid_amount = unpaid_amount + $1::numeric, updated_at = now()
WHERE id = $2
`

type AddAccountUnpaidParams struct {
	Amount decimal.Decimal `json:"amount"`
	ID     uuid.UUID       `json:"id"`
}

func (q *Queries) AddAccountUnpaid(ctx context.Context, arg AddAccountUnpaidParams) error {
	_, err := q.db.Exec(ctx, addAccountUnpaid, arg.Amount, arg.ID)
	return err
}

const createAccount = `-- name: CreateAccount :one
INSERT INTO accounts (name, account_type, phone, email, gstin, address)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, name, account_type, phone, email, gstin, address, unpaid_amount, score, score_tier, is_active, created_at, updated_at
`

type CreateAccountParams struct {
	Name        string      `json:"name"`
	AccountType string      `json:"account_type"`
	Phone       pgtype.Text `json:"phone"`
	Email       pgtype.Text `json:"email"`
	Gstin       pgtype.Text `json:"gstin"`
	Address     pgtype.Text `json:"address"`
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (Account, error) {
	row := q.db.QueryRow(ctx, createAccount,
		arg.Name,
		arg.AccountType,
		arg.Phone,
		arg.Email,
		arg.Gstin,
		arg.Address,
	)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.AccountType,
		&i.Phone,
		&i.Email,
		&i.Gstin,
		&i.Address,
		&i.UnpaidAmount,
		&i.Score,
		&i.ScoreTier,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getAccount = `-- name: GetAccount :one
SELECT id, name, account_type, phone, email, gstin, address, unpaid_amount, score, score_tier, is_active, created_at, updated_at FROM accounts WHERE id = $1 AND is_active = true
`

func (q *Queries) GetAccount(ctx context.Context, id uuid.UUID) (Account, error) {
	row := q.db.QueryRow(ctx, getAccount, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.AccountType,
		&i.Phone,
		&i.Email,
		&i.Gstin,
		&i.Address,
		&i.UnpaidAmount,
		&i.Score,
		&i.ScoreTier,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listAccounts = `-- name: ListAccounts :many
SELECT id, name, account_type, phone, email, gstin, address, unpaid_amount, score, score_tier, is_active, created_at, updated_at FROM accounts
WHERE is_active = true
  AND ($3::text IS NULL OR account_type = $3::text)
  AND ($4::text IS NULL OR name ILIKE '%' || $4::text || '%' OR phone LIKE '%' || $4::text || '%')
ORDER BY name
LIMIT $1 OFFSET $2
`

type ListAccountsParams struct {
	Limit       int32       `json:"limit"`
	Offset      int32       `json:"offset"`
	AccountType pgtype.Text `json:"account_type"`
	Search      pgtype.Text `json:"search"`
}

func (q *Queries) ListAccounts(ctx context.Context, arg ListAccountsParams) ([]Account, error) {
	rows, err := q.db.Query(ctx, listAccounts,
		arg.Limit,
		arg.Offset,
		arg.AccountType,
		arg.Search,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Account{}
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.AccountType,
			&i.Phone,
			&i.Email,
			&i.Gstin,
			&i.Address,
			&i.UnpaidAmount,
			&i.Score,
			&i.ScoreTier,
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

const softDeleteAccount = `-- name: SoftDeleteAccount :one
UPDATE accounts SET is_active = false, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING id
`

func (q *Queries) SoftDeleteAccount(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, softDeleteAccount, id)
	err := row.Scan(&id)
	return id, err
}

const updateAccount = `-- name: UpdateAccount :one
UPDATE accounts
SET name = $2, account_type = $3, phone = $4, email = $5, gstin = $6, address = $7, updated_at = now()
WHERE id = $1 AND is_active = true
RETURNING id, name, account_type, phone, email, gstin, address, unpaid_amount, score, score_tier, is_active, created_at, updated_at
`

type UpdateAccountParams struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	AccountType string      `json:"account_type"`
	Phone       pgtype.Text `json:"phone"`
	Email       pgtype.Text `json:"email"`
	Gstin       pgtype.Text `json:"gstin"`
	Address     pgtype.Text `json:"address"`
}

func (q *Queries) UpdateAccount(ctx context.Context, arg UpdateAccountParams) (Account, error) {
	row := q.db.QueryRow(ctx, updateAccount,
		arg.ID,
		arg.Name,
		arg.AccountType,
		arg.Phone,
		arg.Email,
		arg.Gstin,
		arg.Address,
	)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.AccountType,
		&i.Phone,
		&i.Email,
		&i.Gstin,
		&i.Address,
		&i.UnpaidAmount,
		&i.Score,
		&i.ScoreTier,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
