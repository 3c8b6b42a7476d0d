// source: ledger.sql

package database

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const isDatabaseRunning = `-- name: IsDatabaseRunning :one
SELECT true AS running
`

func (q *Queries) IsDatabaseRunning(ctx context.Context) (bool, error) {
	row := q.db.QueryRow(ctx, isDatabaseRunning)
	var running bool
	err := row.Scan(&running)
	return running, err
}

const createSession = `-- name: CreateSession :one
INSERT INTO sessions (id, token)
VALUES ($1, $2)
RETURNING id, token, created_at, last_category_id, last_transaction_id
`

type CreateSessionParams struct {
	ID    uuid.UUID `json:"id"`
	Token int64     `json:"token"`
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (Session, error) {
	row := q.db.QueryRow(ctx, createSession, arg.ID, arg.Token)
	var i Session
	err := row.Scan(
		&i.ID,
		&i.Token,
		&i.CreatedAt,
		&i.LastCategoryID,
		&i.LastTransactionID,
	)
	return i, err
}

const getSessionByToken = `-- name: GetSessionByToken :one
SELECT id, token, created_at, last_category_id, last_transaction_id
FROM sessions
WHERE token = $1
`

func (q *Queries) GetSessionByToken(ctx context.Context, token int64) (Session, error) {
	row := q.db.QueryRow(ctx, getSessionByToken, token)
	var i Session
	err := row.Scan(
		&i.ID,
		&i.Token,
		&i.CreatedAt,
		&i.LastCategoryID,
		&i.LastTransactionID,
	)
	return i, err
}

const lockSession = `-- name: LockSession :one
SELECT id, token, created_at, last_category_id, last_transaction_id
FROM sessions
WHERE id = $1
FOR UPDATE
`

func (q *Queries) LockSession(ctx context.Context, id uuid.UUID) (Session, error) {
	row := q.db.QueryRow(ctx, lockSession, id)
	var i Session
	err := row.Scan(
		&i.ID,
		&i.Token,
		&i.CreatedAt,
		&i.LastCategoryID,
		&i.LastTransactionID,
	)
	return i, err
}

const nextCategoryID = `-- name: NextCategoryID :one
UPDATE sessions SET last_category_id = last_category_id + 1
WHERE id = $1
RETURNING last_category_id
`

func (q *Queries) NextCategoryID(ctx context.Context, id uuid.UUID) (int64, error) {
	row := q.db.QueryRow(ctx, nextCategoryID, id)
	var last_category_id int64
	err := row.Scan(&last_category_id)
	return last_category_id, err
}

const nextTransactionID = `-- name: NextTransactionID :one
UPDATE sessions SET last_transaction_id = last_transaction_id + 1
WHERE id = $1
RETURNING last_transaction_id
`

func (q *Queries) NextTransactionID(ctx context.Context, id uuid.UUID) (int64, error) {
	row := q.db.QueryRow(ctx, nextTransactionID, id)
	var last_transaction_id int64
	err := row.Scan(&last_transaction_id)
	return last_transaction_id, err
}

const deleteSessionsCreatedBefore = `-- name: DeleteSessionsCreatedBefore :execrows
DELETE FROM sessions WHERE created_at < $1
`

func (q *Queries) DeleteSessionsCreatedBefore(ctx context.Context, createdAt time.Time) (int64, error) {
	result, err := q.db.Exec(ctx, deleteSessionsCreatedBefore, createdAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const createCategory = `-- name: CreateCategory :one
INSERT INTO categories (session_id, id, name)
VALUES ($1, $2, $3)
RETURNING session_id, id, name
`

type CreateCategoryParams struct {
	SessionID uuid.UUID `json:"session_id"`
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, createCategory, arg.SessionID, arg.ID, arg.Name)
	var i Category
	err := row.Scan(&i.SessionID, &i.ID, &i.Name)
	return i, err
}

const listCategories = `-- name: ListCategories :many
SELECT session_id, id, name FROM categories
WHERE session_id = $1
ORDER BY id
`

func (q *Queries) ListCategories(ctx context.Context, sessionID uuid.UUID) ([]Category, error) {
	rows, err := q.db.Query(ctx, listCategories, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Category{}
	for rows.Next() {
		var i Category
		if err := rows.Scan(&i.SessionID, &i.ID, &i.Name); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getCategory = `-- name: GetCategory :one
SELECT session_id, id, name FROM categories
WHERE session_id = $1 AND id = $2
`

type GetCategoryParams struct {
	SessionID uuid.UUID `json:"session_id"`
	ID        int64     `json:"id"`
}

func (q *Queries) GetCategory(ctx context.Context, arg GetCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, getCategory, arg.SessionID, arg.ID)
	var i Category
	err := row.Scan(&i.SessionID, &i.ID, &i.Name)
	return i, err
}

const categoryExists = `-- name: CategoryExists :one
SELECT EXISTS (SELECT 1 FROM categories WHERE session_id = $1 AND id = $2)
`

type CategoryExistsParams struct {
	SessionID uuid.UUID `json:"session_id"`
	ID        int64     `json:"id"`
}

func (q *Queries) CategoryExists(ctx context.Context, arg CategoryExistsParams) (bool, error) {
	row := q.db.QueryRow(ctx, categoryExists, arg.SessionID, arg.ID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const updateCategory = `-- name: UpdateCategory :one
UPDATE categories SET name = $3
WHERE session_id = $1 AND id = $2
RETURNING session_id, id, name
`

type UpdateCategoryParams struct {
	SessionID uuid.UUID `json:"session_id"`
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, updateCategory, arg.SessionID, arg.ID, arg.Name)
	var i Category
	err := row.Scan(&i.SessionID, &i.ID, &i.Name)
	return i, err
}

const deleteCategory = `-- name: DeleteCategory :execrows
DELETE FROM categories WHERE session_id = $1 AND id = $2
`

type DeleteCategoryParams struct {
	SessionID uuid.UUID `json:"session_id"`
	ID        int64     `json:"id"`
}

func (q *Queries) DeleteCategory(ctx context.Context, arg DeleteCategoryParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCategory, arg.SessionID, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const clearTransactionCategory = `-- name: ClearTransactionCategory :exec
UPDATE transactions SET category_id = NULL
WHERE session_id = $1 AND category_id = $2
`

type ClearTransactionCategoryParams struct {
	SessionID  uuid.UUID `json:"session_id"`
	CategoryID *int64    `json:"category_id"`
}

func (q *Queries) ClearTransactionCategory(ctx context.Context, arg ClearTransactionCategoryParams) error {
	_, err := q.db.Exec(ctx, clearTransactionCategory, arg.SessionID, arg.CategoryID)
	return err
}

const createTransaction = `-- name: CreateTransaction :one
INSERT INTO transactions (session_id, id, tx_date, amount, external_iban, type, category_id)
VALUES ($1, $2, $3, $4::numeric, $5, $6, $7)
RETURNING session_id, id, tx_date, amount::text, external_iban, type, category_id
`

type CreateTransactionParams struct {
	SessionID    uuid.UUID `json:"session_id"`
	ID           int64     `json:"id"`
	TxDate       string    `json:"tx_date"`
	Amount       string    `json:"amount"`
	ExternalIban string    `json:"external_iban"`
	Type         string    `json:"type"`
	CategoryID   *int64    `json:"category_id"`
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRow(ctx, createTransaction,
		arg.SessionID,
		arg.ID,
		arg.TxDate,
		arg.Amount,
		arg.ExternalIban,
		arg.Type,
		arg.CategoryID,
	)
	var i Transaction
	err := row.Scan(
		&i.SessionID,
		&i.ID,
		&i.TxDate,
		&i.Amount,
		&i.ExternalIban,
		&i.Type,
		&i.CategoryID,
	)
	return i, err
}

const listTransactions = `-- name: ListTransactions :many
SELECT session_id, id, tx_date, amount::text, external_iban, type, category_id
FROM transactions
WHERE session_id = $1
  AND ($2::bigint IS NULL OR category_id = $2::bigint)
ORDER BY id
OFFSET $3::bigint
LIMIT $4::bigint
`

type ListTransactionsParams struct {
	SessionID  uuid.UUID `json:"session_id"`
	CategoryID *int64    `json:"category_id"`
	RowOffset  int64     `json:"row_offset"`
	RowLimit   *int64    `json:"row_limit"`
}

// ListTransactions treats a nil RowLimit as no limit (LIMIT NULL).
func (q *Queries) ListTransactions(ctx context.Context, arg ListTransactionsParams) ([]Transaction, error) {
	rows, err := q.db.Query(ctx, listTransactions,
		arg.SessionID,
		arg.CategoryID,
		arg.RowOffset,
		arg.RowLimit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Transaction{}
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.SessionID,
			&i.ID,
			&i.TxDate,
			&i.Amount,
			&i.ExternalIban,
			&i.Type,
			&i.CategoryID,
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

const getTransaction = `-- name: GetTransaction :one
SELECT session_id, id, tx_date, amount::text, external_iban, type, category_id
FROM transactions
WHERE session_id = $1 AND id = $2
`

type GetTransactionParams struct {
	SessionID uuid.UUID `json:"session_id"`
	ID        int64     `json:"id"`
}

func (q *Queries) GetTransaction(ctx context.Context, arg GetTransactionParams) (Transaction, error) {
	row := q.db.QueryRow(ctx, getTransaction, arg.SessionID, arg.ID)
	var i Transaction
	err := row.Scan(
		&i.SessionID,
		&i.ID,
		&i.TxDate,
		&i.Amount,
		&i.ExternalIban,
		&i.Type,
		&i.CategoryID,
	)
	return i, err
}

const updateTransaction = `-- name: UpdateTransaction :one
UPDATE transactions
SET tx_date = $3, amount = $4::numeric, external_iban = $5, type = $6, category_id = $7
WHERE session_id = $1 AND id = $2
RETURNING session_id, id, tx_date, amount::text, external_iban, type, category_id
`

type UpdateTransactionParams struct {
	SessionID    uuid.UUID `json:"session_id"`
	ID           int64     `json:"id"`
	TxDate       string    `json:"tx_date"`
	Amount       string    `json:"amount"`
	ExternalIban string    `json:"external_iban"`
	Type         string    `json:"type"`
	CategoryID   *int64    `json:"category_id"`
}

func (q *Queries) UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) (Transaction, error) {
	row := q.db.QueryRow(ctx, updateTransaction,
		arg.SessionID,
		arg.ID,
		arg.TxDate,
		arg.Amount,
		arg.ExternalIban,
		arg.Type,
		arg.CategoryID,
	)
	var i Transaction
	err := row.Scan(
		&i.SessionID,
		&i.ID,
		&i.TxDate,
		&i.Amount,
		&i.ExternalIban,
		&i.Type,
		&i.CategoryID,
	)
	return i, err
}

const setTransactionCategory = `-- name: SetTransactionCategory :one
UPDATE transactions SET category_id = $3
WHERE session_id = $1 AND id = $2
RETURNING session_id, id, tx_date, amount::text, external_iban, type, category_id
`

type SetTransactionCategoryParams struct {
	SessionID  uuid.UUID `json:"session_id"`
	ID         int64     `json:"id"`
	CategoryID *int64    `json:"category_id"`
}

func (q *Queries) SetTransactionCategory(ctx context.Context, arg SetTransactionCategoryParams) (Transaction, error) {
	row := q.db.QueryRow(ctx, setTransactionCategory, arg.SessionID, arg.ID, arg.CategoryID)
	var i Transaction
	err := row.Scan(
		&i.SessionID,
		&i.ID,
		&i.TxDate,
		&i.Amount,
		&i.ExternalIban,
		&i.Type,
		&i.CategoryID,
	)
	return i, err
}

const deleteTransaction = `-- name: DeleteTransaction :execrows
DELETE FROM transactions WHERE session_id = $1 AND id = $2
`

type DeleteTransactionParams struct {
	SessionID uuid.UUID `json:"session_id"`
	ID        int64     `json:"id"`
}

func (q *Queries) DeleteTransaction(ctx context.Context, arg DeleteTransactionParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteTransaction, arg.SessionID, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
