package store

import (
	"context"
	"time"

	"github.com/information-sharing-networks/ledger-demo/internal/ledger"
)

// Backend is the session registry.
type Backend interface {
	// CreateSession issues a fresh token with an empty namespace.
	CreateSession(ctx context.Context) (ledger.SessionInfo, error)

	// Session resolves a token. Unknown or expired tokens return a ledger unauthorized error.
	Session(ctx context.Context, token ledger.SessionToken) (Session, error)

	// ExpireSessions removes every session created before cutoff and returns how many were removed.
	ExpireSessions(ctx context.Context, cutoff time.Time) (int, error)

	// Ping reports whether the backend can serve requests.
	Ping(ctx context.Context) error

	Close()
}

// Session is the resource namespace owned by one token.
//
// Errors returned by Session methods are ledger errors: NotFound for ids that do not resolve in this
// session, Validation for bodies that fail validation and Internal for storage failures.
// Records returned to callers never alias stored state.
type Session interface {
	Info() ledger.SessionInfo

	CategoryStore
	TransactionStore
}

// CategoryStore holds the categories of one session. Ids start at 1 and are never reused.
type CategoryStore interface {
	CreateCategory(ctx context.Context, in ledger.CategoryInput) (ledger.Category, error)

	// ListCategories returns all categories in creation order.
	ListCategories(ctx context.Context) ([]ledger.Category, error)

	GetCategory(ctx context.Context, id ledger.ID) (ledger.Category, error)

	// UpdateCategory replaces the name of an existing category. NotFound is reported before validation.
	UpdateCategory(ctx context.Context, id ledger.ID, in ledger.CategoryInput) (ledger.Category, error)

	// DeleteCategory removes the category and clears categoryID on every transaction that referenced it.
	DeleteCategory(ctx context.Context, id ledger.ID) error
}

// TransactionStore holds the transactions of one session. Ids start at 1 and are never reused.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, in ledger.TransactionInput) (ledger.Transaction, error)

	// ListTransactions returns transactions in ascending id order, filtered and windowed by q.
	ListTransactions(ctx context.Context, q ledger.TransactionQuery) ([]ledger.Transaction, error)

	GetTransaction(ctx context.Context, id ledger.ID) (ledger.Transaction, error)

	// UpdateTransaction replaces every field of an existing transaction. NotFound is reported before validation.
	UpdateTransaction(ctx context.Context, id ledger.ID, in ledger.TransactionInput) (ledger.Transaction, error)

	DeleteTransaction(ctx context.Context, id ledger.ID) error

	// PatchTransactionCategory sets only the categoryID of a transaction.
	// Both an unknown transaction and an unknown category are NotFound.
	PatchTransactionCategory(ctx context.Context, id ledger.ID, categoryID ledger.ID) (ledger.Transaction, error)
}
