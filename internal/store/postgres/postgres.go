// Package postgres is the store backend persisted in PostgreSQL.
//
// Each session row carries the two id counters. Every mutation runs in a transaction that first
// locks the session row, so mutations in one session are serialized and the counters stay gap free
// with respect to committed records. Reads are single statements.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/information-sharing-networks/ledger-demo/internal/database"
	"github.com/information-sharing-networks/ledger-demo/internal/ledger"
	"github.com/information-sharing-networks/ledger-demo/internal/store"
)

const (
	maxTokenAttempts = 16

	// uniqueViolation is the postgres error code for a unique constraint violation.
	uniqueViolation = "23505"
)

type Backend struct {
	pool    *pgxpool.Pool
	queries *database.Queries
	ttl     time.Duration
}

var _ store.Backend = (*Backend)(nil)

// New returns a backend using pool, which must already be migrated (see database.Migrate).
// Sessions older than ttl are rejected on lookup (ttl 0 disables expiry).
func New(pool *pgxpool.Pool, ttl time.Duration) *Backend {
	return &Backend{
		pool:    pool,
		queries: database.New(pool),
		ttl:     ttl,
	}
}

func (b *Backend) CreateSession(ctx context.Context) (ledger.SessionInfo, error) {
	for range maxTokenAttempts {
		token, err := ledger.NewSessionToken()
		if err != nil {
			return ledger.SessionInfo{}, ledger.WrapInternalError(err, "failed to create session")
		}

		row, err := b.queries.CreateSession(ctx, database.CreateSessionParams{
			ID:    uuid.New(),
			Token: int64(token),
		})
		if isUniqueViolation(err) {
			continue
		}
		if err != nil {
			return ledger.SessionInfo{}, ledger.WrapInternalError(err, "failed to create session")
		}
		return sessionInfo(row), nil
	}
	return ledger.SessionInfo{}, ledger.NewInternalError(fmt.Sprintf("no free session token after %d attempts", maxTokenAttempts))
}

func (b *Backend) Session(ctx context.Context, token ledger.SessionToken) (store.Session, error) {
	row, err := b.queries.GetSessionByToken(ctx, int64(token))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ledger.NewUnauthorizedError("unknown or expired session token")
	}
	if err != nil {
		return nil, ledger.WrapInternalError(err, "failed to look up session")
	}

	info := sessionInfo(row)
	if b.ttl > 0 && time.Since(info.CreatedAt) >= b.ttl {
		return nil, ledger.NewUnauthorizedError("unknown or expired session token")
	}
	return &session{backend: b, info: info}, nil
}

func (b *Backend) ExpireSessions(ctx context.Context, cutoff time.Time) (int, error) {
	n, err := b.queries.DeleteSessionsCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return int(n), nil
}

func (b *Backend) Ping(ctx context.Context) error {
	if _, err := b.queries.IsDatabaseRunning(ctx); err != nil {
		return fmt.Errorf("database unavailable: %w", err)
	}
	return nil
}

func (b *Backend) Close() {
	b.pool.Close()
}

// inSessionTx runs fn in a transaction holding the session row lock.
// The transaction is rolled back when fn returns an error.
func (b *Backend) inSessionTx(ctx context.Context, sessionID uuid.UUID, fn func(q *database.Queries) error) error {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return ledger.WrapInternalError(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	q := b.queries.WithTx(tx)
	if _, err := q.LockSession(ctx, sessionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.NewUnauthorizedError("session expired")
		}
		return ledger.WrapInternalError(err, "failed to lock session")
	}

	if err := fn(q); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return ledger.WrapInternalError(err, "failed to commit transaction")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func sessionInfo(row database.Session) ledger.SessionInfo {
	return ledger.SessionInfo{
		ID:        row.ID,
		Token:     ledger.SessionToken(row.Token),
		CreatedAt: row.CreatedAt,
	}
}
