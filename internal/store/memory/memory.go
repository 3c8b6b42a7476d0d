// Package memory is the process-local store backend.
//
// The registry is a map of tokens behind a RWMutex. Each session has its own RWMutex guarding both
// collections and both id counters, so mutations in one session are serialized while other
// sessions proceed independently.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/information-sharing-networks/ledger-demo/internal/ledger"
	"github.com/information-sharing-networks/ledger-demo/internal/store"
)

// maxTokenAttempts bounds the retries on token collision.
const maxTokenAttempts = 16

type Backend struct {
	mu       sync.RWMutex
	sessions map[ledger.SessionToken]*session

	// ttl is the session lifetime; zero means sessions never expire.
	ttl time.Duration
	now func() time.Time
}

var _ store.Backend = (*Backend)(nil)

// New returns an empty backend. Sessions older than ttl are rejected on lookup (ttl 0 disables expiry).
func New(ttl time.Duration) *Backend {
	return &Backend{
		sessions: make(map[ledger.SessionToken]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (b *Backend) CreateSession(ctx context.Context) (ledger.SessionInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for range maxTokenAttempts {
		token, err := ledger.NewSessionToken()
		if err != nil {
			return ledger.SessionInfo{}, ledger.WrapInternalError(err, "failed to create session")
		}
		if _, exists := b.sessions[token]; exists {
			continue
		}
		s := newSession(ledger.SessionInfo{
			ID:        uuid.New(),
			Token:     token,
			CreatedAt: b.now().UTC(),
		})
		b.sessions[token] = s
		return s.info, nil
	}
	return ledger.SessionInfo{}, ledger.NewInternalError(fmt.Sprintf("no free session token after %d attempts", maxTokenAttempts))
}

func (b *Backend) Session(ctx context.Context, token ledger.SessionToken) (store.Session, error) {
	b.mu.RLock()
	s, ok := b.sessions[token]
	b.mu.RUnlock()

	if !ok || b.expired(s) {
		return nil, ledger.NewUnauthorizedError("unknown or expired session token")
	}
	return s, nil
}

func (b *Backend) ExpireSessions(ctx context.Context, cutoff time.Time) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := 0
	for token, s := range b.sessions {
		if s.info.CreatedAt.Before(cutoff) {
			delete(b.sessions, token)
			removed++
		}
	}
	return removed, nil
}

func (b *Backend) Ping(ctx context.Context) error { return nil }

func (b *Backend) Close() {}

func (b *Backend) expired(s *session) bool {
	return b.ttl > 0 && b.now().Sub(s.info.CreatedAt) >= b.ttl
}

type session struct {
	info ledger.SessionInfo

	mu                sync.RWMutex
	categories        map[ledger.ID]ledger.Category
	transactions      map[ledger.ID]ledger.Transaction
	lastCategoryID    ledger.ID
	lastTransactionID ledger.ID
}

var _ store.Session = (*session)(nil)

func newSession(info ledger.SessionInfo) *session {
	return &session{
		info:         info,
		categories:   make(map[ledger.ID]ledger.Category),
		transactions: make(map[ledger.ID]ledger.Transaction),
	}
}

func (s *session) Info() ledger.SessionInfo { return s.info }

// categoryExists must be called with s.mu held.
func (s *session) categoryExists(id ledger.ID) (bool, error) {
	_, ok := s.categories[id]
	return ok, nil
}

func categoryNotFound(id ledger.ID) error {
	return ledger.NewNotFoundError(fmt.Sprintf("category %d not found", id))
}

func transactionNotFound(id ledger.ID) error {
	return ledger.NewNotFoundError(fmt.Sprintf("transaction %d not found", id))
}

func (s *session) CreateCategory(ctx context.Context, in ledger.CategoryInput) (ledger.Category, error) {
	c, err := ledger.ValidateCategory(in)
	if err != nil {
		return ledger.Category{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastCategoryID++
	c.ID = s.lastCategoryID
	s.categories[c.ID] = c
	return c, nil
}

func (s *session) ListCategories(ctx context.Context) ([]ledger.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]ledger.Category, 0, len(s.categories))
	for _, id := range slices.Sorted(maps.Keys(s.categories)) {
		result = append(result, s.categories[id])
	}
	return result, nil
}

func (s *session) GetCategory(ctx context.Context, id ledger.ID) (ledger.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return ledger.Category{}, categoryNotFound(id)
	}
	return c, nil
}

func (s *session) UpdateCategory(ctx context.Context, id ledger.ID, in ledger.CategoryInput) (ledger.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return ledger.Category{}, categoryNotFound(id)
	}
	c, err := ledger.ValidateCategory(in)
	if err != nil {
		return ledger.Category{}, err
	}
	c.ID = id
	s.categories[id] = c
	return c, nil
}

func (s *session) DeleteCategory(ctx context.Context, id ledger.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return categoryNotFound(id)
	}
	delete(s.categories, id)

	for txID, t := range s.transactions {
		if t.HasCategory(id) {
			t.CategoryID = nil
			s.transactions[txID] = t
		}
	}
	return nil
}

func (s *session) CreateTransaction(ctx context.Context, in ledger.TransactionInput) (ledger.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := ledger.ValidateTransaction(in, s.categoryExists)
	if err != nil {
		return ledger.Transaction{}, err
	}

	s.lastTransactionID++
	t.ID = s.lastTransactionID
	s.transactions[t.ID] = t
	return t.Clone(), nil
}

func (s *session) ListTransactions(ctx context.Context, q ledger.TransactionQuery) ([]ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ordered := make([]ledger.Transaction, 0, len(s.transactions))
	for _, id := range slices.Sorted(maps.Keys(s.transactions)) {
		ordered = append(ordered, s.transactions[id])
	}
	return ledger.ApplyQuery(ordered, q), nil
}

func (s *session) GetTransaction(ctx context.Context, id ledger.ID) (ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transactions[id]
	if !ok {
		return ledger.Transaction{}, transactionNotFound(id)
	}
	return t.Clone(), nil
}

func (s *session) UpdateTransaction(ctx context.Context, id ledger.ID, in ledger.TransactionInput) (ledger.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[id]; !ok {
		return ledger.Transaction{}, transactionNotFound(id)
	}
	t, err := ledger.ValidateTransaction(in, s.categoryExists)
	if err != nil {
		return ledger.Transaction{}, err
	}
	t.ID = id
	s.transactions[id] = t
	return t.Clone(), nil
}

func (s *session) DeleteTransaction(ctx context.Context, id ledger.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[id]; !ok {
		return transactionNotFound(id)
	}
	delete(s.transactions, id)
	return nil
}

func (s *session) PatchTransactionCategory(ctx context.Context, id ledger.ID, categoryID ledger.ID) (ledger.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok {
		return ledger.Transaction{}, transactionNotFound(id)
	}
	if _, ok := s.categories[categoryID]; !ok {
		return ledger.Transaction{}, categoryNotFound(categoryID)
	}
	t.CategoryID = &categoryID
	s.transactions[id] = t
	return t.Clone(), nil
}
