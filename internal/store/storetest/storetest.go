// Package storetest holds the behavioural tests every store.Backend must pass.
package storetest

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/information-sharing-networks/ledger-demo/internal/ledger"
	"github.com/information-sharing-networks/ledger-demo/internal/store"
)

// Run runs the suite. newBackend must return an empty backend; it is called once per subtest.
func Run(t *testing.T, newBackend func(t *testing.T) store.Backend) {
	tests := []struct {
		name string
		fn   func(t *testing.T, b store.Backend)
	}{
		{"Sessions", testSessions},
		{"Categories", testCategories},
		{"Transactions", testTransactions},
		{"PatchTransactionCategory", testPatchTransactionCategory},
		{"DeleteReferencedCategory", testDeleteReferencedCategory},
		{"ListTransactions", testListTransactions},
		{"ReturnedRecordsDoNotAliasState", testReturnedRecordsDoNotAliasState},
		{"SessionIsolation", testSessionIsolation},
		{"ConcurrentCreates", testConcurrentCreates},
		{"UnstorableInput", testUnstorableInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newBackend(t))
		})
	}
}

func StrPtr(s string) *string { return &s }

func IDPtr(n int64) *ledger.ID {
	id := ledger.ID(n)
	return &id
}

// TransactionInput returns a valid deposit body.
func TransactionInput(date, amount string, categoryID *ledger.ID) ledger.TransactionInput {
	d := ledger.Date(date)
	a := ledger.MustAmount(amount)
	return ledger.TransactionInput{
		Date:         &d,
		Amount:       &a,
		ExternalIBAN: StrPtr("testIBAN"),
		Type:         StrPtr("deposit"),
		CategoryID:   categoryID,
	}
}

func newSession(t *testing.T, b store.Backend) store.Session {
	t.Helper()
	ctx := context.Background()

	info, err := b.CreateSession(ctx)
	require.NoError(t, err)

	s, err := b.Session(ctx, info.Token)
	require.NoError(t, err)
	return s
}

func testSessions(t *testing.T, b store.Backend) {
	ctx := context.Background()

	first, err := b.CreateSession(ctx)
	require.NoError(t, err)
	second, err := b.CreateSession(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Positive(t, int64(first.Token))
	assert.LessOrEqual(t, int64(first.Token), int64(ledger.MaxSessionToken))

	s, err := b.Session(ctx, first.Token)
	require.NoError(t, err)
	assert.Equal(t, first.ID, s.Info().ID)

	_, err = b.Session(ctx, ledger.SessionToken(0))
	assert.True(t, ledger.IsUnauthorized(err), "unknown token should be unauthorized, got %v", err)

	require.NoError(t, b.Ping(ctx))
}

func testCategories(t *testing.T, b store.Backend) {
	ctx := context.Background()
	s := newSession(t, b)

	c1, err := s.CreateCategory(ctx, ledger.CategoryInput{Name: StrPtr("test1")})
	require.NoError(t, err)
	c2, err := s.CreateCategory(ctx, ledger.CategoryInput{Name: StrPtr("test2")})
	require.NoError(t, err)
	assert.Equal(t, ledger.ID(1), c1.ID)
	assert.Equal(t, ledger.ID(2), c2.ID)

	_, err = s.CreateCategory(ctx, ledger.CategoryInput{})
	assert.True(t, ledger.IsValidation(err))

	list, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ledger.Category{c1, c2}, list)

	updated, err := s.UpdateCategory(ctx, 2, ledger.CategoryInput{Name: StrPtr("renamed")})
	require.NoError(t, err)
	assert.Equal(t, ledger.Category{ID: 2, Name: "renamed"}, updated)

	got, err := s.GetCategory(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)

	// NotFound wins over validation on update
	_, err = s.UpdateCategory(ctx, 99, ledger.CategoryInput{})
	assert.True(t, ledger.IsNotFound(err))
	_, err = s.UpdateCategory(ctx, 1, ledger.CategoryInput{Name: StrPtr("")})
	assert.True(t, ledger.IsValidation(err))

	require.NoError(t, s.DeleteCategory(ctx, 2))
	assert.True(t, ledger.IsNotFound(s.DeleteCategory(ctx, 2)))
	_, err = s.GetCategory(ctx, 2)
	assert.True(t, ledger.IsNotFound(err))

	// ids are never reused
	c3, err := s.CreateCategory(ctx, ledger.CategoryInput{Name: StrPtr("test3")})
	require.NoError(t, err)
	assert.Equal(t, ledger.ID(3), c3.ID)

	for _, id := range []ledger.ID{0, -1} {
		_, err = s.GetCategory(ctx, id)
		assert.True(t, ledger.IsNotFound(err), "id %d", id)
	}
}

func testTransactions(t *testing.T, b store.Backend) {
	ctx := context.Background()
	s := newSession(t, b)

	_, err := s.CreateCategory(ctx, ledger.CategoryInput{Name: StrPtr("test1")})
	require.NoError(t, err)

	t1, err := s.CreateTransaction(ctx, TransactionInput("0", "10", IDPtr(1)))
	require.NoError(t, err)
	t2, err := s.CreateTransaction(ctx, TransactionInput("1", "20.5", nil))
	require.NoError(t, err)
	assert.Equal(t, ledger.ID(1), t1.ID)
	assert.Equal(t, ledger.ID(2), t2.ID)
	assert.True(t, t1.HasCategory(1))
	assert.Nil(t, t2.CategoryID)

	_, err = s.CreateTransaction(ctx, TransactionInput("2", "0", nil))
	assert.True(t, ledger.IsValidation(err), "zero amount")
	_, err = s.CreateTransaction(ctx, TransactionInput("2", "5", IDPtr(7)))
	assert.True(t, ledger.IsValidation(err), "unknown category on create")

	// failed creates do not consume ids
	t3, err := s.CreateTransaction(ctx, TransactionInput("2", "5", nil))
	require.NoError(t, err)
	assert.Equal(t, ledger.ID(3), t3.ID)

	got, err := s.GetTransaction(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, ledger.Date("1"), got.Date)
	assert.True(t, got.Amount.Equal(ledger.MustAmount("20.5")), "amount = %s", got.Amount)
	assert.Equal(t, "testIBAN", got.ExternalIBAN)
	assert.Equal(t, ledger.Deposit, got.Type)

	// full update replaces every field, including clearing the category
	updated, err := s.UpdateTransaction(ctx, 1, TransactionInput("9", "999", nil))
	require.NoError(t, err)
	assert.Equal(t, ledger.ID(1), updated.ID)
	assert.Equal(t, ledger.Date("9"), updated.Date)
	assert.Equal(t, "999.0", updated.Amount.String())
	assert.Nil(t, updated.CategoryID)

	_, err = s.UpdateTransaction(ctx, 42, ledger.TransactionInput{})
	assert.True(t, ledger.IsNotFound(err), "NotFound before validation")
	_, err = s.UpdateTransaction(ctx, 1, ledger.TransactionInput{})
	assert.True(t, ledger.IsValidation(err))

	require.NoError(t, s.DeleteTransaction(ctx, 3))
	assert.True(t, ledger.IsNotFound(s.DeleteTransaction(ctx, 3)))
	_, err = s.GetTransaction(ctx, 3)
	assert.True(t, ledger.IsNotFound(err))
	_, err = s.UpdateTransaction(ctx, 3, TransactionInput("x", "1", nil))
	assert.True(t, ledger.IsNotFound(err))

	t4, err := s.CreateTransaction(ctx, TransactionInput("4", "1", nil))
	require.NoError(t, err)
	assert.Equal(t, ledger.ID(4), t4.ID, "deleted ids are not reused")
}

func testPatchTransactionCategory(t *testing.T, b store.Backend) {
	ctx := context.Background()
	s := newSession(t, b)

	_, err := s.CreateCategory(ctx, ledger.CategoryInput{Name: StrPtr("test1")})
	require.NoError(t, err)
	_, err = s.CreateTransaction(ctx, TransactionInput("0", "10", nil))
	require.NoError(t, err)

	patched, err := s.PatchTransactionCategory(ctx, 1, 1)
	require.NoError(t, err)
	assert.True(t, patched.HasCategory(1))
	assert.Equal(t, ledger.Date("0"), patched.Date)

	// unknown category is NotFound on patch (it is a validation failure on create)
	_, err = s.PatchTransactionCategory(ctx, 1, 5)
	assert.True(t, ledger.IsNotFound(err))
	_, err = s.PatchTransactionCategory(ctx, 5, 1)
	assert.True(t, ledger.IsNotFound(err))

	got, err := s.GetTransaction(ctx, 1)
	require.NoError(t, err)
	assert.True(t, got.HasCategory(1), "failed patch must not change the record")
}

func testDeleteReferencedCategory(t *testing.T, b store.Backend) {
	ctx := context.Background()
	s := newSession(t, b)

	_, err := s.CreateCategory(ctx, ledger.CategoryInput{Name: StrPtr("keep")})
	require.NoError(t, err)
	_, err = s.CreateCategory(ctx, ledger.CategoryInput{Name: StrPtr("drop")})
	require.NoError(t, err)

	_, err = s.CreateTransaction(ctx, TransactionInput("0", "1", IDPtr(2)))
	require.NoError(t, err)
	_, err = s.CreateTransaction(ctx, TransactionInput("1", "1", IDPtr(1)))
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory(ctx, 2))

	first, err := s.GetTransaction(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, first.CategoryID)

	second, err := s.GetTransaction(ctx, 2)
	require.NoError(t, err)
	assert.True(t, second.HasCategory(1))

	filtered, err := s.ListTransactions(ctx, ledger.TransactionQuery{CategoryID: IDPtr(2)})
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func testListTransactions(t *testing.T, b store.Backend) {
	ctx := context.Background()
	s := newSession(t, b)

	_, err := s.CreateCategory(ctx, ledger.CategoryInput{Name: StrPtr("test1")})
	require.NoError(t, err)
	for i := range 6 {
		var cat *ledger.ID
		if i%2 == 0 {
			cat = IDPtr(1)
		}
		_, err := s.CreateTransaction(ctx, TransactionInput("d", "1", cat))
		require.NoError(t, err)
	}
	require.NoError(t, s.DeleteTransaction(ctx, 3))

	two, zero := 2, 0
	tests := []struct {
		name  string
		query ledger.TransactionQuery
		want  []ledger.ID
	}{
		{"all", ledger.TransactionQuery{}, []ledger.ID{1, 2, 4, 5, 6}},
		{"offset", ledger.TransactionQuery{Offset: 1}, []ledger.ID{2, 4, 5, 6}},
		{"offset and limit", ledger.TransactionQuery{Offset: 1, Limit: &two}, []ledger.ID{2, 4}},
		{"zero limit", ledger.TransactionQuery{Limit: &zero}, []ledger.ID{}},
		{"offset past end", ledger.TransactionQuery{Offset: 10}, []ledger.ID{}},
		{"category", ledger.TransactionQuery{CategoryID: IDPtr(1)}, []ledger.ID{1, 5}},
		{"category offset", ledger.TransactionQuery{CategoryID: IDPtr(1), Offset: 1}, []ledger.ID{5}},
		{"unknown category", ledger.TransactionQuery{CategoryID: IDPtr(9)}, []ledger.ID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListTransactions(ctx, tt.query)
			require.NoError(t, err)

			ids := make([]ledger.ID, 0, len(got))
			for _, tx := range got {
				ids = append(ids, tx.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func testReturnedRecordsDoNotAliasState(t *testing.T, b store.Backend) {
	ctx := context.Background()
	s := newSession(t, b)

	_, err := s.CreateCategory(ctx, ledger.CategoryInput{Name: StrPtr("test1")})
	require.NoError(t, err)
	created, err := s.CreateTransaction(ctx, TransactionInput("0", "1", IDPtr(1)))
	require.NoError(t, err)

	*created.CategoryID = 77

	got, err := s.GetTransaction(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.HasCategory(1))
}

func testSessionIsolation(t *testing.T, b store.Backend) {
	ctx := context.Background()
	a := newSession(t, b)
	other := newSession(t, b)

	_, err := a.CreateCategory(ctx, ledger.CategoryInput{Name: StrPtr("only in a")})
	require.NoError(t, err)
	_, err = a.CreateTransaction(ctx, TransactionInput("0", "1", IDPtr(1)))
	require.NoError(t, err)

	_, err = other.GetCategory(ctx, 1)
	assert.True(t, ledger.IsNotFound(err))
	_, err = other.GetTransaction(ctx, 1)
	assert.True(t, ledger.IsNotFound(err))
	assert.True(t, ledger.IsNotFound(other.DeleteCategory(ctx, 1)))

	list, err := other.ListTransactions(ctx, ledger.TransactionQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)

	// a category id from another session does not validate
	_, err = other.CreateTransaction(ctx, TransactionInput("0", "1", IDPtr(1)))
	assert.True(t, ledger.IsValidation(err))

	// each session has its own id sequence
	c, err := other.CreateCategory(ctx, ledger.CategoryInput{Name: StrPtr("first in other")})
	require.NoError(t, err)
	assert.Equal(t, ledger.ID(1), c.ID)

	// and the first session is untouched
	got, err := a.GetCategory(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "only in a", got.Name)
}

func testConcurrentCreates(t *testing.T, b store.Backend) {
	ctx := context.Background()
	s := newSession(t, b)

	const n = 50
	var wg sync.WaitGroup
	ids := make(chan ledger.ID, n)

	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx, err := s.CreateTransaction(ctx, TransactionInput("0", "1", nil))
			if err != nil {
				t.Errorf("create failed: %v", err)
				return
			}
			ids <- tx.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[ledger.ID]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	for id := ledger.ID(1); id <= n; id++ {
		assert.True(t, seen[id], "missing id %d", id)
	}
}

// testUnstorableInput covers bodies that are well-formed JSON but that a backend could not store
// or render: NUL characters in text and amounts far outside the supported precision.
func testUnstorableInput(t *testing.T, b store.Backend) {
	ctx := context.Background()
	s := newSession(t, b)

	_, err := s.CreateCategory(ctx, ledger.CategoryInput{Name: StrPtr("food\x00")})
	assert.True(t, ledger.IsValidation(err), "NUL in name: %v", err)

	c, err := s.CreateCategory(ctx, ledger.CategoryInput{Name: StrPtr("food")})
	require.NoError(t, err)
	_, err = s.UpdateCategory(ctx, c.ID, ledger.CategoryInput{Name: StrPtr("\x00")})
	assert.True(t, ledger.IsValidation(err), "NUL in name on update: %v", err)

	nulIBAN := TransactionInput("0", "10", nil)
	nulIBAN.ExternalIBAN = StrPtr("NL\x0001")
	_, err = s.CreateTransaction(ctx, nulIBAN)
	assert.True(t, ledger.IsValidation(err), "NUL in externalIBAN: %v", err)

	_, err = s.CreateTransaction(ctx, TransactionInput("0\x00", "10", nil))
	assert.True(t, ledger.IsValidation(err), "NUL in date: %v", err)

	for _, amount := range []string{"1e2000000000", "1e-40", "123456789012345678901"} {
		_, err = s.CreateTransaction(ctx, TransactionInput("0", amount, nil))
		assert.True(t, ledger.IsValidation(err), "amount %s: %v", amount, err)
	}

	tx, err := s.CreateTransaction(ctx, TransactionInput("0", "10", nil))
	require.NoError(t, err)
	assert.Equal(t, ledger.ID(1), tx.ID, "rejected bodies do not consume ids")

	got, err := s.GetCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "food", got.Name)
}
