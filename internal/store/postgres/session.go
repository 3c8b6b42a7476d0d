package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/information-sharing-networks/ledger-demo/internal/database"
	"github.com/information-sharing-networks/ledger-demo/internal/ledger"
	"github.com/information-sharing-networks/ledger-demo/internal/store"
)

type session struct {
	backend *Backend
	info    ledger.SessionInfo
}

var _ store.Session = (*session)(nil)

func (s *session) Info() ledger.SessionInfo { return s.info }

func categoryNotFound(id ledger.ID) error {
	return ledger.NewNotFoundError(fmt.Sprintf("category %d not found", id))
}

func transactionNotFound(id ledger.ID) error {
	return ledger.NewNotFoundError(fmt.Sprintf("transaction %d not found", id))
}

func (s *session) categoryLookup(ctx context.Context, q *database.Queries) ledger.CategoryLookup {
	return func(id ledger.ID) (bool, error) {
		return q.CategoryExists(ctx, database.CategoryExistsParams{SessionID: s.info.ID, ID: int64(id)})
	}
}

func (s *session) CreateCategory(ctx context.Context, in ledger.CategoryInput) (ledger.Category, error) {
	c, err := ledger.ValidateCategory(in)
	if err != nil {
		return ledger.Category{}, err
	}

	err = s.backend.inSessionTx(ctx, s.info.ID, func(q *database.Queries) error {
		id, err := q.NextCategoryID(ctx, s.info.ID)
		if err != nil {
			return ledger.WrapInternalError(err, "failed to allocate category id")
		}
		row, err := q.CreateCategory(ctx, database.CreateCategoryParams{
			SessionID: s.info.ID,
			ID:        id,
			Name:      c.Name,
		})
		if err != nil {
			return ledger.WrapInternalError(err, "failed to create category")
		}
		c = toCategory(row)
		return nil
	})
	return c, err
}

func (s *session) ListCategories(ctx context.Context) ([]ledger.Category, error) {
	rows, err := s.backend.queries.ListCategories(ctx, s.info.ID)
	if err != nil {
		return nil, ledger.WrapInternalError(err, "failed to list categories")
	}
	result := make([]ledger.Category, 0, len(rows))
	for _, row := range rows {
		result = append(result, toCategory(row))
	}
	return result, nil
}

func (s *session) GetCategory(ctx context.Context, id ledger.ID) (ledger.Category, error) {
	row, err := s.backend.queries.GetCategory(ctx, database.GetCategoryParams{SessionID: s.info.ID, ID: int64(id)})
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.Category{}, categoryNotFound(id)
	}
	if err != nil {
		return ledger.Category{}, ledger.WrapInternalError(err, "failed to get category")
	}
	return toCategory(row), nil
}

func (s *session) UpdateCategory(ctx context.Context, id ledger.ID, in ledger.CategoryInput) (ledger.Category, error) {
	var c ledger.Category
	err := s.backend.inSessionTx(ctx, s.info.ID, func(q *database.Queries) error {
		exists, err := q.CategoryExists(ctx, database.CategoryExistsParams{SessionID: s.info.ID, ID: int64(id)})
		if err != nil {
			return ledger.WrapInternalError(err, "failed to look up category")
		}
		if !exists {
			return categoryNotFound(id)
		}

		valid, err := ledger.ValidateCategory(in)
		if err != nil {
			return err
		}

		row, err := q.UpdateCategory(ctx, database.UpdateCategoryParams{
			SessionID: s.info.ID,
			ID:        int64(id),
			Name:      valid.Name,
		})
		if err != nil {
			return ledger.WrapInternalError(err, "failed to update category")
		}
		c = toCategory(row)
		return nil
	})
	return c, err
}

func (s *session) DeleteCategory(ctx context.Context, id ledger.ID) error {
	return s.backend.inSessionTx(ctx, s.info.ID, func(q *database.Queries) error {
		categoryID := int64(id)
		if err := q.ClearTransactionCategory(ctx, database.ClearTransactionCategoryParams{
			SessionID:  s.info.ID,
			CategoryID: &categoryID,
		}); err != nil {
			return ledger.WrapInternalError(err, "failed to clear category references")
		}

		n, err := q.DeleteCategory(ctx, database.DeleteCategoryParams{SessionID: s.info.ID, ID: categoryID})
		if err != nil {
			return ledger.WrapInternalError(err, "failed to delete category")
		}
		if n == 0 {
			return categoryNotFound(id)
		}
		return nil
	})
}

func (s *session) CreateTransaction(ctx context.Context, in ledger.TransactionInput) (ledger.Transaction, error) {
	var t ledger.Transaction
	err := s.backend.inSessionTx(ctx, s.info.ID, func(q *database.Queries) error {
		valid, err := ledger.ValidateTransaction(in, s.categoryLookup(ctx, q))
		if err != nil {
			return err
		}

		id, err := q.NextTransactionID(ctx, s.info.ID)
		if err != nil {
			return ledger.WrapInternalError(err, "failed to allocate transaction id")
		}

		row, err := q.CreateTransaction(ctx, database.CreateTransactionParams{
			SessionID:    s.info.ID,
			ID:           id,
			TxDate:       string(valid.Date),
			Amount:       valid.Amount.Decimal().String(),
			ExternalIban: valid.ExternalIBAN,
			Type:         string(valid.Type),
			CategoryID:   categoryParam(valid.CategoryID),
		})
		if err != nil {
			return ledger.WrapInternalError(err, "failed to create transaction")
		}
		t, err = toTransaction(row)
		return err
	})
	return t, err
}

func (s *session) ListTransactions(ctx context.Context, query ledger.TransactionQuery) ([]ledger.Transaction, error) {
	params := database.ListTransactionsParams{
		SessionID:  s.info.ID,
		CategoryID: categoryParam(query.CategoryID),
		RowOffset:  int64(query.Offset),
	}
	if query.Limit != nil {
		limit := int64(*query.Limit)
		params.RowLimit = &limit
	}

	rows, err := s.backend.queries.ListTransactions(ctx, params)
	if err != nil {
		return nil, ledger.WrapInternalError(err, "failed to list transactions")
	}

	result := make([]ledger.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := toTransaction(row)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, nil
}

func (s *session) GetTransaction(ctx context.Context, id ledger.ID) (ledger.Transaction, error) {
	row, err := s.backend.queries.GetTransaction(ctx, database.GetTransactionParams{SessionID: s.info.ID, ID: int64(id)})
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.Transaction{}, transactionNotFound(id)
	}
	if err != nil {
		return ledger.Transaction{}, ledger.WrapInternalError(err, "failed to get transaction")
	}
	return toTransaction(row)
}

func (s *session) UpdateTransaction(ctx context.Context, id ledger.ID, in ledger.TransactionInput) (ledger.Transaction, error) {
	var t ledger.Transaction
	err := s.backend.inSessionTx(ctx, s.info.ID, func(q *database.Queries) error {
		if _, err := q.GetTransaction(ctx, database.GetTransactionParams{SessionID: s.info.ID, ID: int64(id)}); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return transactionNotFound(id)
			}
			return ledger.WrapInternalError(err, "failed to get transaction")
		}

		valid, err := ledger.ValidateTransaction(in, s.categoryLookup(ctx, q))
		if err != nil {
			return err
		}

		row, err := q.UpdateTransaction(ctx, database.UpdateTransactionParams{
			SessionID:    s.info.ID,
			ID:           int64(id),
			TxDate:       string(valid.Date),
			Amount:       valid.Amount.Decimal().String(),
			ExternalIban: valid.ExternalIBAN,
			Type:         string(valid.Type),
			CategoryID:   categoryParam(valid.CategoryID),
		})
		if err != nil {
			return ledger.WrapInternalError(err, "failed to update transaction")
		}
		t, err = toTransaction(row)
		return err
	})
	return t, err
}

func (s *session) DeleteTransaction(ctx context.Context, id ledger.ID) error {
	return s.backend.inSessionTx(ctx, s.info.ID, func(q *database.Queries) error {
		n, err := q.DeleteTransaction(ctx, database.DeleteTransactionParams{SessionID: s.info.ID, ID: int64(id)})
		if err != nil {
			return ledger.WrapInternalError(err, "failed to delete transaction")
		}
		if n == 0 {
			return transactionNotFound(id)
		}
		return nil
	})
}

func (s *session) PatchTransactionCategory(ctx context.Context, id ledger.ID, categoryID ledger.ID) (ledger.Transaction, error) {
	var t ledger.Transaction
	err := s.backend.inSessionTx(ctx, s.info.ID, func(q *database.Queries) error {
		if _, err := q.GetTransaction(ctx, database.GetTransactionParams{SessionID: s.info.ID, ID: int64(id)}); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return transactionNotFound(id)
			}
			return ledger.WrapInternalError(err, "failed to get transaction")
		}

		exists, err := s.categoryLookup(ctx, q)(categoryID)
		if err != nil {
			return ledger.WrapInternalError(err, "failed to look up category")
		}
		if !exists {
			return categoryNotFound(categoryID)
		}

		row, err := q.SetTransactionCategory(ctx, database.SetTransactionCategoryParams{
			SessionID:  s.info.ID,
			ID:         int64(id),
			CategoryID: categoryParam(&categoryID),
		})
		if err != nil {
			return ledger.WrapInternalError(err, "failed to update transaction category")
		}
		t, err = toTransaction(row)
		return err
	})
	return t, err
}

func categoryParam(id *ledger.ID) *int64 {
	if id == nil {
		return nil
	}
	v := int64(*id)
	return &v
}

func toCategory(row database.Category) ledger.Category {
	return ledger.Category{ID: ledger.ID(row.ID), Name: row.Name}
}

func toTransaction(row database.Transaction) (ledger.Transaction, error) {
	amount, err := ledger.NewAmount(row.Amount)
	if err != nil {
		return ledger.Transaction{}, ledger.WrapInternalError(err, "stored amount is not a decimal")
	}
	t := ledger.Transaction{
		ID:           ledger.ID(row.ID),
		Date:         ledger.Date(row.TxDate),
		Amount:       amount,
		ExternalIBAN: row.ExternalIban,
		Type:         ledger.TransactionType(row.Type),
	}
	if row.CategoryID != nil {
		id := ledger.ID(*row.CategoryID)
		t.CategoryID = &id
	}
	return t, nil
}
