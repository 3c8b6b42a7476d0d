package handlers

import (
	"log/slog"
	"net/http"

	"github.com/information-sharing-networks/ledger-demo/internal/api"
	"github.com/information-sharing-networks/ledger-demo/internal/ledger"
	"github.com/information-sharing-networks/ledger-demo/internal/logger"
)

// HandleListTransactions godoc
//
//	@Summary		List transactions
//	@Description	Returns the session's transactions in ascending id order.
//	@Description
//	@Description	`category` keeps only transactions tagged with that category, `offset` then skips that many
//	@Description	entries and `limit` caps the count. Missing, non-numeric or negative values are ignored.
//	@Tags			Transactions
//	@Produce		json
//	@Param			WWW_Authenticate	header		int	true	"session token"
//	@Param			offset				query		int	false	"entries to skip"
//	@Param			limit				query		int	false	"maximum entries to return"
//	@Param			category			query		int	false	"category id filter"
//	@Success		200					{array}		ledger.Transaction
//	@Failure		401					{object}	api.ErrorResponse
//	@Router			/transactions [get]
func HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	s, err := requestSession(r)
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}

	txs, err := s.ListTransactions(r.Context(), transactionQuery(r))
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}
	api.RespondWithJSONPayload(w, http.StatusOK, txs)
}

// HandleCreateTransaction godoc
//
//	@Summary		Create a transaction
//	@Description	date, amount (> 0), externalIBAN and type (deposit or withdrawal) are required.
//	@Description	categoryID is optional and must name a category of the session.
//	@Tags			Transactions
//	@Accept			json
//	@Produce		json
//	@Param			WWW_Authenticate	header		int						true	"session token"
//	@Param			transaction			body		ledger.TransactionInput	true	"transaction"
//	@Success		201					{object}	ledger.Transaction
//	@Failure		401					{object}	api.ErrorResponse
//	@Failure		405					{object}	api.ErrorResponse	"validation failure"
//	@Router			/transactions [post]
func HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	s, err := requestSession(r)
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}

	var in ledger.TransactionInput
	if err := decodeJSON(r, &in); err != nil {
		api.RespondWithError(w, r, err)
		return
	}

	t, err := s.CreateTransaction(r.Context(), in)
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}

	logger.ContextWithLogAttrs(r.Context(), slog.Int64("transaction_id", int64(t.ID)))
	api.RespondWithJSONPayload(w, http.StatusCreated, t)
}

// HandleGetTransaction godoc
//
//	@Summary	Get a transaction
//	@Tags		Transactions
//	@Produce	json
//	@Param		WWW_Authenticate	header		int	true	"session token"
//	@Param		id					path		int	true	"transaction id"
//	@Success	200					{object}	ledger.Transaction
//	@Failure	401					{object}	api.ErrorResponse
//	@Failure	404					{object}	api.ErrorResponse
//	@Router		/transactions/{id} [get]
func HandleGetTransaction(w http.ResponseWriter, r *http.Request) {
	s, err := requestSession(r)
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}
	id, err := pathID(r, "transaction")
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}

	t, err := s.GetTransaction(r.Context(), id)
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}
	api.RespondWithJSONPayload(w, http.StatusOK, t)
}

// HandleUpdateTransaction godoc
//
//	@Summary		Replace a transaction
//	@Description	Every field is replaced. An unknown id is reported (404) before the body is validated (405).
//	@Tags			Transactions
//	@Accept			json
//	@Produce		json
//	@Param			WWW_Authenticate	header		int						true	"session token"
//	@Param			id					path		int						true	"transaction id"
//	@Param			transaction			body		ledger.TransactionInput	true	"transaction"
//	@Success		200					{object}	ledger.Transaction
//	@Failure		401					{object}	api.ErrorResponse
//	@Failure		404					{object}	api.ErrorResponse
//	@Failure		405					{object}	api.ErrorResponse
//	@Router			/transactions/{id} [put]
func HandleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	s, err := requestSession(r)
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}
	id, err := pathID(r, "transaction")
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}

	var in ledger.TransactionInput
	if err := decodeJSON(r, &in); err != nil {
		// a malformed body must not hide an unknown id
		if _, getErr := s.GetTransaction(r.Context(), id); getErr != nil {
			err = getErr
		}
		api.RespondWithError(w, r, err)
		return
	}

	t, err := s.UpdateTransaction(r.Context(), id, in)
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}
	api.RespondWithJSONPayload(w, http.StatusOK, t)
}

// HandleDeleteTransaction godoc
//
//	@Summary	Delete a transaction
//	@Tags		Transactions
//	@Param		WWW_Authenticate	header	int	true	"session token"
//	@Param		id					path	int	true	"transaction id"
//	@Success	204
//	@Failure	401	{object}	api.ErrorResponse
//	@Failure	404	{object}	api.ErrorResponse
//	@Router		/transactions/{id} [delete]
func HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	s, err := requestSession(r)
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}
	id, err := pathID(r, "transaction")
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}

	if err := s.DeleteTransaction(r.Context(), id); err != nil {
		api.RespondWithError(w, r, err)
		return
	}
	api.RespondWithStatusCodeOnly(w, http.StatusNoContent)
}

// HandlePatchTransactionCategory godoc
//
//	@Summary		Set the category of a transaction
//	@Description	The body is the category id as a bare JSON integer. Only categoryID changes.
//	@Description	An unknown transaction and an unknown category are both reported as 404.
//	@Tags			Transactions
//	@Accept			json
//	@Produce		json
//	@Param			WWW_Authenticate	header		int	true	"session token"
//	@Param			id					path		int	true	"transaction id"
//	@Param			categoryID			body		int	true	"category id"
//	@Success		200					{object}	ledger.Transaction
//	@Failure		401					{object}	api.ErrorResponse
//	@Failure		404					{object}	api.ErrorResponse
//	@Router			/transactions/{id}/category [patch]
func HandlePatchTransactionCategory(w http.ResponseWriter, r *http.Request) {
	s, err := requestSession(r)
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}
	id, err := pathID(r, "transaction")
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}

	categoryID, err := decodeCategoryID(r)
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}

	t, err := s.PatchTransactionCategory(r.Context(), id, categoryID)
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}

	logger.ContextWithLogAttrs(r.Context(),
		slog.Int64("transaction_id", int64(t.ID)),
		slog.Int64("category_id", int64(categoryID)),
	)
	api.RespondWithJSONPayload(w, http.StatusOK, t)
}
