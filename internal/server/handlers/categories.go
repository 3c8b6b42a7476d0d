package handlers

import (
	"log/slog"
	"net/http"

	"github.com/information-sharing-networks/ledger-demo/internal/api"
	"github.com/information-sharing-networks/ledger-demo/internal/ledger"
	"github.com/information-sharing-networks/ledger-demo/internal/logger"
)

// HandleListCategories godoc
//
//	@Summary		List categories
//	@Description	Returns every category of the session in creation order.
//	@Tags			Categories
//	@Produce		json
//	@Param			WWW_Authenticate	header		int	true	"session token"
//	@Success		200					{array}		ledger.Category
//	@Failure		401					{object}	api.ErrorResponse
//	@Router			/categories [get]
func HandleListCategories(w http.ResponseWriter, r *http.Request) {
	s, err := requestSession(r)
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}

	categories, err := s.ListCategories(r.Context())
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}
	api.RespondWithJSONPayload(w, http.StatusOK, categories)
}

// HandleCreateCategory godoc
//
//	@Summary		Create a category
//	@Tags			Categories
//	@Accept			json
//	@Produce		json
//	@Param			WWW_Authenticate	header		int						true	"session token"
//	@Param			category			body		ledger.CategoryInput	true	"category"
//	@Success		201					{object}	ledger.Category
//	@Failure		401					{object}	api.ErrorResponse
//	@Failure		405					{object}	api.ErrorResponse	"validation failure (name missing or blank, malformed JSON)"
//	@Router			/categories [post]
func HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	s, err := requestSession(r)
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}

	var in ledger.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		api.RespondWithError(w, r, err)
		return
	}

	c, err := s.CreateCategory(r.Context(), in)
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}

	logger.ContextWithLogAttrs(r.Context(), slog.Int64("category_id", int64(c.ID)))
	api.RespondWithJSONPayload(w, http.StatusCreated, c)
}

// HandleGetCategory godoc
//
//	@Summary	Get a category
//	@Tags		Categories
//	@Produce	json
//	@Param		WWW_Authenticate	header		int	true	"session token"
//	@Param		id					path		int	true	"category id"
//	@Success	200					{object}	ledger.Category
//	@Failure	401					{object}	api.ErrorResponse
//	@Failure	404					{object}	api.ErrorResponse
//	@Router		/categories/{id} [get]
func HandleGetCategory(w http.ResponseWriter, r *http.Request) {
	s, err := requestSession(r)
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}
	id, err := pathID(r, "category")
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}

	c, err := s.GetCategory(r.Context(), id)
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}
	api.RespondWithJSONPayload(w, http.StatusOK, c)
}

// HandleUpdateCategory godoc
//
//	@Summary		Replace a category
//	@Description	An unknown id is reported (404) before the body is validated (405).
//	@Tags			Categories
//	@Accept			json
//	@Produce		json
//	@Param			WWW_Authenticate	header		int						true	"session token"
//	@Param			id					path		int						true	"category id"
//	@Param			category			body		ledger.CategoryInput	true	"category"
//	@Success		200					{object}	ledger.Category
//	@Failure		401					{object}	api.ErrorResponse
//	@Failure		404					{object}	api.ErrorResponse
//	@Failure		405					{object}	api.ErrorResponse
//	@Router			/categories/{id} [put]
func HandleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	s, err := requestSession(r)
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}
	id, err := pathID(r, "category")
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}

	var in ledger.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		// a malformed body must not hide an unknown id
		if _, getErr := s.GetCategory(r.Context(), id); getErr != nil {
			err = getErr
		}
		api.RespondWithError(w, r, err)
		return
	}

	c, err := s.UpdateCategory(r.Context(), id, in)
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}
	api.RespondWithJSONPayload(w, http.StatusOK, c)
}

// HandleDeleteCategory godoc
//
//	@Summary		Delete a category
//	@Description	Transactions tagged with the category keep existing but lose their categoryID.
//	@Tags			Categories
//	@Param			WWW_Authenticate	header	int	true	"session token"
//	@Param			id					path	int	true	"category id"
//	@Success		204
//	@Failure		401	{object}	api.ErrorResponse
//	@Failure		404	{object}	api.ErrorResponse
//	@Router			/categories/{id} [delete]
func HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	s, err := requestSession(r)
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}
	id, err := pathID(r, "category")
	if err != nil {
		api.RespondWithError(w, r, err)
		return
	}

	if err := s.DeleteCategory(r.Context(), id); err != nil {
		api.RespondWithError(w, r, err)
		return
	}
	api.RespondWithStatusCodeOnly(w, http.StatusNoContent)
}
