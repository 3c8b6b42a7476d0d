package handlers

// request.go decodes path ids, query parameters and JSON bodies into ledger types.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/information-sharing-networks/ledger-demo/internal/api"
	"github.com/information-sharing-networks/ledger-demo/internal/ledger"
	"github.com/information-sharing-networks/ledger-demo/internal/server/middleware"
	"github.com/information-sharing-networks/ledger-demo/internal/store"
)

// requestSession returns the session resolved by middleware.RequireSession.
func requestSession(r *http.Request) (store.Session, error) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		return nil, ledger.NewInternalError("route is missing the session middleware")
	}
	return s, nil
}

// pathID parses the {id} url param. An id that is not an integer cannot name a record, so it is NotFound.
func pathID(r *http.Request, resource string) (ledger.ID, error) {
	raw := chi.URLParam(r, "id")
	id, err := ledger.ParseID(raw)
	if err != nil {
		return 0, ledger.NewNotFoundError(fmt.Sprintf("%s %q not found", resource, raw))
	}
	return id, nil
}

// readBody reads the whole request body, mapping the size limit set by middleware.RequestSizeLimit to a 413.
func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, api.WrapRequestTooLargeError(err, fmt.Sprintf("Request body exceeds maximum allowed size (%d bytes)", maxBytesErr.Limit))
		}
		return nil, ledger.WrapValidationError(err, "failed to read request body")
	}
	return body, nil
}

// decodeJSON decodes a JSON request body into v. Malformed bodies are validation errors.
func decodeJSON(r *http.Request, v any) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return ledger.NewValidationError("request body is required")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return ledger.WrapValidationError(err, "malformed JSON body")
	}
	return nil
}

// decodeCategoryID decodes the body of PATCH /transactions/{id}/category.
//
// The body is the category id itself, either as a JSON number (3), a JSON string ("3") or an object
// ({"categoryID":3}). A body that does not name a category cannot resolve, so it is NotFound.
func decodeCategoryID(r *http.Request) (ledger.ID, error) {
	body, err := readBody(r)
	if err != nil {
		return 0, err
	}
	body = bytes.TrimSpace(body)

	if len(body) > 0 && body[0] == '{' {
		var wrapper struct {
			CategoryID *ledger.ID `json:"categoryID"`
		}
		if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.CategoryID != nil {
			return *wrapper.CategoryID, nil
		}
		return 0, ledger.NewNotFoundError("request body does not name a category")
	}

	var id ledger.ID
	if err := json.Unmarshal(body, &id); err != nil {
		return 0, ledger.NewNotFoundError(fmt.Sprintf("category %q not found", body))
	}
	return id, nil
}

// transactionQuery reads offset, limit and category from the query string.
// Missing, empty, non-numeric or negative values are ignored.
func transactionQuery(r *http.Request) ledger.TransactionQuery {
	values := r.URL.Query()
	var q ledger.TransactionQuery

	if n, ok := nonNegativeInt(values.Get("offset")); ok {
		q.Offset = n
	}
	if n, ok := nonNegativeInt(values.Get("limit")); ok {
		q.Limit = &n
	}
	if n, ok := nonNegativeInt(values.Get("category")); ok {
		id := ledger.ID(n)
		q.CategoryID = &id
	}
	return q
}

func nonNegativeInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
