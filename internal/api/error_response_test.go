package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/information-sharing-networks/ledger-demo/internal/ledger"
)

func TestMapErrorToResponse(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"unauthorized", ledger.NewUnauthorizedError("missing session token"), http.StatusUnauthorized, "unauthorized", "missing session token"},
		{"not found", ledger.NewNotFoundError("category 3 not found"), http.StatusNotFound, "not_found", "category 3 not found"},
		{"validation", ledger.NewValidationError("date is required"), http.StatusMethodNotAllowed, "validation", "date is required"},
		{"wrapped validation", fmt.Errorf("decode: %w", ledger.WrapValidationError(errors.New("unexpected EOF"), "malformed JSON body")),
			http.StatusMethodNotAllowed, "validation", "malformed JSON body"},
		{"internal is sanitized", ledger.WrapInternalError(errors.New("dial tcp 10.0.0.1:5432"), "failed to list categories"),
			http.StatusInternalServerError, "internal", "An internal error occurred"},
		{"rate limit", NewRateLimitError("slow down"), http.StatusTooManyRequests, "rate_limit_exceeded", "slow down"},
		{"too large", NewRequestTooLargeError("too big"), http.StatusRequestEntityTooLarge, "request_too_large", "too big"},
		{"method not allowed", NewMethodNotAllowedError("PATCH is not supported here"), http.StatusMethodNotAllowed, "method_not_allowed", "PATCH is not supported here"},
		{"unmapped", errors.New("boom"), http.StatusInternalServerError, "internal", "An internal error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/categories", nil)
			resp := MapErrorToResponse(tt.err, req)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, http.StatusText(tt.wantStatus), resp.StatusCodeText)
			assert.Equal(t, tt.wantCode, resp.ErrorCode)
			assert.Equal(t, tt.wantMessage, resp.StatusCodeMessage)
			assert.Equal(t, "POST", resp.HTTPMethod)
			assert.NotEmpty(t, resp.ErrorDateTime)
		})
	}
}

func TestRespondWithError(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/transactions/9", nil)
	rr := httptest.NewRecorder()

	RespondWithError(rr, req, ledger.NewNotFoundError("transaction 9 not found"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "not_found", body.ErrorCode)
	assert.Equal(t, "/api/v1/transactions/9", body.RequestURI)
}

func TestRespondWithJSONPayload(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondWithJSONPayload(rr, http.StatusCreated, ledger.Category{ID: 1, Name: "test1"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"id":1,"name":"test1"}`, rr.Body.String())
}
