package api

// error_response.go maps ledger and request errors to the JSON error body returned to clients.

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/information-sharing-networks/ledger-demo/internal/ledger"
	"github.com/information-sharing-networks/ledger-demo/internal/logger"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {

	// The HTTP method used to make the request e.g. GET, POST, etc
	HTTPMethod string `json:"httpMethod" example:"POST"`

	// The URI that was requested
	RequestURI string `json:"requestUri" example:"/api/v1/transactions"`

	// The HTTP status code returned
	StatusCode int `json:"statusCode" example:"405"`

	// A standard short description corresponding to the HTTP status code
	StatusCodeText string `json:"statusCodeText" example:"Method Not Allowed"`

	// A description of what went wrong. Internal errors are not described.
	StatusCodeMessage string `json:"statusCodeMessage,omitempty" example:"amount must be greater than zero, got 0"`

	// The error code: unauthorized, not_found, validation, internal, rate_limit_exceeded, request_too_large or method_not_allowed
	ErrorCode string `json:"errorCode" example:"validation"`

	// The request id, also present in the server logs
	RequestID string `json:"requestId,omitempty"`

	// The DateTime corresponding to the error occurring
	ErrorDateTime string `json:"errorDateTime" example:"2024-05-01T10:00:00Z"`
}

// MapErrorToResponse maps ledger.LedgerError, RequestError or generic errors to an error response.
//
// The message is sanitized for internal errors (the full error is logged server-side by RespondWithError).
// The mapping also establishes the HTTP status code.
func MapErrorToResponse(err error, r *http.Request) *ErrorResponse {
	requestID := middleware.GetReqID(r.Context())

	var ledgerErr *ledger.LedgerError
	if errors.As(err, &ledgerErr) {
		return errorResponseFromLedger(ledgerErr, r, requestID)
	}

	var requestErr *RequestError
	if errors.As(err, &requestErr) {
		return errorResponseFromRequest(requestErr, r, requestID)
	}

	// fallback - not expected: return an internal error response and log the unmapped error
	reqLogger := logger.ContextRequestLogger(r.Context())
	reqLogger.Error("BUG: Unmapped error type in MapErrorToResponse",
		slog.String("error_type", fmt.Sprintf("%T", err)),
		slog.String("error", err.Error()),
		slog.String("request_id", requestID),
	)
	return newErrorResponse(r, requestID, http.StatusInternalServerError, string(ledger.ErrCodeInternal), "An internal error occurred")
}

func errorResponseFromLedger(err *ledger.LedgerError, r *http.Request, requestID string) *ErrorResponse {
	message := err.Message()

	var statusCode int
	switch err.Code() {
	case ledger.ErrCodeUnauthorized:
		statusCode = http.StatusUnauthorized
	case ledger.ErrCodeNotFound:
		statusCode = http.StatusNotFound
	case ledger.ErrCodeValidation:
		statusCode = http.StatusMethodNotAllowed
	default:
		statusCode = http.StatusInternalServerError
		message = "An internal error occurred"
	}

	return newErrorResponse(r, requestID, statusCode, string(err.Code()), message)
}

func errorResponseFromRequest(err *RequestError, r *http.Request, requestID string) *ErrorResponse {
	var statusCode int
	switch err.Code() {
	case ErrCodeRateLimitExceeded:
		statusCode = http.StatusTooManyRequests
	case ErrCodeRequestTooLarge:
		statusCode = http.StatusRequestEntityTooLarge
	case ErrCodeMethodNotAllowed:
		statusCode = http.StatusMethodNotAllowed
	default:
		statusCode = http.StatusInternalServerError
	}

	return newErrorResponse(r, requestID, statusCode, string(err.Code()), err.message)
}

func newErrorResponse(r *http.Request, requestID string, statusCode int, code, message string) *ErrorResponse {
	return &ErrorResponse{
		HTTPMethod:        r.Method,
		RequestURI:        r.RequestURI,
		StatusCode:        statusCode,
		StatusCodeText:    http.StatusText(statusCode),
		StatusCodeMessage: message,
		ErrorCode:         code,
		RequestID:         requestID,
		ErrorDateTime:     time.Now().UTC().Format(time.RFC3339),
	}
}
