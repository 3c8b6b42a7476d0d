package api

import "fmt"

// RequestErrorCode identifies failures raised by the HTTP layer itself (not by the ledger).
type RequestErrorCode string

const (
	// ErrCodeRateLimitExceeded is used when the rate limit is exceeded
	// - this is only used in the middleware
	ErrCodeRateLimitExceeded RequestErrorCode = "rate_limit_exceeded"

	// ErrCodeRequestTooLarge is used when the request body is too large
	ErrCodeRequestTooLarge RequestErrorCode = "request_too_large"

	// ErrCodeMethodNotAllowed is used by the router when the path exists but not for the method
	ErrCodeMethodNotAllowed RequestErrorCode = "method_not_allowed"
)

// RequestError represents a transport level failure.
type RequestError struct {
	code    RequestErrorCode
	message string
	wrapped error
}

func (e *RequestError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *RequestError) Code() RequestErrorCode { return e.code }
func (e *RequestError) Unwrap() error          { return e.wrapped }

func NewRateLimitError(msg string) error {
	return &RequestError{code: ErrCodeRateLimitExceeded, message: msg}
}

func NewRequestTooLargeError(msg string) error {
	return &RequestError{code: ErrCodeRequestTooLarge, message: msg}
}

func NewMethodNotAllowedError(msg string) error {
	return &RequestError{code: ErrCodeMethodNotAllowed, message: msg}
}

func WrapRequestTooLargeError(err error, msg string) error {
	return &RequestError{code: ErrCodeRequestTooLarge, message: msg, wrapped: err}
}
