package ledger

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a LedgerError. The HTTP layer maps each code to a status code.
type ErrorCode string

const (
	// ErrCodeUnauthorized is used when the session token is missing, malformed, unknown or expired.
	ErrCodeUnauthorized ErrorCode = "unauthorized"

	// ErrCodeNotFound is used when a category or transaction id does not resolve in the session
	// (never existed, belongs to another session, or was deleted).
	ErrCodeNotFound ErrorCode = "not_found"

	// ErrCodeValidation is used when a request body is malformed or a field fails validation.
	ErrCodeValidation ErrorCode = "validation"

	// ErrCodeInternal is used for storage failures and other unexpected conditions.
	ErrCodeInternal ErrorCode = "internal"
)

// LedgerError represents a structured error from the ledger domain.
type LedgerError struct {

	// code is the ledger error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *LedgerError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *LedgerError) Code() ErrorCode { return e.code }
func (e *LedgerError) Unwrap() error   { return e.wrapped }

// Message returns the message without the wrapped error text.
func (e *LedgerError) Message() string { return e.message }

// NewUnauthorizedError creates an error for a missing, malformed or unknown session token.
//
// The returned error will have code ErrCodeUnauthorized.
func NewUnauthorizedError(msg string) error {
	return &LedgerError{code: ErrCodeUnauthorized, message: msg}
}

// NewNotFoundError creates an error for a resource id that does not resolve in the session.
//
// The returned error will have code ErrCodeNotFound.
func NewNotFoundError(msg string) error {
	return &LedgerError{code: ErrCodeNotFound, message: msg}
}

// NewValidationError creates an error for a missing or invalid field.
//
// The returned error will have code ErrCodeValidation.
func NewValidationError(msg string) error {
	return &LedgerError{code: ErrCodeValidation, message: msg}
}

// WrapValidationError wraps an existing error (typically a JSON decoding error) as a validation error.
//
// The returned error will have code ErrCodeValidation.
func WrapValidationError(err error, msg string) error {
	return &LedgerError{code: ErrCodeValidation, message: msg, wrapped: err}
}

// NewInternalError creates an internal error for conditions that should not normally occur.
//
// The returned error will have code ErrCodeInternal.
func NewInternalError(msg string) error {
	return &LedgerError{code: ErrCodeInternal, message: msg}
}

// WrapInternalError wraps a storage or system error.
//
// The returned error will have code ErrCodeInternal.
func WrapInternalError(err error, msg string) error {
	return &LedgerError{code: ErrCodeInternal, message: msg, wrapped: err}
}

// CodeOf returns the code of the first LedgerError in err's chain, or ErrCodeInternal
// when err is not a LedgerError.
func CodeOf(err error) ErrorCode {
	var ledgerErr *LedgerError
	if errors.As(err, &ledgerErr) {
		return ledgerErr.Code()
	}
	return ErrCodeInternal
}

func IsUnauthorized(err error) bool { return err != nil && CodeOf(err) == ErrCodeUnauthorized }
func IsNotFound(err error) bool     { return err != nil && CodeOf(err) == ErrCodeNotFound }
func IsValidation(err error) bool   { return err != nil && CodeOf(err) == ErrCodeValidation }
