package ledger

import (
	"fmt"
	"strings"
)

// CategoryLookup reports whether a category id exists in the current session.
// A non-nil error means the lookup itself failed (storage error), not that the id is unknown.
type CategoryLookup func(id ID) (bool, error)

// ValidateCategory checks a category body and returns the category it describes (without an id).
func ValidateCategory(in CategoryInput) (Category, error) {
	if in.Name == nil {
		return Category{}, NewValidationError("name is required")
	}
	if strings.TrimSpace(*in.Name) == "" {
		return Category{}, NewValidationError("name must not be empty")
	}
	if containsNUL(*in.Name) {
		return Category{}, NewValidationError("name must not contain NUL characters")
	}
	return Category{Name: *in.Name}, nil
}

// ValidateTransaction checks a transaction body field by field and returns the transaction it
// describes (without an id). The first failing field is reported.
//
// categoryExists is only consulted when the body carries a categoryID.
func ValidateTransaction(in TransactionInput, categoryExists CategoryLookup) (Transaction, error) {
	if in.Date == nil {
		return Transaction{}, NewValidationError("date is required")
	}
	if containsNUL(string(*in.Date)) {
		return Transaction{}, NewValidationError("date must not contain NUL characters")
	}
	if in.Amount == nil {
		return Transaction{}, NewValidationError("amount is required")
	}
	if !in.Amount.InRange() {
		return Transaction{}, NewValidationError(fmt.Sprintf(
			"amount out of range, at most %d integer and %d fractional digits are allowed",
			maxAmountIntegerDigits, maxAmountFractionDigits))
	}
	if !in.Amount.IsPositive() {
		return Transaction{}, NewValidationError(fmt.Sprintf("amount must be greater than zero, got %s", in.Amount))
	}
	if in.ExternalIBAN == nil {
		return Transaction{}, NewValidationError("externalIBAN is required")
	}
	if strings.TrimSpace(*in.ExternalIBAN) == "" {
		return Transaction{}, NewValidationError("externalIBAN must not be empty")
	}
	if containsNUL(*in.ExternalIBAN) {
		return Transaction{}, NewValidationError("externalIBAN must not contain NUL characters")
	}
	if in.Type == nil {
		return Transaction{}, NewValidationError("type is required")
	}
	txType, err := ParseTransactionType(*in.Type)
	if err != nil {
		return Transaction{}, NewValidationError(err.Error())
	}

	t := Transaction{
		Date:         *in.Date,
		Amount:       *in.Amount,
		ExternalIBAN: *in.ExternalIBAN,
		Type:         txType,
	}

	if in.CategoryID != nil {
		ok, err := categoryExists(*in.CategoryID)
		if err != nil {
			return Transaction{}, WrapInternalError(err, "failed to look up category")
		}
		if !ok {
			return Transaction{}, NewValidationError(fmt.Sprintf("category %d does not exist", *in.CategoryID))
		}
		id := *in.CategoryID
		t.CategoryID = &id
	}

	return t, nil
}

// PostgreSQL text columns cannot store U+0000, so it is refused for every backend.
func containsNUL(s string) bool {
	return strings.IndexByte(s, 0) >= 0
}
