package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ID is a per-session category or transaction id.
//
// On input it accepts a JSON number (`1`) or a JSON string holding an integer (`"1"`).
// It is always written as a JSON number.
type ID int64

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s: must be an integer", data)
	}
	*id = ID(v)
	return nil
}

// ParseID parses a path segment such as the {id} in /transactions/{id}.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return ID(v), nil
}

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// Date is the free-form date text of a transaction. The API does not interpret it.
//
// On input a JSON number is kept as its literal text, so `1` and `"1"` are the same date.
type Date string

func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("invalid date: empty value")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Date(s)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*d = Date(n.String())
		return nil
	default:
		return fmt.Errorf("invalid date %s: must be a string or a number", data)
	}
}

// TransactionType tells whether money moved into (deposit) or out of (withdrawal) the account.
type TransactionType string

const (
	Deposit    TransactionType = "deposit"
	Withdrawal TransactionType = "withdrawal"
)

// ParseTransactionType returns the TransactionType named by s (exact, lower case).
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case Deposit, Withdrawal:
		return TransactionType(s), nil
	default:
		return "", fmt.Errorf("unknown transaction type %q (must be %q or %q)", s, Deposit, Withdrawal)
	}
}

// SessionInfo describes an issued session.
// ID is internal (log correlation, database key); Token is what clients send.
type SessionInfo struct {
	ID        uuid.UUID
	Token     SessionToken
	CreatedAt time.Time
}

// Category is a named label a transaction may be tagged with.
type Category struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Transaction is a dated monetary movement.
type Transaction struct {
	ID           ID              `json:"id"`
	Date         Date            `json:"date"`
	Amount       Amount          `json:"amount"`
	ExternalIBAN string          `json:"externalIBAN"`
	Type         TransactionType `json:"type"`
	CategoryID   *ID             `json:"categoryID,omitempty"`
}

// Clone returns a copy that shares no memory with t.
func (t Transaction) Clone() Transaction {
	if t.CategoryID != nil {
		id := *t.CategoryID
		t.CategoryID = &id
	}
	return t
}

// HasCategory reports whether t is tagged with category id.
func (t Transaction) HasCategory(id ID) bool {
	return t.CategoryID != nil && *t.CategoryID == id
}

// CategoryInput is the body of POST /categories and PUT /categories/{id}.
// Pointer fields are nil when the client omitted them (or sent null).
type CategoryInput struct {
	Name *string `json:"name"`
}

// TransactionInput is the body of POST /transactions and PUT /transactions/{id}.
type TransactionInput struct {
	Date         *Date   `json:"date"`
	Amount       *Amount `json:"amount"`
	ExternalIBAN *string `json:"externalIBAN"`
	Type         *string `json:"type"`
	CategoryID   *ID     `json:"categoryID"`
}

// TransactionQuery selects a window of a session's transactions.
//
// CategoryID (when set) keeps only transactions tagged with that category, Offset then skips that
// many leading entries and Limit (when set) caps the count. Order is ascending by id.
type TransactionQuery struct {
	Offset     int
	Limit      *int
	CategoryID *ID
}

// ApplyQuery filters, skips and caps txs (which must already be in ascending id order).
func ApplyQuery(txs []Transaction, q TransactionQuery) []Transaction {
	result := make([]Transaction, 0, len(txs))
	skipped := 0
	for _, t := range txs {
		if q.CategoryID != nil && !t.HasCategory(*q.CategoryID) {
			continue
		}
		if skipped < q.Offset {
			skipped++
			continue
		}
		if q.Limit != nil && len(result) >= *q.Limit {
			break
		}
		result = append(result, t.Clone())
	}
	return result
}
