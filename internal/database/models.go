package database

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID                uuid.UUID `json:"id"`
	Token             int64     `json:"token"`
	CreatedAt         time.Time `json:"created_at"`
	LastCategoryID    int64     `json:"last_category_id"`
	LastTransactionID int64     `json:"last_transaction_id"`
}

type Category struct {
	SessionID uuid.UUID `json:"session_id"`
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
}

// Transaction.Amount is the numeric column rendered as text, so no precision is lost in transit.
type Transaction struct {
	SessionID    uuid.UUID `json:"session_id"`
	ID           int64     `json:"id"`
	TxDate       string    `json:"tx_date"`
	Amount       string    `json:"amount"`
	ExternalIban string    `json:"external_iban"`
	Type         string    `json:"type"`
	CategoryID   *int64    `json:"category_id"`
}
