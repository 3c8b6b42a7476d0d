// Package services selects and builds the storage backend the ledger server runs on.
//
// STORE_BACKEND=memory keeps every session in process memory (lost on restart).
// STORE_BACKEND=postgres connects to DATABASE_URL, applies the embedded migrations and stores
// sessions, categories and transactions in PostgreSQL.
package services
