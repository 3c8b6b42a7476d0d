// Package ledger holds the domain model of the finance API: sessions, categories and transactions,
// the request records clients send, and the validation rules applied before any mutation.
//
// **errors**
// Every failure the API can report to a client is a *LedgerError carrying one of four codes
// (unauthorized, not_found, validation, internal). The HTTP layer maps the code to a status
// (see internal/api); nothing in this package knows about HTTP.
//
// **ids**
// Category and transaction ids are per-session sequences starting at 1. They are assigned by the
// store, never by clients, and are never reused after a delete.
//
// **input leniency**
// Existing clients send `categoryID` as a JSON string and `date` as a JSON number in
// some requests. ID and Date accept both encodings on input and always emit a single canonical form.
package ledger
