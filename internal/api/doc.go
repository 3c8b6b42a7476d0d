// Package api maps ledger errors to HTTP error responses and writes JSON responses.
//
// Status codes used by the API:
//   - 401 unauthorized (missing, malformed, unknown or expired session token)
//   - 404 not found
//   - 405 validation failure (kept for compatibility with existing clients)
//   - 413 request body too large
//   - 429 rate limit exceeded
//   - 500 internal error
package api
