// Package server provides the HTTP server for the ledger API.
//
// the server is configured through environment variables
// (see internal/config/config.go for details)
//
// Routes:
//   - GET /health/live, GET /health/ready, GET /version
//   - the ledger API under API_BASE_PATH (default /api/v1): /sessions, /categories and /transactions
//
// Every ledger route except /sessions requires the session token header (SESSION_HEADER).
//
// middleware is in internal/server/middleware, handlers in internal/server/handlers
package server
