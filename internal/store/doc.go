// Package store defines the session registry and the per-session category and transaction stores.
//
// A Backend issues sessions and resolves tokens. Every resource operation goes through the Session
// returned by the backend, so a client can only ever see the records created with its own token.
//
// Implementations:
//   - memory: process-local maps (default; state is lost on restart)
//   - postgres: pgx/v5 with goose migrations (see internal/store/postgres)
package store
