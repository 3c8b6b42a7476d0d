// Package handlers provides the HTTP handlers of the ledger API
// (sessions, categories, transactions) and the infrastructure handlers (health, readiness, version).
//
// Resource handlers expect the session resolved by middleware.RequireSession in the request context.
package handlers
