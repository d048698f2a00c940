// Package client is the transport layer of hyperblog.
//
// # Overview
//
// The package provides:
//  1. The Client interface: listing, search, single entry, author lookup and
//     the registration calls (RequestCode, SignUp, CreateProfile).
//  2. HTTPClient, the JSON-over-HTTP implementation. Bodies may come wrapped
//     in a {"data": ...} envelope or bare; both are accepted.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the
//     SQLite profile store.
//
// # Error Handling
//
// Network failures match ErrUnavailable, unexpected statuses are *StatusError
// (401/403 also match ErrUnauthorized, 404 ErrNotFound) and payloads missing
// required fields match ErrMalformedResponse. SignUp and CreateProfile are the
// exception: their status codes are returned as data in models.StepResponse.
//
// Nothing is retried.
package client
