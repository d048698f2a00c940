// Package common contains constants and small helpers shared by the
// transport, cli and crypto packages.
package common

const (
	// RequestIDHeaderName carries a per-request UUID on every outbound API call.
	RequestIDHeaderName = "X-Request-ID"

	// AuthorizationHeaderName carries the session token issued by the signup step.
	AuthorizationHeaderName = "Authorization"

	BearerPrefix = "Bearer "
)
