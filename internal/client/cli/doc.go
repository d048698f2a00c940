// Package cli provides the hyperblog command-line client.
//
// NewRootCmd builds a cobra command tree: list, search and show read the
// blog; register runs the two-step registration interactively; whoami and
// logout manage the profile remembered in the local database; shell starts
// a REPL over the same commands; version prints build information.
//
// Every command builds an App from the loaded config (see package config),
// runs, and closes it.
package cli
