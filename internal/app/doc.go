// Package app provides the main application logic for probing URLs through
// the logging transport chain. It builds the HTTP client with its decorators,
// executes the requests, and reports a per-URL summary.
package app
