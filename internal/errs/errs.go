// Package errs defines the error shapes the API sends back to clients.
//
// Handlers and services return *HTTPError values; the global error handler
// serializes them as-is so every failure, from a missing field to a
// conflicting monitoria, reaches the client with the same JSON layout.
package errs
