// Package middleware holds the Echo middleware of the monitoria API: the auth
// gate, request ids, the request-scoped logger, New Relic tracing, rate
// limiting and the global error handler every failure ends in.
package middleware
