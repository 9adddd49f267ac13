// Package handler is the HTTP layer of the monitoria API. Handlers receive a
// bound and validated request, call one service operation and map its result
// to a status code. Errors are never translated here; they travel unchanged
// to the global error handler.
package handler
