// Package service holds the business rules of the monitoria API. Handlers
// call it with validated input and the authenticated actor; it answers with
// model types or an *errs.HTTPError that already carries the status the
// client should see.
package service
