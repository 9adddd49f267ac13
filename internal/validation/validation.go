// Package validation binds request payloads and runs their rule sets.
//
// Rules are go-playground/validator struct tags plus a few custom tags for
// what the HTTP contract needs (positive integer path ids, JSON documents).
// Failures come back as a 400 *errs.HTTPError listing every offending field.
package validation
