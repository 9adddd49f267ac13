// Package repository holds the SQL of the service. Every method takes the
// request context and returns model types; no-rows errors are tagged with
// their table through sqlerr.WrapNoRows so the global error handler can name
// the missing entity.
package repository
