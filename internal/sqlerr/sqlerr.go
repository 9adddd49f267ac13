// Package sqlerr turns PostgreSQL driver errors into API errors.
//
// A unique violation on the active-monitoria index becomes a 409, a broken
// foreign key a 400, a missing row a 404; everything else is a 500 whose
// details stay in the logs.
package sqlerr
