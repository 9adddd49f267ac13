// Package model holds the domain entities and the request payloads the
// handlers bind and validate.
package model

// Actor is the authenticated caller of a request, as established by the auth
// gate. Role is the caller's Clerk organization role.
type Actor struct {
	UserID string
	Role   string
}
