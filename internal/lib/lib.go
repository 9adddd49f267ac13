// Package lib holds the integrations that do not belong to a layer: the
// Asynq job worker and the Resend e-mail client.
package lib
