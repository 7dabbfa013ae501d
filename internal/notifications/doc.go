// Package notifications publishes run outcomes to ntfy.
//
// A run that finishes posts a summary and a run that fails posts the error.
// With no topic configured the service is a no-op, so callers never check
// whether notifications are enabled.
package notifications
