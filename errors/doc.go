// Package errors provides the application error type used across the
// greetings service: machine-readable codes, HTTP status mapping, retryable
// detection and the JSON error body returned to clients.
package errors
