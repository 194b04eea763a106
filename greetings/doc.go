// Package greetings implements the greetings relay: an HTTP handler that
// publishes a timestamped record on the greetings-out channel and a listener
// on greetings-in that logs each record with its partition and offset.
package greetings
