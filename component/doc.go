// Package component defines lifecycle-managed infrastructure pieces (HTTP
// server, Kafka client) and the registry that starts them in order and stops
// them in reverse.
package component
