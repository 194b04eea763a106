// Package observability wires OpenTelemetry tracing and metrics.
//
// The Component initialises OTLP/HTTP trace and metric exporters when enabled
// and shuts them down on stop. The W3C trace-context propagator is installed
// regardless, so trace context still flows through message headers.
//
//	metrics, _ := observability.NewMetrics(observability.Meter())
//	metrics.RecordPublished(ctx, "greetings", true)
//
//	observability.InjectHeaders(ctx, msg.Headers)
//	ctx = observability.ExtractHeaders(ctx, msg.Headers)
package observability
