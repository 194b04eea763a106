package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Messaging span attribute keys.
const (
	AttrMessagingSystem      = "messaging.system"
	AttrMessagingDestination = "messaging.destination.name"
	AttrMessagingOperation   = "messaging.operation"
	AttrKafkaPartition       = "messaging.kafka.destination.partition"
	AttrKafkaOffset          = "messaging.kafka.message.offset"
	AttrKafkaConsumerGroup   = "messaging.kafka.consumer.group"
)

// InjectHeaders writes the trace context of ctx into headers.
func InjectHeaders(ctx context.Context, headers map[string]string) {
	if headers == nil {
		return
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(headers))
}

// ExtractHeaders returns ctx carrying the remote trace context found in headers.
func ExtractHeaders(ctx context.Context, headers map[string]string) context.Context {
	if len(headers) == 0 {
		return ctx
	}
	return otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(headers))
}

// StartProducerSpan starts a span for publishing to topic.
func StartProducerSpan(ctx context.Context, topic string) (context.Context, trace.Span) {
	return StartSpan(ctx, topic+" publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String(AttrMessagingSystem, "kafka"),
			attribute.String(AttrMessagingDestination, topic),
			attribute.String(AttrMessagingOperation, "publish"),
		),
	)
}

// StartConsumerSpan continues the trace carried in headers with a span for
// processing one delivered message.
func StartConsumerSpan(ctx context.Context, headers map[string]string, topic, group string, partition int, offset int64) (context.Context, trace.Span) {
	ctx = ExtractHeaders(ctx, headers)
	return StartSpan(ctx, topic+" process",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String(AttrMessagingSystem, "kafka"),
			attribute.String(AttrMessagingDestination, topic),
			attribute.String(AttrMessagingOperation, "process"),
			attribute.String(AttrKafkaConsumerGroup, group),
			attribute.Int(AttrKafkaPartition, partition),
			attribute.Int64(AttrKafkaOffset, offset),
		),
	)
}
