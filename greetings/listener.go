package greetings

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"

	"github.com/kbukum/greetings/kafka"
	"github.com/kbukum/greetings/logger"
	"github.com/kbukum/greetings/observability"
)

// Listener logs every greeting delivered on the input channel.
type Listener struct {
	group   string
	metrics *observability.Metrics
	log     *logger.Logger
}

// NewListener returns a listener for the consumer group. metrics may be nil.
func NewListener(group string, metrics *observability.Metrics, log *logger.Logger) *Listener {
	return &Listener{group: group, metrics: metrics, log: log.WithComponent("greetings-listener")}
}

// Handle is a kafka.MessageHandler. A payload that is not a Greetings record
// is returned as an error; the consumer logs it and moves on.
func (l *Listener) Handle(ctx context.Context, msg kafka.Message) error {
	ctx, span := observability.StartConsumerSpan(ctx, msg.Headers, msg.Topic, l.group, msg.Partition, msg.Offset)
	defer span.End()

	var g Greetings
	if err := msg.UnmarshalValueJSON(&g); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return fmt.Errorf("decode greetings at %s/%d/%d: %w", msg.Topic, msg.Partition, msg.Offset, err)
	}
	l.metrics.RecordReceived(ctx, msg.Topic)

	r := Received{Greetings: g, Partition: msg.Partition, Offset: msg.Offset}
	l.log.WithContext(ctx).Info("Received greetings", logger.Fields(
		"greetings", r.String(),
		logger.FieldPartition, r.Partition,
		logger.FieldOffset, r.Offset,
	))
	return nil
}
