package binding

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"

	"github.com/kbukum/greetings/kafka"
	"github.com/kbukum/greetings/logger"
	"github.com/kbukum/greetings/observability"
)

// OutputChannel publishes payloads to the destination of one binding.
type OutputChannel struct {
	name    string
	binding Binding
	sender  kafka.Sender
	metrics *observability.Metrics
	log     *logger.Logger
}

// NewOutputChannel returns the outbound channel for name. metrics may be nil.
func NewOutputChannel(cfg *Config, name string, sender kafka.Sender, metrics *observability.Metrics, log *logger.Logger) (*OutputChannel, error) {
	b, err := cfg.Lookup(name)
	if err != nil {
		return nil, err
	}
	return &OutputChannel{
		name:    name,
		binding: b,
		sender:  sender,
		metrics: metrics,
		log:     log.WithComponent("binding").WithFields(logger.Fields("channel", name)),
	}, nil
}

// Name returns the channel name.
func (o *OutputChannel) Name() string { return o.name }

// Destination returns the bound topic.
func (o *OutputChannel) Destination() string { return o.binding.Destination }

// Send encodes payload as JSON and publishes it to the bound destination. It
// reports whether the producer accepted the message; failures are logged.
func (o *OutputChannel) Send(ctx context.Context, payload any) bool {
	topic := o.binding.Destination
	ctx, span := observability.StartProducerSpan(ctx, topic)
	defer span.End()

	sent := o.send(ctx, topic, payload)
	if !sent {
		span.SetStatus(codes.Error, "send failed")
	}
	o.metrics.RecordPublished(ctx, topic, sent)
	return sent
}

func (o *OutputChannel) send(ctx context.Context, topic string, payload any) bool {
	value, err := json.Marshal(payload)
	if err != nil {
		o.log.Error("Failed to encode payload", logger.MergeWithError(logger.Fields(logger.FieldTopic, topic), err))
		return false
	}

	msg := kafka.Message{
		Topic: topic,
		Value: value,
		Headers: map[string]string{
			kafka.HeaderContentType: o.binding.ContentType,
			kafka.HeaderMessageID:   uuid.NewString(),
		},
	}
	observability.InjectHeaders(ctx, msg.Headers)

	if err := o.sender.Send(ctx, msg); err != nil {
		appErr := kafka.FromKafka(err, topic)
		o.log.WithContext(ctx).Error("Failed to send message", logger.MergeWithError(logger.Fields(
			logger.FieldTopic, topic,
			"code", string(appErr.Code),
			"retryable", appErr.Retryable,
		), err))
		return false
	}
	return true
}
