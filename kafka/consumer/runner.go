package consumer

import (
	"context"

	"github.com/kbukum/greetings/kafka"
)

// Runner binds a Consumer to its handler so kafka.Component can run it.
type Runner struct {
	consumer *Consumer
	handler  kafka.MessageHandler
}

var (
	_ kafka.ConsumerRunner = (*Runner)(nil)
	_ kafka.ConsumerStats  = (*Runner)(nil)
)

// AsRunner wraps c and h for kafka.Component.AddConsumer.
func AsRunner(c *Consumer, h kafka.MessageHandler) *Runner {
	return &Runner{consumer: c, handler: h}
}

// Consume runs the consume loop with the bound handler.
func (r *Runner) Consume(ctx context.Context) error {
	return r.consumer.Consume(ctx, r.handler)
}

// Close closes the underlying consumer.
func (r *Runner) Close() error {
	return r.consumer.Close()
}

// Topic returns the consumed topic.
func (r *Runner) Topic() string {
	return r.consumer.Topic()
}

// Stats returns reader metrics for the consumer.
func (r *Runner) Stats() kafka.ReaderMetrics {
	return r.consumer.Stats()
}
