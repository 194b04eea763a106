// Package consumer runs a consume loop over a kafka-go Reader and hands each
// message to a kafka.MessageHandler.
package consumer

import (
	"context"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/greetings/kafka"
	"github.com/kbukum/greetings/logger"
)

const maxBackoff = 30 * time.Second

// Reader is the part of *kafkago.Reader the consumer uses.
type Reader interface {
	ReadMessage(ctx context.Context) (kafkago.Message, error)
	Stats() kafkago.ReaderStats
	Close() error
}

var _ Reader = (*kafkago.Reader)(nil)

// Consumer reads one topic as a member of a consumer group. Offsets are
// committed by the reader.
type Consumer struct {
	reader   Reader
	topic    string
	groupID  string
	log      *logger.Logger
	failures int
	backoff  func(failures int) time.Duration
}

// NewConsumer creates a consumer for topic in consumer group groupID.
func NewConsumer(cfg kafka.Config, topic, groupID string, log *logger.Logger) (*Consumer, error) {
	if topic == "" {
		return nil, fmt.Errorf("kafka consumer: topic is required")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("kafka consumer config: %w", err)
	}

	dialer, err := kafka.CreateDialer(&cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer dialer: %w", err)
	}

	clog := log.WithComponent("kafka.consumer")

	startOffset := kafkago.FirstOffset
	if cfg.StartOffset == "last" {
		startOffset = kafkago.LastOffset
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:           cfg.Brokers,
		Topic:             topic,
		GroupID:           groupID,
		Dialer:            dialer,
		StartOffset:       startOffset,
		MinBytes:          cfg.MinBytes,
		MaxBytes:          cfg.MaxBytes,
		MaxWait:           kafka.ParseDuration(cfg.MaxWait),
		CommitInterval:    kafka.ParseDuration(cfg.CommitInterval),
		SessionTimeout:    kafka.ParseDuration(cfg.SessionTimeout),
		HeartbeatInterval: kafka.ParseDuration(cfg.HeartbeatInterval),
		RebalanceTimeout:  kafka.ParseDuration(cfg.RebalanceTimeout),
		ErrorLogger: kafkago.LoggerFunc(func(msg string, args ...interface{}) {
			clog.Error("reader: "+fmt.Sprintf(msg, args...), logger.Fields(logger.FieldTopic, topic, logger.FieldGroupID, groupID))
		}),
	})

	clog.Info("Kafka consumer initialized", logger.Fields(
		logger.FieldTopic, topic,
		logger.FieldGroupID, groupID,
		"brokers", cfg.Brokers,
	))

	return NewWithReader(reader, topic, groupID, log), nil
}

// NewWithReader creates a consumer over an existing reader.
func NewWithReader(r Reader, topic, groupID string, log *logger.Logger) *Consumer {
	return &Consumer{
		reader:  r,
		topic:   topic,
		groupID: groupID,
		log:     log.WithComponent("kafka.consumer"),
		backoff: linearBackoff,
	}
}

// Consume reads messages in a loop, calling handler for each one. A handler
// error is logged and the loop moves on. Read errors back off and retry. It
// blocks until ctx is cancelled.
func (c *Consumer) Consume(ctx context.Context, handler kafka.MessageHandler) error {
	c.log.Info("Starting consume loop", logger.Fields(logger.FieldTopic, c.topic, logger.FieldGroupID, c.groupID))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		km, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if waitErr := c.handleFailure(ctx, err); waitErr != nil {
				return waitErr
			}
			continue
		}
		c.failures = 0

		msg := kafka.FromKafkaMessage(km)
		if err := handler(ctx, msg); err != nil {
			c.log.Error("Message processing failed", logger.Fields(
				logger.FieldError, err.Error(),
				logger.FieldTopic, msg.Topic,
				logger.FieldPartition, msg.Partition,
				logger.FieldOffset, msg.Offset,
			))
		}
	}
}

func (c *Consumer) handleFailure(ctx context.Context, err error) error {
	c.failures++
	if c.failures <= 3 {
		c.log.Error("Kafka read error", logger.Fields(
			logger.FieldError, err.Error(),
			"failures", c.failures,
			"retryable", kafka.IsRetryableError(err),
			logger.FieldTopic, c.topic,
			logger.FieldGroupID, c.groupID,
		))
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.backoff(c.failures)):
		return nil
	}
}

func linearBackoff(failures int) time.Duration {
	d := time.Duration(failures) * time.Second
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

// Topic returns the consumer's topic.
func (c *Consumer) Topic() string { return c.topic }

// Stats returns reader metrics accumulated since the previous call.
func (c *Consumer) Stats() kafka.ReaderMetrics {
	m := kafka.CollectReaderMetrics(c.reader.Stats())
	m.GroupID = c.groupID
	return m
}

// Close shuts down the reader.
func (c *Consumer) Close() error {
	c.log.Info("Kafka consumer closing", logger.Fields(logger.FieldTopic, c.topic, logger.FieldGroupID, c.groupID))
	return c.reader.Close()
}
