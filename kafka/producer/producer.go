// Package producer publishes messages through a kafka-go Writer.
package producer

import (
	"context"
	"fmt"
	"sync"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/greetings/kafka"
	"github.com/kbukum/greetings/logger"
)

// Writer is the part of *kafkago.Writer the producer uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Stats() kafkago.WriterStats
	Close() error
}

var _ Writer = (*kafkago.Writer)(nil)

// Producer sends messages to Kafka. Retries are left to the writer
// (kafka.retries maps to Writer.MaxAttempts).
type Producer struct {
	writer Writer
	log    *logger.Logger
	mu     sync.RWMutex
	closed bool
}

var (
	_ kafka.ProducerCloser = (*Producer)(nil)
	_ kafka.ProducerStats  = (*Producer)(nil)
	_ kafka.Sender         = (*Producer)(nil)
)

// NewProducer creates a producer backed by a kafka-go Writer built from cfg.
func NewProducer(cfg kafka.Config, log *logger.Logger) (*Producer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("kafka producer config: %w", err)
	}

	transport, err := kafka.CreateTransport(&cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer transport: %w", err)
	}

	plog := log.WithComponent("kafka.producer")
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Transport:              transport,
		Balancer:               &kafkago.LeastBytes{},
		MaxAttempts:            cfg.Retries,
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           kafka.ParseDuration(cfg.BatchTimeout),
		ReadTimeout:            kafka.ParseDuration(cfg.ReadTimeout),
		WriteTimeout:           kafka.ParseDuration(cfg.WriteTimeout),
		RequiredAcks:           kafkago.RequiredAcks(cfg.RequiredAcks),
		Compression:            kafka.ResolveCompression(cfg.Compression),
		AllowAutoTopicCreation: true,
		ErrorLogger: kafkago.LoggerFunc(func(msg string, args ...interface{}) {
			plog.Error("writer: " + fmt.Sprintf(msg, args...))
		}),
	}

	plog.Info("Kafka producer initialized", logger.Fields(
		"brokers", cfg.Brokers,
		"compression", cfg.Compression,
		"max_attempts", cfg.Retries,
	))
	return &Producer{writer: w, log: plog}, nil
}

// NewWithWriter creates a producer over an existing writer.
func NewWithWriter(w Writer, log *logger.Logger) *Producer {
	return &Producer{writer: w, log: log.WithComponent("kafka.producer")}
}

// Send writes a single message and blocks until the writer acknowledges it.
func (p *Producer) Send(ctx context.Context, msg kafka.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return fmt.Errorf("producer is closed")
	}
	if err := p.writer.WriteMessages(ctx, msg.ToKafkaMessage()); err != nil {
		return fmt.Errorf("kafka producer send to %s: %w", msg.Topic, err)
	}
	p.log.Debug("Message written", logger.Fields(logger.FieldTopic, msg.Topic, "bytes", len(msg.Value)))
	return nil
}

// Stats returns writer metrics accumulated since the previous call.
func (p *Producer) Stats() kafka.WriterMetrics {
	return kafka.CollectWriterMetrics(p.writer.Stats())
}

// Close flushes pending writes and closes the writer. Calling it again is a no-op.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	p.log.Info("Kafka producer closing")
	return p.writer.Close()
}
