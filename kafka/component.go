package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kbukum/greetings/component"
	"github.com/kbukum/greetings/logger"
)

// ProducerCloser is satisfied by any producer that can be closed.
type ProducerCloser interface {
	Close() error
}

// ConsumerRunner is satisfied by any consumer that can run a consume loop.
type ConsumerRunner interface {
	Consume(ctx context.Context) error
	Close() error
	Topic() string
}

// Component owns the producer and consumers and implements component.Component.
// Consumers added after Start begin consuming immediately.
type Component struct {
	cfg       Config
	log       *logger.Logger
	producer  ProducerCloser
	consumers []ConsumerRunner
	probe     func(ctx context.Context) error
	ctx       context.Context
	cancelFn  context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	running   bool
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a Kafka component for the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	c := &Component{
		cfg: cfg,
		log: log.WithComponent("kafka"),
	}
	c.probe = c.dialBroker
	return c
}

// Config returns the connection settings the component was built with.
func (c *Component) Config() Config { return c.cfg }

// SetProducer injects the producer. The component closes it on Stop.
func (c *Component) SetProducer(p ProducerCloser) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.producer = p
}

// Producer returns the injected producer, or nil if not set.
func (c *Component) Producer() ProducerCloser {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.producer
}

// AddConsumer injects a consumer. When the component is already running the
// consume loop starts right away.
func (c *Component) AddConsumer(cr ConsumerRunner) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consumers = append(c.consumers, cr)
	if c.running {
		c.launch(cr)
	}
}

// Name returns the component name.
func (c *Component) Name() string { return "kafka" }

// Start begins consuming in background goroutines for all injected consumers.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	c.ctx, c.cancelFn = context.WithCancel(ctx)
	for _, cr := range c.consumers {
		c.launch(cr)
	}

	c.running = true
	c.log.Info("Kafka component started", logger.Fields("brokers", c.cfg.Brokers, "consumers", len(c.consumers)))
	return nil
}

// launch must be called with c.mu held.
func (c *Component) launch(cr ConsumerRunner) {
	ctx := c.ctx
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := cr.Consume(ctx); err != nil && !errors.Is(err, context.Canceled) {
			c.log.Error("Consumer stopped with error", logger.MergeWithError(logger.Fields(logger.FieldTopic, cr.Topic()), err))
		}
	}()
}

// Stop cancels the consume loops, waits for them, then closes consumers and
// the producer. Close errors are returned joined.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil
	}

	c.log.Info("Kafka component stopping")

	c.cancelFn()
	c.wg.Wait()

	var errs []error
	for _, cr := range c.consumers {
		if err := cr.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close consumer %s: %w", cr.Topic(), err))
		}
	}
	c.consumers = nil

	if c.producer != nil {
		if err := c.producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close producer: %w", err))
		}
		c.producer = nil
	}

	c.running = false
	return errors.Join(errs...)
}

// Health reports broker connectivity.
func (c *Component) Health(ctx context.Context) component.Health {
	c.mu.Lock()
	running := c.running
	c.mu.Unlock()

	if !running {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "kafka not started"}
	}
	if err := c.probe(ctx); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *Component) dialBroker(ctx context.Context) error {
	if len(c.cfg.Brokers) == 0 {
		return fmt.Errorf("no brokers configured")
	}
	dialer, err := CreateDialer(&c.cfg)
	if err != nil {
		return fmt.Errorf("dialer: %w", err)
	}
	conn, err := dialer.DialContext(ctx, "tcp", c.cfg.Brokers[0])
	if err != nil {
		return fmt.Errorf("broker unreachable: %w", err)
	}
	defer conn.Close()
	if _, err := conn.Brokers(); err != nil {
		return fmt.Errorf("broker metadata: %w", err)
	}
	return nil
}

// Stats returns writer and reader metrics from the producer and consumers
// that expose them.
func (c *Component) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{Consumers: make([]ReaderMetrics, 0, len(c.consumers))}
	if ps, ok := c.producer.(ProducerStats); ok {
		m := ps.Stats()
		stats.Producer = &m
	}
	for _, cr := range c.consumers {
		if cs, ok := cr.(ConsumerStats); ok {
			stats.Consumers = append(stats.Consumers, cs.Stats())
		}
	}
	return stats
}

// Describe returns infrastructure summary info for the startup summary.
func (c *Component) Describe() component.Description {
	c.mu.Lock()
	defer c.mu.Unlock()

	details := fmt.Sprintf("brokers=%v", c.cfg.Brokers)
	topics := make([]string, 0, len(c.consumers))
	for _, cr := range c.consumers {
		topics = append(topics, cr.Topic())
	}
	if len(topics) > 0 {
		details += fmt.Sprintf(" topics=%v", topics)
	}
	if c.producer != nil {
		details += " producer=yes"
	}
	return component.Description{
		Name:    "Kafka",
		Type:    "kafka",
		Details: details,
	}
}
