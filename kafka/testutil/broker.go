package testutil

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/kbukum/greetings/kafka"
)

// Broker is an in-memory topic log shared by mock producers and consumers.
type Broker struct {
	partitions int
	mu         sync.Mutex
	logs       map[string][]kafka.Message
	offsets    map[string][]int64
	next       int
	appended   chan struct{}
}

// NewBroker creates a broker whose topics have the given number of partitions.
func NewBroker(partitions int) *Broker {
	if partitions <= 0 {
		partitions = 1
	}
	return &Broker{
		partitions: partitions,
		logs:       make(map[string][]kafka.Message),
		offsets:    make(map[string][]int64),
		appended:   make(chan struct{}),
	}
}

// append stores msg, assigning partition and offset. Keyed messages hash to a
// fixed partition; unkeyed ones are spread round-robin.
func (b *Broker) append(msg kafka.Message) kafka.Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	offsets, ok := b.offsets[msg.Topic]
	if !ok {
		offsets = make([]int64, b.partitions)
		b.offsets[msg.Topic] = offsets
	}

	var partition int
	if msg.Key != "" {
		h := fnv.New32a()
		h.Write([]byte(msg.Key))
		partition = int(h.Sum32() % uint32(b.partitions))
	} else {
		partition = b.next % b.partitions
		b.next++
	}

	msg.Partition = partition
	msg.Offset = offsets[partition]
	offsets[partition]++
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	headers := make(map[string]string, len(msg.Headers))
	for k, v := range msg.Headers {
		headers[k] = v
	}
	msg.Headers = headers

	b.logs[msg.Topic] = append(b.logs[msg.Topic], msg)
	close(b.appended)
	b.appended = make(chan struct{})
	return msg
}

// since returns messages of topic from position pos on, and a channel closed
// on the next append.
func (b *Broker) since(topic string, pos int) ([]kafka.Message, <-chan struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	log := b.logs[topic]
	if pos >= len(log) {
		return nil, b.appended
	}
	out := make([]kafka.Message, len(log)-pos)
	copy(out, log[pos:])
	return out, b.appended
}

// Messages returns every message stored for topic, in append order.
func (b *Broker) Messages(topic string) []kafka.Message {
	msgs, _ := b.since(topic, 0)
	return msgs
}

// Producer returns a producer writing into this broker.
func (b *Broker) Producer() *MockProducer {
	return &MockProducer{broker: b}
}

// Consumer returns a consumer of topic that calls handler for every message,
// starting from the beginning of the topic.
func (b *Broker) Consumer(topic, groupID string, handler kafka.MessageHandler) *MockConsumer {
	return &MockConsumer{broker: b, topic: topic, groupID: groupID, handler: handler}
}

// MockProducer implements kafka.Sender over a Broker.
type MockProducer struct {
	broker *Broker
	mu     sync.Mutex
	err    error
	sent   int64
	closed bool
}

var (
	_ kafka.Sender         = (*MockProducer)(nil)
	_ kafka.ProducerCloser = (*MockProducer)(nil)
	_ kafka.ProducerStats  = (*MockProducer)(nil)
)

// FailWith makes subsequent sends return err; nil restores normal behaviour.
func (p *MockProducer) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Send stores msg in the broker.
func (p *MockProducer) Send(_ context.Context, msg kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("producer is closed")
	}
	if p.err != nil {
		return p.err
	}
	if msg.Topic == "" {
		return fmt.Errorf("message has no topic")
	}
	p.broker.append(msg)
	p.sent++
	return nil
}

// Stats reports the number of messages sent.
func (p *MockProducer) Stats() kafka.WriterMetrics {
	p.mu.Lock()
	defer p.mu.Unlock()
	return kafka.WriterMetrics{Writes: p.sent, Messages: p.sent}
}

// Close marks the producer closed.
func (p *MockProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// MockConsumer implements kafka.ConsumerRunner over a Broker.
type MockConsumer struct {
	broker    *Broker
	topic     string
	groupID   string
	handler   kafka.MessageHandler
	mu        sync.Mutex
	delivered int64
	lastErr   error
	closed    bool
}

var (
	_ kafka.ConsumerRunner = (*MockConsumer)(nil)
	_ kafka.ConsumerStats  = (*MockConsumer)(nil)
)

// Consume delivers messages until ctx is cancelled. Handler errors are
// recorded and do not stop the loop.
func (c *MockConsumer) Consume(ctx context.Context) error {
	pos := 0
	for {
		msgs, appended := c.broker.since(c.topic, pos)
		for _, msg := range msgs {
			err := c.handler(ctx, msg)
			c.mu.Lock()
			c.delivered++
			if err != nil {
				c.lastErr = err
			}
			c.mu.Unlock()
		}
		pos += len(msgs)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-appended:
		}
	}
}

// Delivered returns how many messages were handed to the handler.
func (c *MockConsumer) Delivered() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delivered
}

// LastError returns the most recent handler error.
func (c *MockConsumer) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Stats reports delivered messages.
func (c *MockConsumer) Stats() kafka.ReaderMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return kafka.ReaderMetrics{Messages: c.delivered, Topic: c.topic, GroupID: c.groupID}
}

// Close marks the consumer closed.
func (c *MockConsumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Closed reports whether Close was called.
func (c *MockConsumer) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Topic returns the consumer's topic.
func (c *MockConsumer) Topic() string { return c.topic }
