package consumer

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/greetings/kafka"
	"github.com/kbukum/greetings/logger"
)

// fakeReader serves queued results, then blocks until the context ends.
type fakeReader struct {
	mu      sync.Mutex
	results []readResult
	closed  bool
}

type readResult struct {
	msg kafkago.Message
	err error
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	if len(r.results) > 0 {
		res := r.results[0]
		r.results = r.results[1:]
		r.mu.Unlock()
		return res.msg, res.err
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (r *fakeReader) Stats() kafkago.ReaderStats {
	return kafkago.ReaderStats{Topic: "greetings", Partition: "0", Messages: 2}
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func newTestConsumer(r Reader) *Consumer {
	log := logger.NewWithWriter(&logger.Config{Level: "error", Format: "json"}, "test", &bytes.Buffer{})
	c := NewWithReader(r, "greetings", "greetings-group", log)
	c.backoff = func(int) time.Duration { return time.Millisecond }
	return c
}

func TestConsumer_DeliversMessagesWithMetadata(t *testing.T) {
	r := &fakeReader{results: []readResult{
		{msg: kafkago.Message{Topic: "greetings", Partition: 1, Offset: 10, Value: []byte("a")}},
		{err: errors.New("connection reset")},
		{msg: kafkago.Message{Topic: "greetings", Partition: 1, Offset: 11, Value: []byte("b")}},
	}}
	c := newTestConsumer(r)

	ctx, cancel := context.WithCancel(context.Background())
	var got []kafka.Message
	handler := func(_ context.Context, msg kafka.Message) error {
		got = append(got, msg)
		if len(got) == 2 {
			cancel()
		}
		return nil
	}

	err := c.Consume(ctx, handler)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Consume() error = %v, want context.Canceled", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Partition != 1 || got[0].Offset != 10 || got[1].Offset != 11 {
		t.Errorf("unexpected delivery metadata: %+v", got)
	}
}

func TestConsumer_HandlerErrorDoesNotStopLoop(t *testing.T) {
	r := &fakeReader{results: []readResult{
		{msg: kafkago.Message{Offset: 0, Value: []byte("bad")}},
		{msg: kafkago.Message{Offset: 1, Value: []byte("good")}},
	}}
	c := newTestConsumer(r)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	c.Consume(ctx, func(_ context.Context, msg kafka.Message) error {
		calls++
		if msg.Offset == 0 {
			return errors.New("decode failed")
		}
		cancel()
		return nil
	})
	if calls != 2 {
		t.Errorf("expected handler called twice, got %d", calls)
	}
}

func TestConsumer_CancelledContext(t *testing.T) {
	c := newTestConsumer(&fakeReader{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Consume(ctx, func(context.Context, kafka.Message) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("Consume() error = %v, want context.Canceled", err)
	}
}

func TestRunner(t *testing.T) {
	r := &fakeReader{}
	run := AsRunner(newTestConsumer(r), func(context.Context, kafka.Message) error { return nil })

	if run.Topic() != "greetings" {
		t.Errorf("Topic() = %q, want greetings", run.Topic())
	}
	stats := run.Stats()
	if stats.GroupID != "greetings-group" || stats.Messages != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := run.Consume(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Consume() error = %v, want deadline exceeded", err)
	}
	if err := run.Close(); err != nil || !r.closed {
		t.Errorf("Close() error = %v, closed = %v", err, r.closed)
	}
}

func TestLinearBackoff(t *testing.T) {
	if d := linearBackoff(2); d != 2*time.Second {
		t.Errorf("linearBackoff(2) = %v, want 2s", d)
	}
	if d := linearBackoff(100); d != maxBackoff {
		t.Errorf("linearBackoff(100) = %v, want %v", d, maxBackoff)
	}
}

func TestNewConsumer_RequiresTopic(t *testing.T) {
	log := logger.NewWithWriter(&logger.Config{Level: "error", Format: "json"}, "test", &bytes.Buffer{})
	if _, err := NewConsumer(kafka.Config{}, "", "g", log); err == nil {
		t.Error("expected error for empty topic")
	}
}
