package kafka

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kbukum/greetings/component"
	"github.com/kbukum/greetings/logger"
)

type mockProducer struct {
	closed   atomic.Bool
	closeErr error
}

func (m *mockProducer) Close() error {
	m.closed.Store(true)
	return m.closeErr
}

func (m *mockProducer) Stats() WriterMetrics { return WriterMetrics{Messages: 7, Topic: "greetings"} }

type mockConsumer struct {
	topic      string
	consumed   atomic.Bool
	closeCalls atomic.Int32
}

func (m *mockConsumer) Consume(ctx context.Context) error {
	m.consumed.Store(true)
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockConsumer) Close() error {
	m.closeCalls.Add(1)
	return nil
}

func (m *mockConsumer) Topic() string { return m.topic }

func (m *mockConsumer) Stats() ReaderMetrics { return ReaderMetrics{Topic: m.topic, Offset: 3} }

func newTestComponent() *Component {
	log := logger.NewWithWriter(&logger.Config{Level: "error", Format: "json"}, "test", &bytes.Buffer{})
	return NewComponent(Config{Brokers: []string{"localhost:9092"}}, log)
}

func TestComponent_StartStop(t *testing.T) {
	comp := newTestComponent()
	mc := &mockConsumer{topic: "greetings"}
	comp.AddConsumer(mc)
	mp := &mockProducer{}
	comp.SetProducer(mp)

	ctx := context.Background()
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("double Start() error: %v", err)
	}
	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}

	if !mc.consumed.Load() {
		t.Error("consumer should have been consumed")
	}
	if mc.closeCalls.Load() != 1 {
		t.Errorf("consumer Close() called %d times, want 1", mc.closeCalls.Load())
	}
	if !mp.closed.Load() {
		t.Error("producer should have been closed")
	}
	if comp.Producer() != nil {
		t.Error("producer should be released after Stop")
	}
}

func TestComponent_StopNotRunning(t *testing.T) {
	comp := newTestComponent()
	if err := comp.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() on not-running component should not error: %v", err)
	}
}

func TestComponent_StopReportsCloseError(t *testing.T) {
	comp := newTestComponent()
	comp.SetProducer(&mockProducer{closeErr: errors.New("flush failed")})
	comp.Start(context.Background())

	err := comp.Stop(context.Background())
	if err == nil || !strings.Contains(err.Error(), "flush failed") {
		t.Errorf("expected producer close error, got %v", err)
	}
}

func TestComponent_AddConsumer_WhileRunning(t *testing.T) {
	comp := newTestComponent()
	ctx := context.Background()
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	mc := &mockConsumer{topic: "late-join"}
	comp.AddConsumer(mc)

	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if !mc.consumed.Load() {
		t.Error("late-joined consumer should have been consumed")
	}
	if mc.closeCalls.Load() != 1 {
		t.Errorf("late consumer Close() called %d times, want 1", mc.closeCalls.Load())
	}
}

func TestComponent_Health(t *testing.T) {
	comp := newTestComponent()
	if h := comp.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("Health().Status = %q before start, want unhealthy", h.Status)
	}

	comp.Start(context.Background())
	defer comp.Stop(context.Background())

	comp.probe = func(context.Context) error { return nil }
	if h := comp.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("Health().Status = %q, want healthy", h.Status)
	}

	comp.probe = func(context.Context) error { return errors.New("broker unreachable") }
	h := comp.Health(context.Background())
	if h.Status != component.StatusUnhealthy || h.Message != "broker unreachable" {
		t.Errorf("Health() = %+v, want unhealthy with probe message", h)
	}
}

func TestComponent_StatsAndDescribe(t *testing.T) {
	comp := newTestComponent()
	comp.SetProducer(&mockProducer{})
	comp.AddConsumer(&mockConsumer{topic: "greetings"})

	stats := comp.Stats()
	if stats.Producer == nil || stats.Producer.Messages != 7 {
		t.Errorf("unexpected producer stats: %+v", stats.Producer)
	}
	if len(stats.Consumers) != 1 || stats.Consumers[0].Offset != 3 {
		t.Errorf("unexpected consumer stats: %+v", stats.Consumers)
	}

	desc := comp.Describe()
	if desc.Type != "kafka" || !strings.Contains(desc.Details, "topics=[greetings]") || !strings.Contains(desc.Details, "producer=yes") {
		t.Errorf("unexpected description: %+v", desc)
	}
}
