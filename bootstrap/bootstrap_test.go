package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/greetings/component"
	"github.com/kbukum/greetings/config"
	"github.com/kbukum/greetings/logger"
)

type testConfig struct {
	config.ServiceConfig
}

type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	started  bool
	stopped  bool
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	m.started = true
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	m.stopped = true
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) component.Health {
	return m.health
}

type describableComponent struct {
	mockComponent
	desc   component.Description
	routes []component.Route
}

func (m *describableComponent) Describe() component.Description { return m.desc }
func (m *describableComponent) Routes() []component.Route       { return m.routes }

func newTestApp(t *testing.T, opts ...Option) (*App[*testConfig], *bytes.Buffer) {
	t.Helper()
	var summary bytes.Buffer
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Name: "greetings", Version: "1.0.0"}}
	log := logger.NewWithWriter(&logger.Config{Level: "error", Format: "json"}, "greetings", &bytes.Buffer{})
	opts = append([]Option{WithLogger(log), WithSummaryOutput(&summary)}, opts...)
	app, err := NewApp(cfg, opts...)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app, &summary
}

// cancelWhenReady makes Run return right after startup.
func cancelWhenReady(app *App[*testConfig]) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	app.OnReady(func(context.Context) error {
		cancel()
		return nil
	})
	return ctx
}

func TestNewApp(t *testing.T) {
	app, _ := newTestApp(t)
	if app.Name != "greetings" || app.Version != "1.0.0" {
		t.Errorf("unexpected name/version %q/%q", app.Name, app.Version)
	}
	if app.Cfg.Environment != "development" {
		t.Errorf("expected defaults applied, got environment %q", app.Cfg.Environment)
	}
	if app.gracefulTimeout != defaultGracefulTimeout {
		t.Errorf("expected default timeout, got %v", app.gracefulTimeout)
	}
}

func TestNewAppValidation(t *testing.T) {
	_, err := NewApp(&testConfig{})
	if err == nil {
		t.Error("expected error for missing name")
	}
}

func TestWithGracefulTimeout(t *testing.T) {
	app, _ := newTestApp(t, WithGracefulTimeout(5*time.Second))
	if app.gracefulTimeout != 5*time.Second {
		t.Errorf("expected 5s, got %v", app.gracefulTimeout)
	}
}

func TestRunLifecycleOrder(t *testing.T) {
	app, _ := newTestApp(t)
	var order []string
	app.OnStart(func(context.Context) error { order = append(order, "start"); return nil })
	app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		if a.Cfg.Name != "greetings" {
			t.Errorf("expected typed config in configure callback")
		}
		order = append(order, "configure")
		return nil
	})
	ctx := cancelWhenReady(app)
	app.OnReady(func(context.Context) error { order = append(order, "ready"); return nil })
	app.OnStop(func(context.Context) error { order = append(order, "stop"); return nil })

	if err := app.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{"start", "configure", "ready", "stop"}
	if fmt.Sprint(order) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, order)
	}
}

func TestRunStartsAndStopsComponents(t *testing.T) {
	app, _ := newTestApp(t)
	comp := &mockComponent{name: "kafka", health: component.Health{Name: "kafka", Status: component.StatusHealthy}}
	app.RegisterComponent(comp)

	if err := app.Run(cancelWhenReady(app)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !comp.started || !comp.stopped {
		t.Errorf("expected component started and stopped, got started=%v stopped=%v", comp.started, comp.stopped)
	}
}

func TestRunComponentStartError(t *testing.T) {
	app, _ := newTestApp(t)
	first := &mockComponent{name: "kafka"}
	app.RegisterComponent(first)
	app.RegisterComponent(&mockComponent{name: "http-server", startErr: fmt.Errorf("bind: address already in use")})

	err := app.Run(context.Background())
	if err == nil {
		t.Fatal("expected start error")
	}
	if !first.stopped {
		t.Error("expected already started component to be stopped")
	}
}

func TestRunConfigureError(t *testing.T) {
	app, _ := newTestApp(t)
	app.OnConfigure(func(context.Context, *App[*testConfig]) error {
		return fmt.Errorf("unknown channel")
	})
	if err := app.Run(context.Background()); err == nil {
		t.Error("expected configure error")
	}
}

func TestRunStopError(t *testing.T) {
	app, _ := newTestApp(t)
	app.RegisterComponent(&mockComponent{name: "kafka", stopErr: fmt.Errorf("close writer")})
	if err := app.Run(cancelWhenReady(app)); err == nil {
		t.Error("expected error from component stop failure")
	}
}

func TestHookErrorStopsExecution(t *testing.T) {
	secondCalled := false
	hooks := []Hook{
		func(context.Context) error { return fmt.Errorf("fail") },
		func(context.Context) error { secondCalled = true; return nil },
	}
	if err := runHooks(context.Background(), hooks); err == nil {
		t.Error("expected error from failing hook")
	}
	if secondCalled {
		t.Error("expected second hook not to run after first fails")
	}
}

func TestReadyCheck(t *testing.T) {
	tests := []struct {
		name    string
		status  component.HealthStatus
		wantErr bool
	}{
		{"healthy", component.StatusHealthy, false},
		{"degraded", component.StatusDegraded, true},
		{"unhealthy", component.StatusUnhealthy, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t)
			app.RegisterComponent(&mockComponent{name: "kafka", health: component.Health{Name: "kafka", Status: tt.status}})
			err := app.ReadyCheck(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("ReadyCheck() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWaitForSignalContextCancellation(t *testing.T) {
	app, _ := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sig := app.WaitForSignal(ctx); sig != nil {
		t.Errorf("expected nil signal on cancellation, got %v", sig)
	}
}

func TestSummaryCollectsFromRegistry(t *testing.T) {
	app, out := newTestApp(t)
	app.RegisterComponent(&describableComponent{
		mockComponent: mockComponent{
			name:   "http-server",
			health: component.Health{Name: "http-server", Status: component.StatusHealthy},
		},
		desc: component.Description{Name: "HTTP Server", Type: "server", Details: "0.0.0.0:8080", Port: 8080},
		routes: []component.Route{
			{Method: "GET", Path: "/greetings", Handler: "greetings.Handler"},
		},
	})
	app.Summary.TrackConsumer("greetings-in", "greetings-group", "greetings")

	if err := app.Run(cancelWhenReady(app)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{"greetings v1.0.0", "HTTP Server", "(:8080)", "/greetings", "greetings-group", "http-server: healthy"} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
	if len(app.Summary.routes) != 1 || len(app.Summary.infrastructure) != 1 {
		t.Errorf("expected 1 route and 1 infrastructure entry, got %d/%d", len(app.Summary.routes), len(app.Summary.infrastructure))
	}
}
