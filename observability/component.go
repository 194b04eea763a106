package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/greetings/component"
	"github.com/kbukum/greetings/logger"
)

const componentName = "observability"

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component owns the tracer and meter providers.
type Component struct {
	cfg Config
	svc ServiceInfo
	log *logger.Logger

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

// NewComponent returns a component for cfg. Call cfg.ApplyDefaults first.
func NewComponent(cfg Config, svc ServiceInfo, log *logger.Logger) *Component {
	return &Component{cfg: cfg, svc: svc, log: log.WithComponent(componentName)}
}

// Name returns the component name used for registration.
func (c *Component) Name() string { return componentName }

// Start installs the propagator and, when enabled, the OTLP providers.
func (c *Component) Start(ctx context.Context) error {
	InstallPropagator()
	if !c.cfg.Enabled {
		c.log.Debug("OTLP export disabled")
		return nil
	}

	tp, err := InitTracer(ctx, &c.cfg, c.svc)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	mp, err := InitMeter(ctx, &c.cfg, c.svc)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return fmt.Errorf("init meter: %w", err)
	}
	c.tp, c.mp = tp, mp

	c.log.Info("OTLP export enabled", logger.Fields(
		"endpoint", c.cfg.Endpoint,
		"sample_rate", c.cfg.SampleRate,
		"metric_interval", c.cfg.MetricInterval,
	))
	return nil
}

// Stop flushes and shuts down the providers.
func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.tp != nil {
		if err := c.tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
		c.tp = nil
	}
	if c.mp != nil {
		if err := c.mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
		c.mp = nil
	}
	return errors.Join(errs...)
}

// Health is always healthy; the message notes when export is disabled.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: componentName, Status: component.StatusHealthy}
	if !c.cfg.Enabled {
		h.Message = "export disabled"
	}
	return h
}

// Describe returns the telemetry summary shown at startup.
func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = fmt.Sprintf("otlp http %s", c.cfg.Endpoint)
	}
	return component.Description{Name: "OpenTelemetry", Type: "observability", Details: details}
}
