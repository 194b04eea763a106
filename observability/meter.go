package observability

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMeter creates an OTLP/HTTP meter provider and installs it globally.
func InitMeter(ctx context.Context, cfg *Config, svc ServiceInfo) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(svc)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.interval()))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns the service meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the greeting counters.
type Metrics struct {
	published metric.Int64Counter
	received  metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	published, err := meter.Int64Counter("greetings.published",
		metric.WithDescription("Greetings handed to the output channel"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating greetings.published counter: %w", err)
	}
	received, err := meter.Int64Counter("greetings.received",
		metric.WithDescription("Greetings delivered to the listener"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating greetings.received counter: %w", err)
	}
	return &Metrics{published: published, received: received}, nil
}

// RecordPublished counts one send attempt and its outcome. Nil-safe.
func (m *Metrics) RecordPublished(ctx context.Context, topic string, sent bool) {
	if m == nil {
		return
	}
	m.published.Add(ctx, 1, metric.WithAttributes(
		attribute.String("topic", topic),
		attribute.String("sent", strconv.FormatBool(sent)),
	))
}

// RecordReceived counts one delivered message. Nil-safe.
func (m *Metrics) RecordReceived(ctx context.Context, topic string) {
	if m == nil {
		return
	}
	m.received.Add(ctx, 1, metric.WithAttributes(attribute.String("topic", topic)))
}
