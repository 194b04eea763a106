package main

import (
	"context"
	"fmt"

	"github.com/kbukum/greetings/binding"
	"github.com/kbukum/greetings/bootstrap"
	"github.com/kbukum/greetings/greetings"
	"github.com/kbukum/greetings/kafka"
	"github.com/kbukum/greetings/kafka/consumer"
	"github.com/kbukum/greetings/kafka/producer"
	"github.com/kbukum/greetings/logger"
	"github.com/kbukum/greetings/observability"
	"github.com/kbukum/greetings/server"
	"github.com/kbukum/greetings/server/endpoint"
)

// Producer is what the output channel publishes through.
type Producer interface {
	kafka.Sender
	kafka.ProducerCloser
}

// ConsumerFactory builds the consume loop for the input binding.
type ConsumerFactory func(topic, group string, h kafka.MessageHandler) (kafka.ConsumerRunner, error)

// Deps are the broker clients the service runs on.
type Deps struct {
	Producer    Producer
	NewConsumer ConsumerFactory
}

// KafkaDeps returns segmentio/kafka-go backed clients for cfg.
func KafkaDeps(cfg kafka.Config, log *logger.Logger) (Deps, error) {
	p, err := producer.NewProducer(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("create producer: %w", err)
	}
	return Deps{
		Producer: p,
		NewConsumer: func(topic, group string, h kafka.MessageHandler) (kafka.ConsumerRunner, error) {
			c, err := consumer.NewConsumer(cfg, topic, group, log)
			if err != nil {
				return nil, err
			}
			return consumer.AsRunner(c, h), nil
		},
	}, nil
}

// setup registers the components, routes and listener of the service.
// Components start in registration order: telemetry, broker clients, then
// the HTTP server.
func setup(app *bootstrap.App[*AppConfig], deps Deps) (*server.Server, error) {
	cfg := app.Cfg

	obs := observability.NewComponent(cfg.Observability, observability.ServiceInfo{
		Name:        app.Name,
		Version:     app.Version,
		Environment: cfg.Environment,
	}, app.Logger)
	if err := app.RegisterComponent(obs); err != nil {
		return nil, err
	}

	metrics, err := observability.NewMetrics(observability.Meter())
	if err != nil {
		return nil, err
	}

	kc := kafka.NewComponent(cfg.Kafka, app.Logger)
	kc.SetProducer(deps.Producer)
	if err := app.RegisterComponent(kc); err != nil {
		return nil, err
	}

	out, err := binding.NewOutputChannel(&cfg.Stream, binding.GreetingsOut, deps.Producer, metrics, app.Logger)
	if err != nil {
		return nil, err
	}
	svc := greetings.NewService(out, app.Logger)

	srv := server.New(cfg.Server, app.Logger)
	srv.ApplyDefaults(app.Name, app.Components.HealthAll, endpoint.MetricsSource{
		Name:    "kafka",
		Collect: func() any { return kc.Stats() },
	})
	greetings.NewHandler(svc).Register(srv.GinEngine())
	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return nil, err
	}

	app.OnConfigure(func(_ context.Context, app *bootstrap.App[*AppConfig]) error {
		in, err := app.Cfg.Stream.Lookup(binding.GreetingsIn)
		if err != nil {
			return err
		}
		listener := greetings.NewListener(in.Group, metrics, app.Logger)
		cr, err := deps.NewConsumer(in.Destination, in.Group, listener.Handle)
		if err != nil {
			return fmt.Errorf("create consumer for %s: %w", binding.GreetingsIn, err)
		}
		kc.AddConsumer(cr)
		app.Summary.TrackConsumer(binding.GreetingsIn, in.Group, in.Destination)
		return nil
	})

	return srv, nil
}
