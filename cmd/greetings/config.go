package main

import (
	"fmt"

	"github.com/kbukum/greetings/binding"
	"github.com/kbukum/greetings/config"
	"github.com/kbukum/greetings/kafka"
	"github.com/kbukum/greetings/observability"
	"github.com/kbukum/greetings/server"
)

// AppConfig is the complete greetings service configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Kafka         kafka.Config         `yaml:"kafka" mapstructure:"kafka"`
	Stream        binding.Config       `yaml:"stream" mapstructure:"stream"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults names the service and fills defaults in every section.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Kafka.ApplyDefaults()
	c.Stream.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section and reports the first invalid one.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Kafka.Validate(); err != nil {
		return fmt.Errorf("kafka: %w", err)
	}
	if err := c.Stream.Validate(); err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	return nil
}
