// Command greetings serves GET /greetings, publishes each greeting to Kafka
// and logs every greeting it consumes back from the topic.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/greetings/bootstrap"
	"github.com/kbukum/greetings/config"
	"github.com/kbukum/greetings/version"
)

const serviceName = "greetings"

func main() {
	configFile := flag.String("config", "", "path to config.yml")
	envFile := flag.String("env", "", "path to .env file")
	flag.Parse()

	if err := run(context.Background(), *configFile, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile, envFile string) error {
	cfg := &AppConfig{}
	if err := config.LoadConfig(serviceName, cfg,
		config.WithConfigFile(configFile),
		config.WithEnvFile(envFile),
	); err != nil {
		return err
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Short()
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}

	deps, err := KafkaDeps(cfg.Kafka, app.Logger)
	if err != nil {
		return err
	}
	if _, err := setup(app, deps); err != nil {
		_ = deps.Producer.Close()
		return err
	}
	return app.Run(ctx)
}
