// Package config loads service configuration from a YAML file, an optional
// .env file and the process environment using Viper.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("greetings", &cfg)
//
// Environment variables override file values: KAFKA_BROKERS maps to
// kafka.brokers, SERVER_PORT to server.port. WithEnvPrefix restricts binding to
// variables carrying a prefix (GREETINGS_SERVER_PORT).
package config
