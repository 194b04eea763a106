// Package logger provides structured logging for the greetings service
// using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("greetings.listener")
//	log.Info("Received greetings", logger.Fields("partition", 0, "offset", 42))
package logger
