// Package logger provides structured logging for reqkit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logger:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("reqkit").WithComponent("httpclient")
//	log.Debug("request dispatched", logger.Fields("method", "GET"))
package logger
