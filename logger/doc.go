// Package logger provides structured logging for the juice plant using
// zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers carrying plant and worker fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.Get("plant").WithFields(logger.Fields(logger.FieldPlant, "Plant[0]"))
//	log.Info("Processing oranges", logger.Fields(logger.FieldWorker, "Worker[0]"))
package logger
