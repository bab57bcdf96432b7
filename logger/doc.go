// Package logger provides structured logging for ctrq using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields. The request service
// logs its context lifecycle at debug level; the default level keeps
// it quiet.
//
//	log := logger.Get("httpc")
//	log.Debug("context opened", logger.Fields("method", "GET"))
package logger
