// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and doubles as the human-readable console output
// of the provisioning tool.
//
// # Run Correlation
//
// A provisioning run emits many lines (one per poll attempt, one per bucket or
// object operation). The WithRunID helper stamps a generated run_id onto the
// logger so all lines of one run can be correlated after the fact.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log = logger.WithRunID(log)
//	log.Info("storage backend ready")
package logger
