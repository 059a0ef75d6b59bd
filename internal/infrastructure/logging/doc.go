// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Host starting", zap.String("port", "8090"))
//	logger.Error("Failed to spawn shell", zap.Error(err))
package logging
