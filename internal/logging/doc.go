// Package logging provides structured logging for the raopbridge daemon.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the daemon. It provides both general logging
// functions and specialized functions for discovery-specific logging needs.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (hex dumps of undecodable records, tick timings)
//   - Info: Normal operations (hosts added/removed, tunnels created)
//   - Warn: Non-fatal issues (decode failures, unknown TXT values, skipped addresses)
//   - Error: Serious issues (query failures, backend errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("host added",
//	    zap.String("name", "_raop._tcp.local"),
//	    zap.String("domain", "Kitchen._raop._tcp.local"),
//	    zap.Int32("ifindex", 3),
//	)
//
// # Configuration
//
// Initialize logging at daemon startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// When no level is given, the RAOPBRIDGE_LOG_LEVEL environment variable is
// consulted; if that is also unset, logging is silent. This keeps one-shot
// CLI commands (scan, version) quiet by default.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
