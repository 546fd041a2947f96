// Package logging provides structured logging utilities for docxref components.
//
// # Overview
//
// This package wraps the standard library slog package with docxref defaults
// so the CLI and the API server log the same way: JSON to stderr, module and
// version attributes on every record, source location on debug.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Potentially problematic situations, e.g. a rejected
//     second consumer registration on a registry
//   - ERROR: Failures requiring attention
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("docxrefd", version)
//	    slog.Info("server starting", "port", 8080)
//	}
//
// The CLI applies --log-level explicitly:
//
//	logging.SetDefaultStructuredLoggerWithLevel("docxref", version, "debug")
//
// # Environment Configuration
//
// LOG_LEVEL controls verbosity when no explicit level is passed:
//
//	LOG_LEVEL=debug docxrefd
package logging
