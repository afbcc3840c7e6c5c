// Package logging provides structured logging utilities for lmsctl.
//
// # Overview
//
// This package wraps the standard library slog package with project-specific
// defaults and conventions for consistent logging across commands. It supports
// environment-based log level configuration, module/version context injection,
// automatic source location tracking for debug logs, and per-run log files.
//
// # Features
//
//   - Structured JSON logging to stderr
//   - Colorized console output for interactive runs
//   - Timestamped per-run log file with INFO/WARNING/ERROR tags
//   - Environment-based log level configuration (LOG_LEVEL)
//   - Automatic module and version context
//   - Source location tracking for debug logs
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("lmsctl", "v1.0.0")
//
//	    // Use slog as normal
//	    slog.Info("applying resource set", "set", "storage")
//	    slog.Error("apply rejected", "error", err)
//	}
//
// Creating a per-run logger that also writes a log file artifact:
//
//	runlog, err := logging.NewRunLogger(logging.RunLogOptions{
//	    Command: "deploy",
//	    Dir:     cfg.LogDir,
//	    Level:   slog.LevelInfo,
//	})
//	if err != nil { ... }
//	defer runlog.Close()
//	slog.SetDefault(runlog.Logger)
//
// The file artifact is named lmsctl-<command>-<yyyymmdd-hhmmss>.log and
// records every entry as one JSON line. Warnings are tagged WARNING in the
// file so the artifact greps cleanly for INFO/WARNING/ERROR.
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug lmsctl deploy
//
// If LOG_LEVEL is not set, defaults to INFO level.
package logging
