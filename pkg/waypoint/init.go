// Package waypoint provides navigation for Go applications: route tables,
// guarded transitions between locations and a history timeline that stays in
// step with the current route.
//
// Most applications only need New, which wires the route documents, the
// matcher, an in-memory history and the router together. The subpackages can
// also be used on their own.
package waypoint

import (
	"log/slog"
	"os"

	"github.com/BrandonKowalski/waypoint/pkg/waypoint/internal"
)

// DebugEnvVar turns on debug logging of the waypoint internals when set to any value.
const DebugEnvVar = "WAYPOINT_DEBUG"

// Options configures logging for the waypoint packages.
type Options struct {
	LogPath  string // Full path for log file including filename (creates parent directories)
	LogLevel string // Application log level: "debug", "info", "warn" or "error"
}

// Init configures logging. Call it before New; without it logs go to stderr and
// the internal logger only reports errors.
func Init(options Options) {
	if options.LogPath != "" {
		internal.SetLogPath(options.LogPath)
	}

	if options.LogLevel != "" {
		internal.SetRawLogLevel(options.LogLevel)
	}

	if os.Getenv(DebugEnvVar) != "" {
		internal.SetInternalLogLevel(slog.LevelDebug)
	} else {
		internal.SetInternalLogLevel(slog.LevelError)
	}
}

// Close flushes and closes the log file, if any.
func Close() {
	internal.CloseLogger()
}

// SetLogPath sets the full path for the log file, including filename.
// Creates all necessary parent directories.
// Call before Init() to take effect during initialization.
func SetLogPath(path string) {
	internal.SetLogPath(path)
}

// GetLogger returns the application logger for structured logging.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// SetLogLevel sets the minimum log level for the application logger.
func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

// SetRawLogLevel parses and sets the log level from a string (e.g., "debug", "info", "error").
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}
