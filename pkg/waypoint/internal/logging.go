// Package internal holds infrastructure shared by the waypoint packages.
// Types and functions in this package are not part of the public API.
package internal

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// sink is the destination every waypoint logger writes to. It is resolved
// once, on the first logger request.
type sink struct {
	once sync.Once
	path string
	file *os.File
	w    io.Writer
}

func (s *sink) writer() io.Writer {
	s.once.Do(func() {
		s.w = os.Stderr
		if s.path == "" {
			return
		}
		if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			return
		}
		f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			// console only
			return
		}
		s.file = f
		s.w = io.MultiWriter(os.Stderr, f)
	})
	return s.w
}

// leveledLogger is a JSON logger whose level can change after creation.
type leveledLogger struct {
	once   sync.Once
	level  slog.LevelVar
	attrs  []slog.Attr
	start  slog.Level
	logger *slog.Logger
}

func (l *leveledLogger) get() *slog.Logger {
	l.once.Do(func() {
		l.level.Set(l.start)
		var h slog.Handler = slog.NewJSONHandler(out.writer(), &slog.HandlerOptions{Level: &l.level})
		if len(l.attrs) > 0 {
			h = h.WithAttrs(l.attrs)
		}
		l.logger = slog.New(h)
	})
	return l.logger
}

var (
	out sink

	app = &leveledLogger{start: slog.LevelInfo}

	// lib logs for the router, matcher and config packages. It defaults to
	// errors only so library chatter stays out of application logs.
	lib = &leveledLogger{
		start: slog.LevelError,
		attrs: []slog.Attr{slog.String("component", "waypoint")},
	}
)

// SetLogPath sets the full path for the log file, including filename.
// Parent directories are created on first use. Without a path logs only go to
// stderr. It has no effect once a logger has been handed out.
func SetLogPath(path string) {
	out.path = path
}

// GetLogger returns the application logger.
func GetLogger() *slog.Logger {
	return app.get()
}

// GetInternalLogger returns the logger used inside waypoint.
func GetInternalLogger() *slog.Logger {
	return lib.get()
}

func SetLogLevel(level slog.Level) {
	app.get()
	app.level.Set(level)
}

func SetInternalLogLevel(level slog.Level) {
	lib.get()
	lib.level.Set(level)
}

// ParseLevel maps a level name to a slog level. Unknown names map to info.
func ParseLevel(rawLevel string) slog.Level {
	switch strings.ToLower(rawLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func SetRawLogLevel(rawLevel string) {
	SetLogLevel(ParseLevel(rawLevel))
}

func CloseLogger() {
	if out.file != nil {
		out.file.Close()
	}
}
