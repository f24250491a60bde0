// Package logging configures the process-wide structured logger. All
// components obtain loggers from here so output format and level stay
// consistent between CLI runs and daemon mode.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	global = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Setup initializes the global logger. Format "console" renders
// human-readable output for interactive runs; anything else emits JSON.
func Setup(level, format string) {
	zerolog.TimeFieldFormat = consoleTimeFormat
	zerolog.ErrorFieldName = "err"

	var w io.Writer = os.Stderr
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: consoleTimeFormat}
	}

	l := zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()

	mu.Lock()
	global = l
	mu.Unlock()
}

// GetLogger returns the global logger.
func GetLogger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Component returns a logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return GetLogger().With().Str("component", name).Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
