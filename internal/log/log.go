// ABOUTME: Structured logging on zerolog with a global level switch
// ABOUTME: Console writer to stderr so log output never mixes with results

package log

import (
	"os"

	"github.com/rs/zerolog"
)

var root = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	Level(zerolog.InfoLevel).
	With().Timestamp().Logger()

// SetVerbose lowers the global level to debug.
func SetVerbose() {
	root = root.Level(zerolog.DebugLevel)
}

// ForComponent returns a logger scoped to one engine component.
func ForComponent(component string) zerolog.Logger {
	return root.With().Str("component", component).Logger()
}

// Debug logs a debug message with optional formatting.
func Debug(format string, args ...any) {
	root.Debug().Msgf(format, args...)
}

// Info logs an info message with optional formatting.
func Info(format string, args ...any) {
	root.Info().Msgf(format, args...)
}

// Warn logs a warning message with optional formatting.
func Warn(format string, args ...any) {
	root.Warn().Msgf(format, args...)
}

// Error logs an error message.
func Error(format string, args ...any) {
	root.Error().Msgf(format, args...)
}
