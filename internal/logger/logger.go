package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the application logger instance
var Logger zerolog.Logger = zerolog.Nop()

// Init initializes the global logger. CLI binaries pass os.Stderr so that
// command output on stdout stays machine readable.
func Init(level, format string, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}

	Logger = New(level, format, out)
	zerolog.SetGlobalLevel(parseLogLevel(level))

	// Set the global logger
	log.Logger = Logger
}

// New builds a logger without touching global state
func New(level, format string, out io.Writer) zerolog.Logger {
	var w io.Writer = out
	if strings.ToLower(format) != "json" {
		// Console format with colors
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    out != os.Stdout && out != os.Stderr,
		}
	}

	return zerolog.New(w).
		Level(parseLogLevel(level)).
		With().
		Timestamp().
		Logger()
}

// parseLogLevel parses string log level to zerolog level
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// GetLogger returns the configured logger instance
func GetLogger() zerolog.Logger {
	return Logger
}
