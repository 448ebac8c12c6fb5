// Package logger builds the zerolog logger shared by one invocation
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Output formats
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New creates a logger writing to w at level. The console format is meant
// for interactive use; json is what log aggregation expects.
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	switch format {
	case FormatJSON, "":
	case FormatConsole:
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", format)
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "idlereport").
		Logger(), nil
}

// Stderr is New writing to standard error
func Stderr(level, format string) (zerolog.Logger, error) {
	return New(os.Stderr, level, format)
}

// Stdout is New writing to standard output
func Stdout(level, format string) (zerolog.Logger, error) {
	return New(os.Stdout, level, format)
}
