// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/pdiddy/citation-sleuth/pkg/types"
)

// NewLogger creates a zerolog logger from cfg. Format "auto" selects the
// human-readable console writer when the output is a terminal and JSON
// otherwise.
func NewLogger(cfg types.LoggingConfig) zerolog.Logger {
	var out *os.File
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		out = os.Stdout
	default:
		out = os.Stderr
	}
	tty := isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
	return newLogger(cfg, out, tty)
}

func newLogger(cfg types.LoggingConfig, out io.Writer, tty bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	w := out
	switch strings.ToLower(cfg.Format) {
	case "console":
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	case "auto":
		if tty {
			w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
		}
	}

	return zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel converts a level name to zerolog.Level. Unknown names map to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
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
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithRun adds the run identifier and query to a logger.
func WithRun(logger zerolog.Logger, runID, query string) zerolog.Logger {
	return logger.With().
		Str("run_id", runID).
		Str("query", query).
		Logger()
}
