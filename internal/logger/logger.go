// Package logger configures the application's logging.
//
// It uses *zerolog* for structured logs and provides an adapter so the
// Cassandra driver's own diagnostics end up in the same stream.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/deppfellow/cassandra-sample/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// New builds the application logger from the observability config.
//
// Production or format=json writes JSON to stdout. Everything else gets the
// human friendly console writer.
func New(cfg *config.ObservabilityConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with an explicit destination, used by tests.
func NewWithWriter(cfg *config.ObservabilityConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	// Stack traces for errors wrapped with github.com/pkg/errors.
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if !cfg.IsProduction() && cfg.Logging.Format != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Logger()
}

// Bootstrap returns a console logger for the phase before config is loaded.
func Bootstrap() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
