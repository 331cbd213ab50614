// Package logging builds the zerolog logger used across a run.
//
// The logger travels in the context: callers attach it with
// logger.WithContext(ctx) and packages retrieve it with zerolog.Ctx(ctx).
package logging

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "console", "json" (default: "console")
func New(w io.Writer, level, format string) zerolog.Logger {
	if strings.ToLower(strings.TrimSpace(format)) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel converts a level name to a zerolog.Level.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithFields returns ctx carrying its logger enriched with fields.
//
//	ctx = logging.WithFields(ctx, "run_id", id, "source", path)
//	zerolog.Ctx(ctx).Info().Msg("profiling started")
func WithFields(ctx context.Context, fields ...any) context.Context {
	l := zerolog.Ctx(ctx).With().Fields(fields).Logger()
	return l.WithContext(ctx)
}
