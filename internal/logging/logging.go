// Package logging wraps slog.Logger with arxivset field names.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mesh-intelligence/arxivset/pkg/types"
)

// Logger wraps slog.Logger with helpers for load, build and filter events.
type Logger struct {
	*slog.Logger
}

// New creates a Logger with the given handler. A nil handler logs text at
// info level to stderr.
func New(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewText creates a Logger writing human-readable text to w.
func NewText(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSON creates a Logger writing JSON lines to w.
func NewJSON(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Noop creates a Logger that discards everything.
func Noop() *Logger {
	return New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// FromConfig builds a Logger writing to w from the log level and format of
// cfg. Empty values mean info and text.
func FromConfig(w io.Writer, cfg types.Config) (*Logger, error) {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	switch cfg.LogFormat {
	case "", types.LogFormatText:
		return NewText(w, level), nil
	case types.LogFormatJSON:
		return NewJSON(w, level), nil
	default:
		return nil, fmt.Errorf("log format %q: %w", cfg.LogFormat, types.ErrLogFormatUnknown)
	}
}

// ParseLevel maps debug, info, warn and error to slog levels. Empty is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log level %q: %w", s, types.ErrLogLevelUnknown)
	}
}

// WithLoadID tags every record with the load run id.
func (l *Logger) WithLoadID(id string) *Logger {
	return &Logger{Logger: l.Logger.With("load_id", id)}
}

// WithSource adds the source URI.
func (l *Logger) WithSource(uri string) *Logger {
	return &Logger{Logger: l.Logger.With("source", uri)}
}

// LogLoad logs the end of a load.
func (l *Logger) LogLoad(ctx context.Context, records int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"records", records,
			"elapsed", elapsed,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "load completed",
		"records", records,
		"elapsed", elapsed,
	)
}

// LogBuild logs table construction.
func (l *Logger) LogBuild(ctx context.Context, rows, categories int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "table build failed",
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "table built",
		"rows", rows,
		"categories", categories,
	)
}

// LogFilter logs a dataset filter.
func (l *Logger) LogFilter(ctx context.Context, criterion string, in, out int, err error) {
	if err != nil {
		l.WarnContext(ctx, "filter failed",
			"criterion", criterion,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "filter applied",
		"criterion", criterion,
		"rows_in", in,
		"rows_out", out,
	)
}
