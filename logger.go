package slotmatch

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with slotmatch-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithStrategy adds a strategy field to the logger.
func (l *Logger) WithStrategy(s Strategy) *Logger {
	return &Logger{
		Logger: l.Logger.With("strategy", s.String()),
	}
}

// LogLoad logs how long reading the input took.
func (l *Logger) LogLoad(ctx context.Context, users, events int, d time.Duration) {
	l.DebugContext(ctx, "input loaded",
		"users", users,
		"events", events,
		"duration", d,
	)
}

// LogMatch logs a finished match run.
func (l *Logger) LogMatch(ctx context.Context, res *Result, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "match failed",
			"duration", d,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "match completed",
		"users", res.Users,
		"events", res.Events,
		"matches", res.Total(),
		"load", res.Timings.Load,
		"match", res.Timings.Match,
		"kernel", res.Timings.Kernel,
		"duration", d,
	)
}
