package provao

import (
	"context"
	"log/slog"
	"os"

	"github.com/CiroJunio/provao/metrics"
	"github.com/CiroJunio/provao/record"
)

// Logger wraps slog.Logger with provao-specific context.
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
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithMethod adds a method field to the logger.
func (l *Logger) WithMethod(m Method) *Logger {
	return &Logger{
		Logger: l.Logger.With("method", m.String()),
	}
}

// WithSource adds the source blob name to the logger.
func (l *Logger) WithSource(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", name),
	}
}

// LogPhase logs the counters of a finished phase.
func (l *Logger) LogPhase(ctx context.Context, phase metrics.Phase, c metrics.Counters) {
	l.DebugContext(ctx, "phase completed",
		"phase", phase.String(),
		"reads", c.Reads,
		"writes", c.Writes,
		"comparisons", c.Comparisons,
		"elapsed", c.Elapsed,
	)
}

// LogStage logs the copy of the requested records into the working file.
func (l *Logger) LogStage(ctx context.Context, work string, count int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "staging failed",
			"work", work,
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "staging completed",
			"work", work,
			"count", count,
		)
	}
}

// LogSort logs a sort invocation.
func (l *Logger) LogSort(ctx context.Context, order record.Order, count int64, m metrics.Metrics, err error) {
	if err != nil {
		l.ErrorContext(ctx, "sort failed",
			"order", order.String(),
			"count", count,
			"error", err,
		)
	} else {
		total := m.Total()
		l.InfoContext(ctx, "sort completed",
			"order", order.String(),
			"count", count,
			"reads", total.Reads,
			"writes", total.Writes,
			"comparisons", total.Comparisons,
			"elapsed", total.Elapsed,
		)
	}
}
