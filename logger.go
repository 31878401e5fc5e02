package tagring

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with tagring-specific context.
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithKind adds a kind field to the logger.
func (l *Logger) WithKind(k Kind) *Logger {
	return &Logger{
		Logger: l.Logger.With("kind", k.String()),
	}
}

// WithNodeCount adds the range capacity to the logger.
func (l *Logger) WithNodeCount(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("node_count", n),
	}
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(ctx context.Context, k Kind, size int, err error) {
	kl := l.WithKind(k)
	if err != nil {
		kl.ErrorContext(ctx, "insert failed",
			"size", size,
			"error", err,
		)
	} else {
		kl.DebugContext(ctx, "insert completed",
			"size", size,
		)
	}
}

// LogBatchInsert logs a batch insert operation.
func (l *Logger) LogBatchInsert(ctx context.Context, count, failed int) {
	if failed > 0 {
		l.WarnContext(ctx, "batch insert completed with failures",
			"total", count,
			"failed", failed,
			"success", count-failed,
		)
	} else {
		l.InfoContext(ctx, "batch insert completed",
			"count", count,
		)
	}
}

// LogSplit logs a range split.
func (l *Logger) LogSplit(ctx context.Context, k Kind, ranges int) {
	l.WithKind(k).DebugContext(ctx, "range split",
		"ranges", ranges,
	)
}

// LogClose logs the teardown of an index.
func (l *Logger) LogClose(ctx context.Context, values int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "close failed",
			"values", values,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "index closed",
			"values", values,
		)
	}
}
