package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/seawatch-systems/seawatch-stack/common/middleware"
)

// Logger wraps slog.Logger to provide context-aware structured logging.
// It pulls the request ID and, inside an ingestion call, the correlation and
// trace IDs out of the context.
type Logger struct {
	*slog.Logger
}

// New creates a Logger writing to stdout.
// format can be "json" or "text" (default is json).
func New(level slog.Level, format string) *Logger {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter creates a Logger writing to w.
func NewWithWriter(w io.Writer, level slog.Level, format string) *Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelError,
	}

	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// Default returns the default logger (uses slog.Default).
func Default() *Logger {
	return &Logger{Logger: slog.Default()}
}

// WithContext returns a logger enriched with the identifiers found in ctx.
func (l *Logger) WithContext(ctx context.Context) *slog.Logger {
	logger := l.Logger
	if reqID := middleware.GetRequestID(ctx); reqID != "" {
		logger = logger.With(slog.String(FieldRequestID, reqID))
	}
	if corrID := middleware.GetCorrelationID(ctx); corrID != "" {
		logger = logger.With(CorrelationID(corrID))
	}
	if traceID := middleware.GetTraceID(ctx); traceID != "" {
		logger = logger.With(TraceID(traceID))
	}
	return logger
}

// InfoContext logs at Info level with context-aware fields.
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).InfoContext(ctx, msg, args...)
}

// WarnContext logs at Warn level with context-aware fields.
func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).WarnContext(ctx, msg, args...)
}

// ErrorContext logs at Error level with context-aware fields.
func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).ErrorContext(ctx, msg, args...)
}

// DebugContext logs at Debug level with context-aware fields.
func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).DebugContext(ctx, msg, args...)
}

// With returns a new logger with the given attributes added.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// ParseLevel converts a string log level to slog.Level.
// Valid values: "debug", "info", "warn", "error". Anything else is info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetDefault sets the default logger for the application.
// This affects both slog.Default() and log package functions.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}
