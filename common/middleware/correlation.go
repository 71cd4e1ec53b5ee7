package middleware

import "context"

const (
	correlationIDKey = contextKey("correlation-id")
	traceIDKey       = contextKey("trace-id")
)

// WithCorrelation stores the correlation and trace identifiers of one
// ingestion call in ctx so every log line emitted for that call carries them.
func WithCorrelation(ctx context.Context, correlationID, traceID string) context.Context {
	ctx = context.WithValue(ctx, correlationIDKey, correlationID)
	return context.WithValue(ctx, traceIDKey, traceID)
}

// GetCorrelationID returns the correlation ID stored by WithCorrelation.
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// GetTraceID returns the trace ID stored by WithCorrelation.
func GetTraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey).(string); ok {
		return id
	}
	return ""
}
