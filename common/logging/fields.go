package logging

import "log/slog"

// Common field names for consistent logging across services.
const (
	FieldService       = "service"
	FieldRequestID     = "request_id"
	FieldVesselID      = "vessel_id"
	FieldCorrelationID = "correlation_id"
	FieldTraceID       = "trace_id"
	FieldSignal        = "signal"
	FieldReason        = "reason"
	FieldCount         = "count"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatus        = "status"
	FieldClientIP      = "client_ip"
	FieldDuration      = "duration_ms"
	FieldError         = "error"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// VesselID returns a slog attribute for the vessel identity.
func VesselID(id string) slog.Attr {
	return slog.String(FieldVesselID, id)
}

// CorrelationID returns a slog attribute for the per-call correlation ID.
func CorrelationID(id string) slog.Attr {
	return slog.String(FieldCorrelationID, id)
}

// TraceID returns a slog attribute for the per-call trace ID.
func TraceID(id string) slog.Attr {
	return slog.String(FieldTraceID, id)
}

// Signal returns a slog attribute for a signal name.
func Signal(name string) slog.Attr {
	return slog.String(FieldSignal, name)
}

// Reason returns a slog attribute for a rejection reason.
func Reason(reason string) slog.Attr {
	return slog.String(FieldReason, reason)
}

// Count returns a slog attribute for a record count.
func Count(n int) slog.Attr {
	return slog.Int(FieldCount, n)
}

// Method returns a slog attribute for the HTTP method.
func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

// Path returns a slog attribute for the HTTP path.
func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// ClientIP returns a slog attribute for the caller's address.
func ClientIP(ip string) slog.Attr {
	return slog.String(FieldClientIP, ip)
}

// Duration returns a slog attribute for duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}
