package client

import (
	"encoding/json"
	"time"
)

type Vessel struct {
	VesselID   string    `json:"vesselId"`
	VesselName string    `json:"vesselName"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type APIKey struct {
	ID         int32      `json:"id"`
	VesselID   string     `json:"vesselId"`
	APIKey     string     `json:"apiKey"`
	IsActive   bool       `json:"isActive"`
	CreatedAt  time.Time  `json:"createdAt"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	LastUsedAt *time.Time `json:"lastUsedAt"`
}

type MetricPoint struct {
	MetricType  string    `json:"metricType"`
	MetricValue float64   `json:"metricValue"`
	Timestamp   time.Time `json:"timestamp"`
}

type Metrics struct {
	VesselID *string       `json:"vesselId"`
	Metrics  []MetricPoint `json:"metrics"`
}

type MetricsSummary struct {
	VesselID               *string  `json:"vesselId"`
	TimeRange              string   `json:"timeRange"`
	RequestVolume          int64    `json:"requestVolume"`
	AvgValidationLatencyMs float64  `json:"avgValidationLatencyMs"`
	AvgIngestionLatencyMs  float64  `json:"avgIngestionLatencyMs"`
	AvgTotalLatencyMs      float64  `json:"avgTotalLatencyMs"`
	P95TotalLatencyMs      *float64 `json:"p95TotalLatencyMs"`
	P99TotalLatencyMs      *float64 `json:"p99TotalLatencyMs"`
}

type Health struct {
	Status             string    `json:"status"`
	UptimeSeconds      uint64    `json:"uptime_seconds"`
	RequestsLastMinute int64     `json:"requests_last_minute"`
	Timestamp          time.Time `json:"timestamp"`
}

// Telemetry is one ingestion payload. Signal values are sent verbatim.
type Telemetry struct {
	VesselID     string                     `json:"vesselId"`
	TimestampUTC time.Time                  `json:"timestampUTC"`
	EpochUTC     string                     `json:"epochUTC"`
	Signals      map[string]json.RawMessage `json:"signals"`
}

type TelemetryResult struct {
	Message        string `json:"message"`
	CorrelationID  string `json:"correlationId"`
	ValidSignals   int    `json:"validSignals"`
	InvalidSignals int    `json:"invalidSignals"`
}
