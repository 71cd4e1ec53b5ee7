package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MetricType names a server_metrics observation.
type MetricType string

const (
	MetricRequestVolume     MetricType = "request_volume"
	MetricLatencyValidation MetricType = "latency_validation"
	MetricLatencyIngestion  MetricType = "latency_ingestion"
	MetricLatencyTotal      MetricType = "latency_total"
)

// MetricObservation is one row appended to server_metrics. The timestamp is
// assigned by the database.
type MetricObservation struct {
	VesselID      *string
	MetricType    MetricType
	MetricValue   decimal.Decimal
	CorrelationID uuid.UUID
	TraceID       string
}

// MetricPoint is a stored observation returned by the admin metrics API.
type MetricPoint struct {
	MetricType  string    `json:"metricType"`
	MetricValue float64   `json:"metricValue"`
	Timestamp   time.Time `json:"timestamp"`
}

// MetricsResponse is the body of GET /api/v1/metrics.
type MetricsResponse struct {
	VesselID *string       `json:"vesselId"`
	Metrics  []MetricPoint `json:"metrics"`
}

// MetricsAggregate is the raw aggregate row produced by the metrics store.
type MetricsAggregate struct {
	VesselID      string
	RequestVolume int64
	AvgValidation decimal.Decimal
	AvgIngestion  decimal.Decimal
	AvgTotal      decimal.Decimal
	P95Total      *float64
	P99Total      *float64
}

// MetricsSummary is the aggregated latency view over a time window.
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

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	Status             string    `json:"status"`
	UptimeSeconds      uint64    `json:"uptime_seconds"`
	RequestsLastMinute int64     `json:"requests_last_minute"`
	Timestamp          time.Time `json:"timestamp"`
}
