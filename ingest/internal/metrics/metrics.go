package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion outcomes.
const (
	OutcomeSuccess      = "success"
	OutcomeForbidden    = "forbidden"
	OutcomeStorageError = "storage_error"
	OutcomeError        = "error"
)

// Pipeline stages timed by the orchestrator.
const (
	StageValidation = "validation"
	StageIngestion  = "ingestion"
	StageTotal      = "total"
)

var (
	// Ingestion call metrics
	IngestRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seawatch_ingest_requests_total",
			Help: "Total number of telemetry ingestion calls by outcome",
		},
		[]string{"outcome"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seawatch_ingest_stage_duration_seconds",
			Help:    "Duration of ingestion pipeline stages in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	// Classification metrics
	SignalsClassifiedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seawatch_ingest_signals_classified_total",
			Help: "Total number of submitted signals by classification result",
		},
		[]string{"result"},
	)

	RegistrySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "seawatch_ingest_signal_registry_size",
			Help: "Number of signals in the most recently loaded registry snapshot",
		},
	)

	// Access gate metrics
	APIKeyValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seawatch_ingest_api_key_validations_total",
			Help: "Total number of API key validations by result",
		},
		[]string{"result"},
	)

	// Storage metrics
	BatchWriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seawatch_ingest_batch_write_duration_seconds",
			Help:    "Duration of transactional telemetry batch writes in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"table"},
	)
)

// ObserveStage records a stage duration.
func ObserveStage(stage string, d time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordClassification counts one call's valid and invalid signals.
func RecordClassification(valid, invalid int) {
	SignalsClassifiedTotal.WithLabelValues("valid").Add(float64(valid))
	SignalsClassifiedTotal.WithLabelValues("invalid").Add(float64(invalid))
}
