package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seawatch-systems/seawatch-stack/common/logging"
	"github.com/seawatch-systems/seawatch-stack/common/middleware"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/apperror"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/metrics"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/models"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/repository"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/validator"
)

const successMessage = "Telemetry ingested successfully"

// IngestService runs the telemetry ingestion pipeline for one call at a time.
// It holds no per-call state; the repositories are the only shared resources.
type IngestService struct {
	vessels    repository.VesselRepository
	signals    repository.SignalRepository
	telemetry  repository.TelemetryRepository
	recorder   *MetricsService
	classifier *validator.Classifier
	logger     *logging.Logger
}

func NewIngestService(
	vessels repository.VesselRepository,
	signals repository.SignalRepository,
	telemetry repository.TelemetryRepository,
	recorder *MetricsService,
	logger *logging.Logger,
) *IngestService {
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestService{
		vessels:    vessels,
		signals:    signals,
		telemetry:  telemetry,
		recorder:   recorder,
		classifier: validator.NewClassifier(nil),
		logger:     logger,
	}
}

// IngestTelemetry authorizes, classifies and persists one vessel submission.
// authenticatedVesselID is the identity resolved from the caller's API key;
// a payload claiming another vessel is rejected before anything is recorded.
func (s *IngestService) IngestTelemetry(ctx context.Context, authenticatedVesselID string, req *models.TelemetryRequest) (*models.TelemetryResponse, error) {
	resp, err := s.ingest(ctx, authenticatedVesselID, req)
	metrics.IngestRequestsTotal.WithLabelValues(outcomeFor(err)).Inc()
	return resp, err
}

func outcomeFor(err error) string {
	var appErr *apperror.Error
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &appErr) && appErr.Kind == apperror.KindForbidden:
		return metrics.OutcomeForbidden
	case errors.As(err, &appErr) && appErr.Kind == apperror.KindDatabase:
		return metrics.OutcomeStorageError
	default:
		return metrics.OutcomeError
	}
}

func (s *IngestService) ingest(ctx context.Context, authenticatedVesselID string, req *models.TelemetryRequest) (*models.TelemetryResponse, error) {
	if req.VesselID != authenticatedVesselID {
		return nil, apperror.Forbiddenf("Vessel ID mismatch: authenticated as '%s' but payload contains '%s'",
			authenticatedVesselID, req.VesselID)
	}

	correlationID := uuid.New()
	traceID := uuid.NewString()
	totalStart := time.Now()
	vesselID := req.VesselID

	ctx = middleware.WithCorrelation(ctx, correlationID.String(), traceID)
	s.logger.InfoContext(ctx, "Starting telemetry ingestion", logging.VesselID(vesselID))

	if err := s.recorder.Record(ctx, &vesselID, models.MetricRequestVolume, decimal.NewFromInt(1), correlationID, traceID); err != nil {
		return nil, err
	}

	validationStart := time.Now()
	registry, err := s.validateVesselAndLoadSignals(ctx, vesselID)
	if err != nil {
		return nil, err
	}
	validationDuration := time.Since(validationStart)
	metrics.ObserveStage(metrics.StageValidation, validationDuration)
	s.logger.InfoContext(ctx, "Validation layer completed", logging.Duration(validationDuration.Milliseconds()))

	result := s.classifier.Classify(registry, models.Envelope{
		VesselID:      vesselID,
		TimestampUTC:  req.TimestampUTC,
		EpochUTC:      req.Epoch(),
		CorrelationID: correlationID,
		TraceID:       traceID,
	}, req.Signals)
	metrics.RecordClassification(len(result.Valid), len(result.Invalid))
	for _, rec := range result.Invalid {
		s.logger.WarnContext(ctx, "Signal rejected", logging.Signal(rec.SignalName), logging.Reason(rec.Reason))
	}
	s.logger.InfoContext(ctx, "Signal validation completed",
		slog.Int("valid_count", len(result.Valid)),
		slog.Int("invalid_count", len(result.Invalid)),
	)

	if err := s.recorder.RecordLatency(ctx, &vesselID, models.MetricLatencyValidation, validationDuration, correlationID, traceID); err != nil {
		return nil, err
	}

	ingestionStart := time.Now()
	if err := s.persist(ctx, result); err != nil {
		return nil, err
	}
	ingestionDuration := time.Since(ingestionStart)
	metrics.ObserveStage(metrics.StageIngestion, ingestionDuration)
	s.logger.InfoContext(ctx, "Ingestion layer completed", logging.Duration(ingestionDuration.Milliseconds()))

	if err := s.recorder.RecordLatency(ctx, &vesselID, models.MetricLatencyIngestion, ingestionDuration, correlationID, traceID); err != nil {
		return nil, err
	}

	totalDuration := time.Since(totalStart)
	if err := s.recorder.RecordLatency(ctx, &vesselID, models.MetricLatencyTotal, totalDuration, correlationID, traceID); err != nil {
		return nil, err
	}
	metrics.ObserveStage(metrics.StageTotal, totalDuration)
	s.logger.InfoContext(ctx, "Telemetry ingestion completed successfully", logging.Duration(totalDuration.Milliseconds()))

	return &models.TelemetryResponse{
		Message:        successMessage,
		CorrelationID:  correlationID,
		ValidSignals:   len(result.Valid),
		InvalidSignals: len(result.Invalid),
	}, nil
}

// validateVesselAndLoadSignals checks the vessel is registered and active,
// then reads a fresh registry snapshot.
func (s *IngestService) validateVesselAndLoadSignals(ctx context.Context, vesselID string) (models.SignalRegistry, error) {
	if _, err := s.vessels.FindActiveVessel(ctx, vesselID); err != nil {
		if errors.Is(err, repository.ErrVesselNotFound) {
			s.logger.WarnContext(ctx, "Vessel not registered", logging.VesselID(vesselID))
			return nil, apperror.Forbiddenf("Vessel %s is not registered in vessel_register_table", vesselID)
		}
		return nil, apperror.Database(err)
	}

	registry, err := s.signals.FindAllSignals(ctx)
	if err != nil {
		return nil, apperror.Database(err)
	}
	metrics.RegistrySize.Set(float64(len(registry)))
	s.logger.DebugContext(ctx, "Registered signals loaded", logging.Count(len(registry)))
	return registry, nil
}

// persist writes valid readings, then invalid ones. The two batches commit
// independently; a failure in the second leaves the first in place.
func (s *IngestService) persist(ctx context.Context, result validator.Result) error {
	if len(result.Valid) > 0 {
		start := time.Now()
		if err := s.telemetry.InsertRawBatch(ctx, result.Valid); err != nil {
			return apperror.Database(err)
		}
		metrics.BatchWriteDuration.WithLabelValues("telemetry_raw").Observe(time.Since(start).Seconds())
		s.logger.DebugContext(ctx, "Valid signals written", logging.Count(len(result.Valid)))
	}

	if len(result.Invalid) > 0 {
		start := time.Now()
		if err := s.telemetry.InsertFilteredBatch(ctx, result.Invalid); err != nil {
			return apperror.Database(err)
		}
		metrics.BatchWriteDuration.WithLabelValues("telemetry_filtered").Observe(time.Since(start).Seconds())
		s.logger.DebugContext(ctx, "Invalid signals written", logging.Count(len(result.Invalid)))
	}
	return nil
}
