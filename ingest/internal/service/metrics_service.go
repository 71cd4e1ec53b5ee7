package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/seawatch-systems/seawatch-stack/ingest/internal/apperror"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/models"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/repository"
)

// DefaultMetricsHours is the look-back window when none is requested.
const DefaultMetricsHours = 24.0

// MetricsService records server_metrics observations and serves the admin
// metrics views.
type MetricsService struct {
	repo      repository.MetricsRepository
	startTime time.Time
}

func NewMetricsService(repo repository.MetricsRepository) *MetricsService {
	return &MetricsService{repo: repo, startTime: time.Now()}
}

// Record appends one observation. Failures surface as Database errors.
func (s *MetricsService) Record(ctx context.Context, vesselID *string, metricType models.MetricType, value decimal.Decimal, correlationID uuid.UUID, traceID string) error {
	err := s.repo.InsertMetric(ctx, models.MetricObservation{
		VesselID:      vesselID,
		MetricType:    metricType,
		MetricValue:   value,
		CorrelationID: correlationID,
		TraceID:       traceID,
	})
	if err != nil {
		return apperror.Database(err)
	}
	return nil
}

// RecordLatency records a duration as whole milliseconds.
func (s *MetricsService) RecordLatency(ctx context.Context, vesselID *string, metricType models.MetricType, d time.Duration, correlationID uuid.UUID, traceID string) error {
	return s.Record(ctx, vesselID, metricType, decimal.NewFromInt(d.Milliseconds()), correlationID, traceID)
}

// UptimeSeconds reports how long the service has been running.
func (s *MetricsService) UptimeSeconds() uint64 {
	return uint64(time.Since(s.startTime).Seconds())
}

func (s *MetricsService) RequestCountLastMinute(ctx context.Context) (int64, error) {
	count, err := s.repo.CountRequestsSince(ctx, time.Minute)
	if err != nil {
		return 0, apperror.Database(err)
	}
	return count, nil
}

func (s *MetricsService) Health(ctx context.Context) (*models.HealthResponse, error) {
	count, err := s.RequestCountLastMinute(ctx)
	if err != nil {
		return nil, err
	}
	return &models.HealthResponse{
		Status:             "healthy",
		UptimeSeconds:      s.UptimeSeconds(),
		RequestsLastMinute: count,
		Timestamp:          time.Now().UTC(),
	}, nil
}

func (s *MetricsService) GetMetrics(ctx context.Context, vesselID *string, hours float64) (*models.MetricsResponse, error) {
	points, err := s.repo.GetMetrics(ctx, vesselID, hours)
	if err != nil {
		return nil, apperror.Database(err)
	}
	if points == nil {
		points = []models.MetricPoint{}
	}
	return &models.MetricsResponse{VesselID: vesselID, Metrics: points}, nil
}

func (s *MetricsService) GetSummary(ctx context.Context, vesselID *string, hours float64) (*models.MetricsSummary, error) {
	agg, err := s.repo.GetSummary(ctx, vesselID, hours)
	if err != nil {
		return nil, apperror.Database(err)
	}
	summary := toSummary(*agg, hours)
	summary.VesselID = vesselID
	return &summary, nil
}

func (s *MetricsService) GetVesselSummaries(ctx context.Context, hours float64) ([]models.MetricsSummary, error) {
	aggs, err := s.repo.GetVesselSummaries(ctx, hours)
	if err != nil {
		return nil, apperror.Database(err)
	}
	summaries := make([]models.MetricsSummary, 0, len(aggs))
	for _, agg := range aggs {
		summary := toSummary(agg, hours)
		vesselID := agg.VesselID
		summary.VesselID = &vesselID
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// TimeRangeLabel renders a window such as "Last 24 hours".
func TimeRangeLabel(hours float64) string {
	return fmt.Sprintf("Last %s hours", strconv.FormatFloat(hours, 'f', -1, 64))
}

func toSummary(agg models.MetricsAggregate, hours float64) models.MetricsSummary {
	return models.MetricsSummary{
		TimeRange:              TimeRangeLabel(hours),
		RequestVolume:          agg.RequestVolume,
		AvgValidationLatencyMs: agg.AvgValidation.InexactFloat64(),
		AvgIngestionLatencyMs:  agg.AvgIngestion.InexactFloat64(),
		AvgTotalLatencyMs:      agg.AvgTotal.InexactFloat64(),
		P95TotalLatencyMs:      agg.P95Total,
		P99TotalLatencyMs:      agg.P99Total,
	}
}
