package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/seawatch-systems/seawatch-stack/common/logging"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/apperror"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/metrics"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/models"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/repository"
)

const testVessel = "IMO-9321483"

func discardLogger() *logging.Logger {
	return logging.NewWithWriter(io.Discard, slog.LevelDebug, "json")
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newTestRequest(vesselID string, signals map[string]string) *models.TelemetryRequest {
	raw := make(map[string]json.RawMessage, len(signals))
	for k, v := range signals {
		raw[k] = json.RawMessage(v)
	}
	return &models.TelemetryRequest{
		VesselID:     vesselID,
		TimestampUTC: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
		EpochUTC:     "1736937000",
		Signals:      raw,
	}
}

func seededMemoryRepo(t *testing.T) *repository.InMemoryRepository {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewInMemoryRepository()

	_, err := repo.CreateVessel(ctx, &models.Vessel{VesselID: testVessel, VesselName: "Northern Star"})
	require.NoError(t, err)

	_, err = repo.UpsertSignals(ctx, []models.SignalDefinition{
		{Name: "engine_temp", Type: models.SignalTypeAnalog, MinValue: decPtr("0"), MaxValue: decPtr("150")},
		{Name: "bilge_pump", Type: models.SignalTypeDigital},
	})
	require.NoError(t, err)
	return repo
}

func newMemoryIngestService(repo *repository.InMemoryRepository) *IngestService {
	return NewIngestService(repo, repo, repo, NewMetricsService(repo), discardLogger())
}

func newMockIngestService(repo *MockRepository) *IngestService {
	return NewIngestService(repo, repo, repo, NewMetricsService(repo), discardLogger())
}

func metricTypes(obs []models.MetricObservation) []models.MetricType {
	out := make([]models.MetricType, 0, len(obs))
	for _, o := range obs {
		out = append(out, o.MetricType)
	}
	return out
}

func TestIngestTelemetry_EndToEnd(t *testing.T) {
	repo := seededMemoryRepo(t)
	svc := newMemoryIngestService(repo)

	before := testutil.ToFloat64(metrics.IngestRequestsTotal.WithLabelValues(metrics.OutcomeSuccess))

	resp, err := svc.IngestTelemetry(context.Background(), testVessel, newTestRequest(testVessel, map[string]string{
		"engine_temp": "200",
		"bilge_pump":  "1",
		"unknown_sig": "5",
	}))
	require.NoError(t, err)

	assert.Equal(t, "Telemetry ingested successfully", resp.Message)
	assert.Equal(t, 1, resp.ValidSignals)
	assert.Equal(t, 2, resp.InvalidSignals)

	raw := repo.RawRecords()
	require.Len(t, raw, 1)
	assert.Equal(t, "bilge_pump", raw[0].SignalName)
	assert.True(t, raw[0].SignalValue.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, int64(1736937000), raw[0].EpochUTC)

	filtered := repo.FilteredRecords()
	require.Len(t, filtered, 2)
	reasons := map[string]string{}
	for _, rec := range filtered {
		reasons[rec.SignalName] = rec.Reason
		assert.Equal(t, resp.CorrelationID, rec.CorrelationID)
		assert.Equal(t, raw[0].TraceID, rec.TraceID)
	}
	assert.Contains(t, reasons["engine_temp"], "above maximum 150")
	assert.Equal(t, "unregistered_signal", reasons["unknown_sig"])

	obs := repo.Observations()
	assert.Equal(t, []models.MetricType{
		models.MetricRequestVolume,
		models.MetricLatencyValidation,
		models.MetricLatencyIngestion,
		models.MetricLatencyTotal,
	}, metricTypes(obs))
	for _, o := range obs {
		require.NotNil(t, o.VesselID)
		assert.Equal(t, testVessel, *o.VesselID)
		assert.Equal(t, resp.CorrelationID, o.CorrelationID)
		assert.Equal(t, raw[0].TraceID, o.TraceID)
		assert.False(t, o.MetricValue.IsNegative())
	}
	assert.True(t, obs[0].MetricValue.Equal(decimal.NewFromInt(1)))

	after := testutil.ToFloat64(metrics.IngestRequestsTotal.WithLabelValues(metrics.OutcomeSuccess))
	assert.Equal(t, before+1, after)
}

func TestIngestTelemetry_FreshIdsPerCall(t *testing.T) {
	repo := seededMemoryRepo(t)
	svc := newMemoryIngestService(repo)
	req := newTestRequest(testVessel, map[string]string{"bilge_pump": "0"})

	first, err := svc.IngestTelemetry(context.Background(), testVessel, req)
	require.NoError(t, err)
	second, err := svc.IngestTelemetry(context.Background(), testVessel, req)
	require.NoError(t, err)

	assert.NotEqual(t, first.CorrelationID, second.CorrelationID)
	raw := repo.RawRecords()
	require.Len(t, raw, 2)
	assert.NotEqual(t, raw[0].TraceID, raw[1].TraceID)
}

func TestIngestTelemetry_EmptySignals(t *testing.T) {
	repo := seededMemoryRepo(t)
	svc := newMemoryIngestService(repo)

	resp, err := svc.IngestTelemetry(context.Background(), testVessel, newTestRequest(testVessel, nil))
	require.NoError(t, err)

	assert.Zero(t, resp.ValidSignals)
	assert.Zero(t, resp.InvalidSignals)
	assert.Empty(t, repo.RawRecords())
	assert.Empty(t, repo.FilteredRecords())
	assert.Len(t, repo.Observations(), 4)
}

func TestIngestTelemetry_UnparsableEpochBecomesZero(t *testing.T) {
	repo := seededMemoryRepo(t)
	svc := newMemoryIngestService(repo)
	req := newTestRequest(testVessel, map[string]string{"bilge_pump": "1"})
	req.EpochUTC = "not-a-number"

	_, err := svc.IngestTelemetry(context.Background(), testVessel, req)
	require.NoError(t, err)

	raw := repo.RawRecords()
	require.Len(t, raw, 1)
	assert.Zero(t, raw[0].EpochUTC)
}

func TestIngestTelemetry_UnregisteredVessel(t *testing.T) {
	repo := seededMemoryRepo(t)
	svc := newMemoryIngestService(repo)

	before := testutil.ToFloat64(metrics.IngestRequestsTotal.WithLabelValues(metrics.OutcomeForbidden))

	resp, err := svc.IngestTelemetry(context.Background(), "IMO-0000000",
		newTestRequest("IMO-0000000", map[string]string{"bilge_pump": "1"}))
	require.Error(t, err)
	assert.Nil(t, resp)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindForbidden, appErr.Kind)
	assert.Equal(t, "Vessel IMO-0000000 is not registered in vessel_register_table", appErr.Message)

	obs := repo.Observations()
	assert.Equal(t, []models.MetricType{models.MetricRequestVolume}, metricTypes(obs))
	assert.Empty(t, repo.RawRecords())
	assert.Empty(t, repo.FilteredRecords())

	after := testutil.ToFloat64(metrics.IngestRequestsTotal.WithLabelValues(metrics.OutcomeForbidden))
	assert.Equal(t, before+1, after)
}

func TestIngestTelemetry_DeactivatedVessel(t *testing.T) {
	repo := seededMemoryRepo(t)
	require.NoError(t, repo.DeactivateVessel(context.Background(), testVessel))
	svc := newMemoryIngestService(repo)

	_, err := svc.IngestTelemetry(context.Background(), testVessel,
		newTestRequest(testVessel, map[string]string{"bilge_pump": "1"}))
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}

func TestIngestTelemetry_IdentityMismatch(t *testing.T) {
	repo := new(MockRepository)
	svc := newMockIngestService(repo)

	_, err := svc.IngestTelemetry(context.Background(), "IMO-1111111",
		newTestRequest("IMO-2222222", map[string]string{"bilge_pump": "1"}))
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
	assert.Equal(t, "Vessel ID mismatch: authenticated as 'IMO-1111111' but payload contains 'IMO-2222222'", err.Error())

	repo.AssertNotCalled(t, "InsertMetric", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "FindActiveVessel", mock.Anything, mock.Anything)
}

func TestIngestTelemetry_RequestVolumeFailureAborts(t *testing.T) {
	repo := new(MockRepository)
	svc := newMockIngestService(repo)

	repo.On("InsertMetric", mock.Anything, mock.MatchedBy(func(o models.MetricObservation) bool {
		return o.MetricType == models.MetricRequestVolume
	})).Return(errors.New("connection refused"))

	_, err := svc.IngestTelemetry(context.Background(), testVessel,
		newTestRequest(testVessel, map[string]string{"bilge_pump": "1"}))
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindDatabase))
	assert.Equal(t, "Database error: connection refused", err.Error())

	repo.AssertNotCalled(t, "FindActiveVessel", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestIngestTelemetry_RegistryLoadFailure(t *testing.T) {
	repo := new(MockRepository)
	svc := newMockIngestService(repo)

	repo.On("InsertMetric", mock.Anything, mock.Anything).Return(nil)
	repo.On("FindActiveVessel", mock.Anything, testVessel).Return(&models.Vessel{VesselID: testVessel, IsActive: true}, nil)
	repo.On("FindAllSignals", mock.Anything).Return(nil, errors.New("timeout"))

	_, err := svc.IngestTelemetry(context.Background(), testVessel,
		newTestRequest(testVessel, map[string]string{"bilge_pump": "1"}))
	assert.True(t, apperror.IsKind(err, apperror.KindDatabase))

	repo.AssertNumberOfCalls(t, "InsertMetric", 1)
	repo.AssertNotCalled(t, "InsertRawBatch", mock.Anything, mock.Anything)
}

func TestIngestTelemetry_InvalidWriteFailureKeepsValidWrite(t *testing.T) {
	repo := new(MockRepository)
	svc := newMockIngestService(repo)

	registry := models.SignalRegistry{
		"bilge_pump": {Name: "bilge_pump", Type: models.SignalTypeDigital},
	}

	var recorded []models.MetricType
	repo.On("InsertMetric", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		recorded = append(recorded, args.Get(1).(models.MetricObservation).MetricType)
	}).Return(nil)
	repo.On("FindActiveVessel", mock.Anything, testVessel).Return(&models.Vessel{VesselID: testVessel, IsActive: true}, nil)
	repo.On("FindAllSignals", mock.Anything).Return(registry, nil)
	repo.On("InsertRawBatch", mock.Anything, mock.MatchedBy(func(recs []models.ValidRecord) bool {
		return len(recs) == 1 && recs[0].SignalName == "bilge_pump"
	})).Return(nil).Once()
	repo.On("InsertFilteredBatch", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	before := testutil.ToFloat64(metrics.IngestRequestsTotal.WithLabelValues(metrics.OutcomeStorageError))

	_, err := svc.IngestTelemetry(context.Background(), testVessel,
		newTestRequest(testVessel, map[string]string{"bilge_pump": "1", "mystery": "3"}))
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindDatabase))

	repo.AssertExpectations(t)
	assert.Equal(t, []models.MetricType{models.MetricRequestVolume, models.MetricLatencyValidation}, recorded)

	after := testutil.ToFloat64(metrics.IngestRequestsTotal.WithLabelValues(metrics.OutcomeStorageError))
	assert.Equal(t, before+1, after)
}

func TestIngestTelemetry_SkipsEmptyBatches(t *testing.T) {
	repo := new(MockRepository)
	svc := newMockIngestService(repo)

	repo.On("InsertMetric", mock.Anything, mock.Anything).Return(nil)
	repo.On("FindActiveVessel", mock.Anything, testVessel).Return(&models.Vessel{VesselID: testVessel, IsActive: true}, nil)
	repo.On("FindAllSignals", mock.Anything).Return(models.SignalRegistry{}, nil)
	repo.On("InsertFilteredBatch", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.IngestTelemetry(context.Background(), testVessel,
		newTestRequest(testVessel, map[string]string{"a": "1", "b": `"text"`}))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.InvalidSignals)

	repo.AssertNotCalled(t, "InsertRawBatch", mock.Anything, mock.Anything)
	repo.AssertNumberOfCalls(t, "InsertMetric", 4)
}
