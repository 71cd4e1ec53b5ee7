package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/seawatch-systems/seawatch-stack/ingest/internal/models"
)

// MockRepository is a mock implementation of repository.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindActiveVessel(ctx context.Context, vesselID string) (*models.Vessel, error) {
	args := m.Called(ctx, vesselID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vessel), args.Error(1)
}

func (m *MockRepository) CreateVessel(ctx context.Context, vessel *models.Vessel) (*models.Vessel, error) {
	args := m.Called(ctx, vessel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vessel), args.Error(1)
}

func (m *MockRepository) ListVessels(ctx context.Context) ([]*models.Vessel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Vessel), args.Error(1)
}

func (m *MockRepository) DeactivateVessel(ctx context.Context, vesselID string) error {
	args := m.Called(ctx, vesselID)
	return args.Error(0)
}

func (m *MockRepository) FindAllSignals(ctx context.Context) (models.SignalRegistry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.SignalRegistry), args.Error(1)
}

func (m *MockRepository) UpsertSignals(ctx context.Context, defs []models.SignalDefinition) (int, error) {
	args := m.Called(ctx, defs)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) ValidateAPIKey(ctx context.Context, apiKey string) (string, error) {
	args := m.Called(ctx, apiKey)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) UpdateLastUsed(ctx context.Context, apiKey string) error {
	args := m.Called(ctx, apiKey)
	return args.Error(0)
}

func (m *MockRepository) CreateAPIKey(ctx context.Context, vesselID, apiKey string, expiresAt *time.Time) (*models.APIKey, error) {
	args := m.Called(ctx, vesselID, apiKey, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.APIKey), args.Error(1)
}

func (m *MockRepository) ListAPIKeys(ctx context.Context, vesselID string) ([]*models.APIKey, error) {
	args := m.Called(ctx, vesselID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.APIKey), args.Error(1)
}

func (m *MockRepository) RevokeAPIKey(ctx context.Context, apiKey string) error {
	args := m.Called(ctx, apiKey)
	return args.Error(0)
}

func (m *MockRepository) InsertRawBatch(ctx context.Context, records []models.ValidRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockRepository) InsertFilteredBatch(ctx context.Context, records []models.InvalidRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockRepository) InsertMetric(ctx context.Context, obs models.MetricObservation) error {
	args := m.Called(ctx, obs)
	return args.Error(0)
}

func (m *MockRepository) CountRequestsSince(ctx context.Context, window time.Duration) (int64, error) {
	args := m.Called(ctx, window)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) GetMetrics(ctx context.Context, vesselID *string, hours float64) ([]models.MetricPoint, error) {
	args := m.Called(ctx, vesselID, hours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MetricPoint), args.Error(1)
}

func (m *MockRepository) GetSummary(ctx context.Context, vesselID *string, hours float64) (*models.MetricsAggregate, error) {
	args := m.Called(ctx, vesselID, hours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MetricsAggregate), args.Error(1)
}

func (m *MockRepository) GetVesselSummaries(ctx context.Context, hours float64) ([]models.MetricsAggregate, error) {
	args := m.Called(ctx, hours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MetricsAggregate), args.Error(1)
}

func (m *MockRepository) Close() {
	m.Called()
}
