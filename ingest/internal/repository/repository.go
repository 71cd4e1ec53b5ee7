package repository

import (
	"context"
	"errors"
	"time"

	"github.com/seawatch-systems/seawatch-stack/ingest/internal/models"
)

var (
	ErrVesselNotFound = errors.New("vessel not found")
	ErrVesselExists   = errors.New("vessel already exists")
	ErrAPIKeyNotFound = errors.New("API key not found")
)

// VesselRepository reads and maintains vessel_register_table.
type VesselRepository interface {
	// FindActiveVessel returns ErrVesselNotFound when the vessel is absent or inactive.
	FindActiveVessel(ctx context.Context, vesselID string) (*models.Vessel, error)
	CreateVessel(ctx context.Context, vessel *models.Vessel) (*models.Vessel, error)
	ListVessels(ctx context.Context) ([]*models.Vessel, error)
	DeactivateVessel(ctx context.Context, vesselID string) error
}

// SignalRepository reads signal_register_table. FindAllSignals always hits
// the store; callers get a fresh snapshot every time.
type SignalRepository interface {
	FindAllSignals(ctx context.Context) (models.SignalRegistry, error)
	UpsertSignals(ctx context.Context, defs []models.SignalDefinition) (int, error)
}

// APIKeyRepository reads and maintains api_keys.
type APIKeyRepository interface {
	// ValidateAPIKey returns the owning vessel of an active, unexpired key,
	// or ErrAPIKeyNotFound.
	ValidateAPIKey(ctx context.Context, apiKey string) (string, error)
	UpdateLastUsed(ctx context.Context, apiKey string) error
	CreateAPIKey(ctx context.Context, vesselID, apiKey string, expiresAt *time.Time) (*models.APIKey, error)
	ListAPIKeys(ctx context.Context, vesselID string) ([]*models.APIKey, error)
	RevokeAPIKey(ctx context.Context, apiKey string) error
}

// TelemetryRepository writes classified readings. Each batch is committed in
// its own transaction; an empty batch opens none.
type TelemetryRepository interface {
	InsertRawBatch(ctx context.Context, records []models.ValidRecord) error
	InsertFilteredBatch(ctx context.Context, records []models.InvalidRecord) error
}

// MetricsRepository appends to and aggregates server_metrics.
type MetricsRepository interface {
	InsertMetric(ctx context.Context, obs models.MetricObservation) error
	CountRequestsSince(ctx context.Context, window time.Duration) (int64, error)
	GetMetrics(ctx context.Context, vesselID *string, hours float64) ([]models.MetricPoint, error)
	GetSummary(ctx context.Context, vesselID *string, hours float64) (*models.MetricsAggregate, error)
	GetVesselSummaries(ctx context.Context, hours float64) ([]models.MetricsAggregate, error)
}

// Repository is the full storage surface of the ingest service.
type Repository interface {
	VesselRepository
	SignalRepository
	APIKeyRepository
	TelemetryRepository
	MetricsRepository
	Close()
}
