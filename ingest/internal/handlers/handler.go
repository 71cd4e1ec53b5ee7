// Package handlers implements the ingest HTTP API.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/seawatch-systems/seawatch-stack/common/httputil"
	"github.com/seawatch-systems/seawatch-stack/common/logging"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/apperror"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/models"
)

// Version is reported by the root descriptor.
var Version = "0.1.0"

const serviceName = "telemetry-service"

// TelemetryIngester runs one telemetry submission through the pipeline.
type TelemetryIngester interface {
	IngestTelemetry(ctx context.Context, authenticatedVesselID string, req *models.TelemetryRequest) (*models.TelemetryResponse, error)
}

type VesselManager interface {
	CreateVessel(ctx context.Context, req *models.CreateVesselRequest) (*models.VesselResponse, error)
	GetVessel(ctx context.Context, vesselID string) (*models.VesselResponse, error)
	ListVessels(ctx context.Context) ([]models.VesselResponse, error)
	DeactivateVessel(ctx context.Context, vesselID string) error
}

type APIKeyManager interface {
	CreateAPIKey(ctx context.Context, req *models.CreateAPIKeyRequest) (*models.APIKey, error)
	ListAPIKeys(ctx context.Context, vesselID string) ([]*models.APIKey, error)
	RevokeAPIKey(ctx context.Context, apiKey string) error
}

type MetricsReader interface {
	Health(ctx context.Context) (*models.HealthResponse, error)
	GetMetrics(ctx context.Context, vesselID *string, hours float64) (*models.MetricsResponse, error)
	GetSummary(ctx context.Context, vesselID *string, hours float64) (*models.MetricsSummary, error)
	GetVesselSummaries(ctx context.Context, hours float64) ([]models.MetricsSummary, error)
}

// Handler serves every ingest route.
type Handler struct {
	ingest       TelemetryIngester
	vessels      VesselManager
	keys         APIKeyManager
	metrics      MetricsReader
	maxBodyBytes int64
	logger       *logging.Logger
}

// Config carries the handler dependencies.
type Config struct {
	Ingest       TelemetryIngester
	Vessels      VesselManager
	APIKeys      APIKeyManager
	Metrics      MetricsReader
	MaxBodyBytes int64
	Logger       *logging.Logger
}

func New(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		ingest:       cfg.Ingest,
		vessels:      cfg.Vessels,
		keys:         cfg.APIKeys,
		metrics:      cfg.Metrics,
		maxBodyBytes: cfg.MaxBodyBytes,
		logger:       logger,
	}
}

// Root describes the service and its endpoints.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"service": serviceName,
		"status":  "running",
		"version": Version,
		"endpoints": map[string]interface{}{
			"health":    "/api/v1/health",
			"telemetry": "/api/v1/telemetry (requires x-api-key)",
			"admin": map[string]string{
				"vessels":  "/api/v1/vessels (requires x-admin-key)",
				"api_keys": "/api/v1/api-keys (requires x-admin-key)",
				"metrics":  "/api/v1/metrics (requires x-admin-key)",
			},
		},
	})
}

// Health reports uptime and recent request volume.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health, err := h.metrics.Health(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, health)
}

// decode reads a JSON body into v. On failure it writes the response and
// returns false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := httputil.DecodeJSON(w, r, h.maxBodyBytes, v)
	switch {
	case err == nil:
		return true
	case errors.Is(err, httputil.ErrBodyTooLarge):
		httputil.WriteError(w, http.StatusRequestEntityTooLarge, err.Error())
	default:
		h.writeError(w, r, apperror.Validation(err.Error()))
	}
	return false
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.From(err)
	switch status := appErr.Status(); {
	case status >= http.StatusInternalServerError:
		h.logger.ErrorContext(r.Context(), "request failed",
			logging.Method(r.Method),
			logging.Path(r.URL.Path),
			logging.Status(status),
			logging.Error(err),
		)
	case status == http.StatusForbidden:
		h.logger.WarnContext(r.Context(), "request forbidden",
			logging.Method(r.Method),
			logging.Path(r.URL.Path),
			logging.ClientIP(httputil.GetClientIP(r)),
			logging.Error(err),
		)
	}
	apperror.Write(w, appErr)
}
