package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	commonmw "github.com/seawatch-systems/seawatch-stack/common/middleware"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/handlers"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/middleware"
)

// Options configures route protection.
type Options struct {
	APIKeys  middleware.APIKeyValidator
	AdminKey string
}

// NewRouter constructs a ServeMux with ingest API routes registered.
func NewRouter(h *handlers.Handler, opts Options) http.Handler {
	mux := http.NewServeMux()

	vesselAuth := middleware.APIKeyAuth(opts.APIKeys)
	admin := middleware.AdminKey(opts.AdminKey)

	mux.HandleFunc("GET /{$}", h.Root)

	// Public
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Vessel ingestion
	mux.Handle("POST /api/v1/telemetry", vesselAuth(http.HandlerFunc(h.IngestTelemetry)))

	// Vessel management
	mux.Handle("POST /api/v1/vessels", admin(http.HandlerFunc(h.CreateVessel)))
	mux.Handle("GET /api/v1/vessels", admin(http.HandlerFunc(h.ListVessels)))
	mux.Handle("GET /api/v1/vessels/{vessel_id}", admin(http.HandlerFunc(h.GetVessel)))
	mux.Handle("DELETE /api/v1/vessels/{vessel_id}", admin(http.HandlerFunc(h.DeactivateVessel)))

	// API key management
	mux.Handle("POST /api/v1/api-keys", admin(http.HandlerFunc(h.CreateAPIKey)))
	mux.Handle("GET /api/v1/api-keys/vessel/{vessel_id}", admin(http.HandlerFunc(h.ListAPIKeys)))
	mux.Handle("DELETE /api/v1/api-keys/revoke/{api_key}", admin(http.HandlerFunc(h.RevokeAPIKey)))

	// Server metrics
	mux.Handle("GET /api/v1/metrics", admin(http.HandlerFunc(h.GetMetrics)))
	mux.Handle("GET /api/v1/metrics/summary", admin(http.HandlerFunc(h.GetMetricsSummary)))
	mux.Handle("GET /api/v1/metrics/vessels", admin(http.HandlerFunc(h.GetVesselMetrics)))

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	return commonmw.RequestID(mux)
}
