package handlers

import (
	"net/http"

	"github.com/seawatch-systems/seawatch-stack/common/httputil"
	"github.com/seawatch-systems/seawatch-stack/common/logging"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/apperror"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/middleware"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/models"
)

// IngestTelemetry handles POST /api/v1/telemetry. The caller must already be
// authenticated by middleware.APIKeyAuth.
func (h *Handler) IngestTelemetry(w http.ResponseWriter, r *http.Request) {
	var req models.TelemetryRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, r, apperror.Validation(err.Error()))
		return
	}

	h.logger.InfoContext(r.Context(), "Received telemetry", logging.VesselID(req.VesselID))

	resp, err := h.ingest.IngestTelemetry(r.Context(), middleware.GetVesselID(r.Context()), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
