package handlers

import (
	"net/http"

	"github.com/seawatch-systems/seawatch-stack/common/httputil"
	"github.com/seawatch-systems/seawatch-stack/common/logging"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/models"
)

func (h *Handler) CreateVessel(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVesselRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.logger.InfoContext(r.Context(), "Creating vessel", logging.VesselID(req.VesselID))

	vessel, err := h.vessels.CreateVessel(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, vessel)
}

func (h *Handler) GetVessel(w http.ResponseWriter, r *http.Request) {
	vessel, err := h.vessels.GetVessel(r.Context(), r.PathValue("vessel_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, vessel)
}

func (h *Handler) ListVessels(w http.ResponseWriter, r *http.Request) {
	vessels, err := h.vessels.ListVessels(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, vessels)
}

func (h *Handler) DeactivateVessel(w http.ResponseWriter, r *http.Request) {
	vesselID := r.PathValue("vessel_id")
	h.logger.InfoContext(r.Context(), "Deactivating vessel", logging.VesselID(vesselID))

	if err := h.vessels.DeactivateVessel(r.Context(), vesselID); err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.MessageResponse{Message: "Vessel deactivated successfully"})
}
