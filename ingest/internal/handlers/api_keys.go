package handlers

import (
	"net/http"

	"github.com/seawatch-systems/seawatch-stack/common/httputil"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/models"
)

func (h *Handler) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAPIKeyRequest
	if !h.decode(w, r, &req) {
		return
	}

	key, err := h.keys.CreateAPIKey(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, key)
}

func (h *Handler) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := h.keys.ListAPIKeys(r.Context(), r.PathValue("vessel_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, keys)
}

// RevokeAPIKey deactivates a key. Unknown keys are not an error.
func (h *Handler) RevokeAPIKey(w http.ResponseWriter, r *http.Request) {
	if err := h.keys.RevokeAPIKey(r.Context(), r.PathValue("api_key")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.MessageResponse{Message: "API key revoked successfully"})
}
