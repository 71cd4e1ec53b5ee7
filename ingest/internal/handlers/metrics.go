package handlers

import (
	"math"
	"net/http"

	"github.com/seawatch-systems/seawatch-stack/common/httputil"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/apperror"
	"github.com/seawatch-systems/seawatch-stack/ingest/internal/service"
)

// hoursParam reads ?hours=, defaulting to service.DefaultMetricsHours.
func hoursParam(r *http.Request) (float64, error) {
	hours, err := httputil.ParseFloatParam(r.URL.Query().Get("hours"), service.DefaultMetricsHours)
	if err != nil || hours <= 0 || math.IsInf(hours, 0) || math.IsNaN(hours) {
		return 0, apperror.Validation("hours must be a positive number")
	}
	return hours, nil
}

func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	hours, err := hoursParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.metrics.GetMetrics(r.Context(), httputil.OptionalStringParam(r, "vessel_id"), hours)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetMetricsSummary(w http.ResponseWriter, r *http.Request) {
	hours, err := hoursParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	summary, err := h.metrics.GetSummary(r.Context(), httputil.OptionalStringParam(r, "vessel_id"), hours)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) GetVesselMetrics(w http.ResponseWriter, r *http.Request) {
	hours, err := hoursParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	summaries, err := h.metrics.GetVesselSummaries(r.Context(), hours)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summaries)
}
