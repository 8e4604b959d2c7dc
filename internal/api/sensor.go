package api

import (
	"net/http"
)

// HandleSensorSnapshot handles GET /api/sensor.
func (h *Handler) HandleSensorSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sensor.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("Failed to build sensor snapshot", "error", err)
		Error(w, http.StatusInternalServerError, "failed to read sensor data")
		return
	}
	JSON(w, http.StatusOK, snap)
}

type sensorUpdateRequest struct {
	Threshold *float64 `json:"threshold"`
}

// HandleSensorUpdate handles POST /api/sensor/update.
func (h *Handler) HandleSensorUpdate(w http.ResponseWriter, r *http.Request) {
	var req sensorUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Threshold == nil {
		Error(w, http.StatusBadRequest, "threshold is required")
		return
	}
	if *req.Threshold < 0 || *req.Threshold > 100 {
		Error(w, http.StatusBadRequest, "threshold must be between 0 and 100")
		return
	}

	if err := h.sensor.SetThreshold(r.Context(), *req.Threshold); err != nil {
		h.logger.Error("Failed to update threshold", "error", err)
		Error(w, http.StatusInternalServerError, "failed to update threshold")
		return
	}
	JSON(w, http.StatusOK, map[string]any{"threshold": *req.Threshold})
}

type irrigateRequest struct {
	Irrigation *bool `json:"irrigation"`
}

// HandleSoilHealth handles GET /api/sensor/soil-health.
func (h *Handler) HandleSoilHealth(w http.ResponseWriter, r *http.Request) {
	health, err := h.sensor.SoilHealth(r.Context())
	if err != nil {
		h.logger.Error("Failed to assess soil health", "error", err)
		Error(w, http.StatusInternalServerError, "failed to assess soil health")
		return
	}
	JSON(w, http.StatusOK, health)
}

// HandleIrrigate handles POST /api/sensor/irrigate.
func (h *Handler) HandleIrrigate(w http.ResponseWriter, r *http.Request) {
	var req irrigateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Irrigation == nil {
		Error(w, http.StatusBadRequest, "irrigation is required")
		return
	}

	if err := h.sensor.SetIrrigation(r.Context(), *req.Irrigation); err != nil {
		h.logger.Error("Failed to toggle irrigation", "error", err)
		Error(w, http.StatusInternalServerError, "failed to toggle irrigation")
		return
	}
	JSON(w, http.StatusOK, map[string]any{"irrigation": *req.Irrigation})
}
