package api

import (
	"net/http"
	"strings"

	"github.com/krishimitra/server/internal/inference"
)

type cropPredictRequest struct {
	N           *float64 `json:"N,omitempty"`
	P           *float64 `json:"P,omitempty"`
	K           *float64 `json:"K,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	PH          *float64 `json:"ph,omitempty"`
	Rainfall    *float64 `json:"rainfall,omitempty"`
}

// HandleCropPredict handles POST /crop/predict. Field conditions default
// to the live sensor and weather values; the body may override any of them
// with soil test results.
func (h *Handler) HandleCropPredict(w http.ResponseWriter, r *http.Request) {
	features := h.sensor.CropFeatures(r.Context())

	if r.ContentLength > 0 {
		var req cropPredictRequest
		if err := decodeJSON(w, r, &req); err != nil {
			Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		applyOverrides(&features, req)
	}

	recs := h.engine.RecommendCrops(r.Context(), features)
	JSON(w, http.StatusOK, map[string]any{
		"recommendations": recs,
		"model_used":      h.engine.ModelServerEnabled(),
	})
}

func applyOverrides(f *inference.CropFeatures, req cropPredictRequest) {
	if req.N != nil {
		f.N = *req.N
	}
	if req.P != nil {
		f.P = *req.P
	}
	if req.K != nil {
		f.K = *req.K
	}
	if req.Temperature != nil {
		f.Temperature = *req.Temperature
	}
	if req.Humidity != nil {
		f.Humidity = *req.Humidity
	}
	if req.PH != nil {
		f.PH = *req.PH
	}
	if req.Rainfall != nil {
		f.Rainfall = *req.Rainfall
	}
}

type plantPredictRequest struct {
	Image string `json:"image"`
}

// HandlePlantPredict handles POST /plant/predict. The image arrives as a
// base64 string, optionally with a data URL prefix.
func (h *Handler) HandlePlantPredict(w http.ResponseWriter, r *http.Request) {
	var req plantPredictRequest
	if err := decodeJSON(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Image == "" {
		Error(w, http.StatusBadRequest, "image is required")
		return
	}

	image := req.Image
	if idx := strings.Index(image, ","); idx != -1 && strings.HasPrefix(image, "data:") {
		image = image[idx+1:]
	}

	prediction := h.engine.DiagnosePlant(r.Context(), image)
	JSON(w, http.StatusOK, prediction)
}
