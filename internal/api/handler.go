// Package api provides HTTP handlers for the KrishiMitra API.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/krishimitra/server/internal/chat"
	"github.com/krishimitra/server/internal/inference"
	"github.com/krishimitra/server/internal/market"
	"github.com/krishimitra/server/internal/sensor"
	"github.com/krishimitra/server/internal/session"
	"github.com/krishimitra/server/internal/store"
	"github.com/krishimitra/server/internal/weather"
)

// maxRequestBodySize caps JSON request bodies. Plant images arrive as
// base64 so this must fit a phone photo.
const maxRequestBodySize = 8 << 20 // 8MB

// Handler carries the shared dependencies of all endpoints.
type Handler struct {
	repo     store.Repository
	sessions session.Store
	chat     *chat.Service
	sensor   *sensor.Service
	stream   *sensor.WebSocketHandler
	engine   *inference.Engine
	market   *market.Service
	weather  *weather.Client
	limiter  *RateLimiter
	logger   *slog.Logger
}

// NewHandler creates a Handler with all endpoint dependencies.
func NewHandler(
	repo store.Repository,
	sessions session.Store,
	chatSvc *chat.Service,
	sensorSvc *sensor.Service,
	stream *sensor.WebSocketHandler,
	engine *inference.Engine,
	marketSvc *market.Service,
	weatherClient *weather.Client,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		repo:     repo,
		sessions: sessions,
		chat:     chatSvc,
		sensor:   sensorSvc,
		stream:   stream,
		engine:   engine,
		market:   marketSvc,
		weather:  weatherClient,
		limiter:  NewRateLimiter(20, time.Minute),
		logger:   logger,
	}
}

// RegisterRoutes mounts all API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HandleHealth)

	r.Route("/api/chat", func(r chi.Router) {
		r.Post("/session", h.HandleCreateSession)
		r.Get("/session/{id}", h.HandleGetSession)
		r.Post("/session/{id}/message", h.HandleSendMessage)
		r.Put("/session/{id}/language", h.HandleSetLanguage)
		r.Delete("/session/{id}", h.HandleDeleteSession)
		r.Get("/languages", h.HandleLanguages)
		r.Get("/questions", h.HandleQuickQuestions)
		r.Get("/terms", h.HandleAgriTerms)
		r.Get("/recommend", h.HandleRecommend)
		r.Post("/translate", h.HandleTranslate)
	})

	r.Route("/api/sensor", func(r chi.Router) {
		r.Get("/", h.HandleSensorSnapshot)
		r.Get("/soil-health", h.HandleSoilHealth)
		r.Get("/weather", h.HandleWeather)
		r.Post("/update", h.HandleSensorUpdate)
		r.Post("/irrigate", h.HandleIrrigate)
	})
	r.Get("/ws/sensor", h.stream.ServeHTTP)

	r.Post("/crop/predict", h.HandleCropPredict)
	r.Post("/plant/predict", h.HandlePlantPredict)

	r.Get("/api/market/insights", h.HandleMarketInsights)

	r.Route("/api/forum", func(r chi.Router) {
		r.Get("/posts", h.HandleListPosts)
		r.Post("/posts", h.HandleCreatePost)
		r.Post("/posts/{id}/like", h.HandleLikePost)
	})
}

// HandleHealth reports service status for load balancer probes.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "ok"
	status := http.StatusOK
	if err := h.repo.Ping(r.Context()); err != nil {
		dbStatus = "unavailable"
		status = http.StatusServiceUnavailable
	}

	modelServer := "disabled"
	if h.engine.ModelServerEnabled() {
		modelServer = "ok"
	}

	JSON(w, status, map[string]string{
		"status":       "ok",
		"database":     dbStatus,
		"model_server": modelServer,
	})
}

// HandleWeather returns the combined current weather and air quality card.
func (h *Handler) HandleWeather(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, h.weather.Combined(r.Context()))
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a size-capped JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	return json.NewDecoder(r.Body).Decode(v)
}
