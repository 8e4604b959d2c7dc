// KrishiMitra - Farmer Dashboard Server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/krishimitra/server/internal/api"
	"github.com/krishimitra/server/internal/chat"
	"github.com/krishimitra/server/internal/config"
	"github.com/krishimitra/server/internal/identity"
	"github.com/krishimitra/server/internal/inference"
	"github.com/krishimitra/server/internal/knowledge"
	"github.com/krishimitra/server/internal/llm"
	"github.com/krishimitra/server/internal/market"
	"github.com/krishimitra/server/internal/middleware"
	"github.com/krishimitra/server/internal/sensor"
	"github.com/krishimitra/server/internal/session"
	"github.com/krishimitra/server/internal/store"
	"github.com/krishimitra/server/internal/weather"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	// Session store: Redis when configured, in-memory otherwise.
	var sessions session.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			slog.Error("Redis health check failed", "error", err, "addr", cfg.RedisAddr)
			os.Exit(1)
		}
		sessions, err = session.NewStore(session.StoreTypeRedis,
			session.WithRedisClient(redisClient),
			session.WithRedisTTL(cfg.SessionTTL))
		if err != nil {
			slog.Error("Failed to initialize Redis session store", "error", err)
			os.Exit(1)
		}
		slog.Info("Session store initialized", "driver", "redis", "addr", cfg.RedisAddr)
	} else {
		sessions, err = session.NewStore(session.StoreTypeMemory)
		if err != nil {
			slog.Error("Failed to initialize session store", "error", err)
			os.Exit(1)
		}
		slog.Info("Session store initialized", "driver", "memory")
	}
	defer func() {
		if closeErr := sessions.Close(); closeErr != nil {
			slog.Error("Failed to close session store", "error", closeErr)
		}
	}()

	// Generative API client. An empty key is allowed; the chat pipeline
	// then serves canned fallbacks.
	gemini := llm.NewGeminiClient(cfg.GeminiAPIKey, "", "")
	if cfg.GeminiAPIKey == "" {
		slog.Info("GEMINI_API_KEY not set, assistant will use local fallbacks only")
	}

	kb := knowledge.MustLoad()
	chatService := chat.NewService(gemini, kb, logger)

	weatherClient := weather.NewClient(cfg.OpenWeatherAPIKey, cfg.Latitude, cfg.Longitude, logger)
	if cfg.OpenWeatherAPIKey == "" {
		slog.Info("OPENWEATHER_API_KEY not set, weather card will use fallback values")
	}

	// ML model server gRPC client (optional).
	var modelClient *inference.Client
	if cfg.ModelServerAddr != "" {
		slog.Info("Connecting to model server via gRPC", "address", cfg.ModelServerAddr)
		modelClient, err = inference.NewClient(cfg.ModelServerAddr, logger)
		if err != nil {
			slog.Warn("Failed to connect to model server, heuristic predictions will be used", "error", err)
			modelClient = nil
		} else {
			defer modelClient.Close()
		}
	} else {
		slog.Info("Model server disabled (MODEL_SERVER_ADDR not set), heuristic predictions will be used")
	}
	engine := inference.NewEngine(modelClient, gemini, logger)

	sensorService := sensor.NewService(repo, weatherClient, engine, logger)
	marketService := market.NewService(market.NewClient(logger), gemini, logger)

	hub := sensor.NewHub()
	wsHandler := sensor.NewWebSocketHandler(sensorService, hub, cfg.FrontendURL, cfg.IsDevelopment(), logger)

	handler := api.NewHandler(repo, sessions, chatService, sensorService, wsHandler, engine, marketService, weatherClient, logger)

	// Setup router.
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	// A deployed frontend needs its exact origin echoed back so the
	// identity cookie can flow; the wildcard is for local development only.
	corsOrigins := []string{"*"}
	if cfg.FrontendURL != "" {
		corsOrigins = []string{cfg.FrontendURL}
	}
	r.Use(middleware.CORS(corsOrigins))
	r.Use(identity.Middleware(cfg.IsDevelopment()))

	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // long-lived WebSocket streams
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the device sampler.
	sampler := sensor.NewSampler(repo, cfg.SensorSampleInterval, logger, hub.Notify)
	sampler.Start(ctx)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
