// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string

	GeminiAPIKey      string
	OpenWeatherAPIKey string
	ModelServerAddr   string // "" disables the gRPC model server, heuristics take over
	RedisAddr         string // "" selects the in-memory session store

	Latitude  float64
	Longitude float64

	SensorSampleInterval time.Duration
	SessionTTL           time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/krishimitra.db"),

		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		OpenWeatherAPIKey: getEnv("OPENWEATHER_API_KEY", ""),
		ModelServerAddr:   getEnv("MODEL_SERVER_ADDR", ""),
		RedisAddr:         getEnv("REDIS_ADDR", ""),

		Latitude:  getEnvFloat("DEFAULT_LAT", 0),
		Longitude: getEnvFloat("DEFAULT_LON", 0),

		SensorSampleInterval: getEnvDuration("SENSOR_SAMPLE_INTERVAL", 5*time.Minute),
		SessionTTL:           getEnvDuration("SESSION_TTL", 24*time.Hour),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.SensorSampleInterval <= 0 {
		return fmt.Errorf("SENSOR_SAMPLE_INTERVAL must be > 0")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
