// Package config loads service configuration from the environment.
// A .env file is honored for local development; real deployments set
// environment variables directly.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the top-level configuration for the SafeRoute API. It is
// populated once at startup and never modified.
type Config struct {
	// System
	Port        string `envconfig:"APP_PORT" default:"8080"`
	Environment string `envconfig:"APP_ENV" default:"development"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`

	// Providers
	Directions DirectionsConfig
	Weather    WeatherConfig
	RiskModel  RiskModelConfig

	// Scoring
	RouteConcurrency int `envconfig:"ROUTE_CONCURRENCY" default:"4"`
}

// DirectionsConfig holds Google Maps Directions API settings.
type DirectionsConfig struct {
	APIKey  string        `envconfig:"GOOGLE_MAPS_API_KEY" required:"true"`
	BaseURL string        `envconfig:"GOOGLE_MAPS_BASE_URL"`
	Timeout time.Duration `envconfig:"GOOGLE_MAPS_TIMEOUT" default:"10s"`
}

// WeatherConfig holds OpenWeatherMap settings.
type WeatherConfig struct {
	APIKey   string        `envconfig:"OPENWEATHER_API_KEY" required:"true"`
	BaseURL  string        `envconfig:"OPENWEATHER_BASE_URL"`
	CacheTTL time.Duration `envconfig:"WEATHER_CACHE_TTL" default:"10m"`
}

// RiskModelConfig holds risk model server settings.
type RiskModelConfig struct {
	BaseURL   string `envconfig:"RISK_MODEL_URL" required:"true"`
	ModelName string `envconfig:"RISK_MODEL_NAME" default:"route_risk_v9"`
}

// Load reads configuration from the environment, honoring a local .env
// file when present.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	return &cfg, nil
}
