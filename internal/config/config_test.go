package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saferoute/saferoute/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_MAPS_API_KEY", "gm-test-key")
	t.Setenv("OPENWEATHER_API_KEY", "owm-test-key")
	t.Setenv("RISK_MODEL_URL", "http://localhost:9090")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.OTELEnabled)
	assert.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	assert.Equal(t, 10*time.Second, cfg.Directions.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.Weather.CacheTTL)
	assert.Equal(t, "route_risk_v9", cfg.RiskModel.ModelName)
	assert.Equal(t, 4, cfg.RouteConcurrency)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("WEATHER_CACHE_TTL", "5m")
	t.Setenv("ROUTE_CONCURRENCY", "8")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 5*time.Minute, cfg.Weather.CacheTTL)
	assert.Equal(t, 8, cfg.RouteConcurrency)
	assert.Equal(t, "gm-test-key", cfg.Directions.APIKey)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "")
	t.Setenv("OPENWEATHER_API_KEY", "owm-test-key")
	t.Setenv("RISK_MODEL_URL", "http://localhost:9090")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_MAPS_API_KEY")
}
