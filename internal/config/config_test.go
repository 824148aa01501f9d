package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/inje-weather/internal/weather/providers"
)

// clearEnv pins every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "REFRESH_TTL", "HISTORY_RETENTION", "HTTP_TIMEOUT", "WARM_INTERVAL",
		"SOURCE_RPS", "AWS_STATIONS", "FORECAST_POINTS", "FOREST_FIRE_URL",
		"PARTICULATES_URL", "DISTRICT", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("TIMEZONE", "UTC")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 3*time.Minute, cfg.RefreshTTL)
	assert.Equal(t, 72*time.Hour, cfg.HistoryRetention)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Zero(t, cfg.WarmInterval)
	assert.Equal(t, 2.0, cfg.SourceRPS)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, providers.DefaultStations, cfg.AWSStations)
	assert.Equal(t, providers.DefaultForecastPoints, cfg.ForecastPoints)
	assert.Equal(t, providers.DefaultForestFireURL, cfg.ForestFireURL)
	assert.Equal(t, providers.DefaultParticulatesURL, cfg.ParticulatesURL)
	assert.Equal(t, "인제군", cfg.District)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("REFRESH_TTL", "90s")
	t.Setenv("WARM_INTERVAL", "5m")
	t.Setenv("AWS_STATIONS", "211:인제, 518:해안")
	t.Setenv("FORECAST_POINTS", "4281032000:원통")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 90*time.Second, cfg.RefreshTTL)
	assert.Equal(t, 5*time.Minute, cfg.WarmInterval)
	assert.Equal(t, []providers.Station{{ID: 211, Name: "인제"}, {ID: 518, Name: "해안"}}, cfg.AWSStations)
	assert.Equal(t, []providers.ForecastPoint{{Code: 4281032000, Name: "원통"}}, cfg.ForecastPoints)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"REFRESH_TTL", "soon"},
		{"REFRESH_TTL", "-1m"},
		{"HISTORY_RETENTION", "3 days"},
		{"TIMEZONE", "Mars/Olympus"},
		{"SOURCE_RPS", "fast"},
		{"SOURCE_RPS", "0"},
		{"AWS_STATIONS", "wontong:원통"},
		{"AWS_STATIONS", "321"},
		{"FORECAST_POINTS", "4281032000:"},
		{"PORT", "http"},
		{"LOG_LEVEL", "loud"},
		{"FOREST_FIRE_URL", "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
