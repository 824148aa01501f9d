package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/inje-weather/internal/store"
	"github.com/i474232898/inje-weather/internal/weather"
	"github.com/i474232898/inje-weather/internal/weather/providers"
)

type AppConfig struct {
	Port string `validate:"required,numeric"`

	// RefreshTTL is the minimum interval between two aggregations.
	RefreshTTL time.Duration `validate:"gt=0"`
	// HistoryRetention bounds the age of retained snapshots.
	HistoryRetention time.Duration `validate:"gt=0"`
	// Timezone names the zone used for hour-of-day buckets and HH:MM parsing.
	Timezone string         `validate:"required"`
	Location *time.Location `validate:"required"`

	HTTPTimeout time.Duration `validate:"gt=0"`
	// WarmInterval refreshes in the background when > 0.
	WarmInterval time.Duration `validate:"gte=0"`
	// SourceRPS caps outbound requests per second across all sources.
	SourceRPS float64 `validate:"gt=0"`

	AWSStations     []providers.Station       `validate:"dive"`
	ForecastPoints  []providers.ForecastPoint `validate:"dive"`
	ForestFireURL   string                    `validate:"omitempty,url"`
	ParticulatesURL string                    `validate:"omitempty,url"`
	District        string                    `validate:"required"`

	LogLevel string `validate:"oneof=trace debug info warn error"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Err(err).Msg("no .env file loaded")
	}
	cfg := &AppConfig{}
	var err error

	cfg.Port = getenvDefault("PORT", "8080")

	if cfg.RefreshTTL, err = getenvDuration("REFRESH_TTL", weather.DefaultRefreshTTL); err != nil {
		return nil, err
	}
	if cfg.HistoryRetention, err = getenvDuration("HISTORY_RETENTION", store.DefaultRetention); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.WarmInterval, err = getenvDuration("WARM_INTERVAL", 0); err != nil {
		return nil, err
	}

	cfg.Timezone = getenvDefault("TIMEZONE", "Asia/Seoul")
	cfg.Location, err = time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg.SourceRPS, err = strconv.ParseFloat(getenvDefault("SOURCE_RPS", "2"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SOURCE_RPS: %w", err)
	}

	cfg.AWSStations = providers.DefaultStations
	if v := os.Getenv("AWS_STATIONS"); v != "" {
		if cfg.AWSStations, err = parseStations(v); err != nil {
			return nil, fmt.Errorf("invalid AWS_STATIONS: %w", err)
		}
	}
	cfg.ForecastPoints = providers.DefaultForecastPoints
	if v := os.Getenv("FORECAST_POINTS"); v != "" {
		if cfg.ForecastPoints, err = parseForecastPoints(v); err != nil {
			return nil, fmt.Errorf("invalid FORECAST_POINTS: %w", err)
		}
	}

	cfg.ForestFireURL = getenvDefault("FOREST_FIRE_URL", providers.DefaultForestFireURL)
	cfg.ParticulatesURL = getenvDefault("PARTICULATES_URL", providers.DefaultParticulatesURL)
	cfg.District = getenvDefault("DISTRICT", "인제군")
	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// parseStations parses "321:원통,594:서화".
func parseStations(v string) ([]providers.Station, error) {
	pairs, err := parsePairs(v)
	if err != nil {
		return nil, err
	}
	out := make([]providers.Station, 0, len(pairs))
	for _, p := range pairs {
		id, err := strconv.Atoi(p[0])
		if err != nil {
			return nil, fmt.Errorf("station id %q: %w", p[0], err)
		}
		out = append(out, providers.Station{ID: id, Name: p[1]})
	}
	return out, nil
}

// parseForecastPoints parses "4281032000:원통,4282034000:수동".
func parseForecastPoints(v string) ([]providers.ForecastPoint, error) {
	pairs, err := parsePairs(v)
	if err != nil {
		return nil, err
	}
	out := make([]providers.ForecastPoint, 0, len(pairs))
	for _, p := range pairs {
		code, err := strconv.ParseInt(p[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("forecast code %q: %w", p[0], err)
		}
		out = append(out, providers.ForecastPoint{Code: code, Name: p[1]})
	}
	return out, nil
}

func parsePairs(v string) ([][2]string, error) {
	var out [][2]string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		id, name, ok := strings.Cut(item, ":")
		if !ok || strings.TrimSpace(id) == "" || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("entry %q must be id:name", item)
		}
		out = append(out, [2]string{strings.TrimSpace(id), strings.TrimSpace(name)})
	}
	return out, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
