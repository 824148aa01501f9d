package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/i474232898/inje-weather/internal/config"
	"github.com/i474232898/inje-weather/internal/metrics"
	"github.com/i474232898/inje-weather/internal/scheduler"
	"github.com/i474232898/inje-weather/internal/store"
	"github.com/i474232898/inje-weather/internal/weather"
	"github.com/i474232898/inje-weather/internal/weather/providers"
)

const serviceName = "inje-weather"

func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", serviceName).Logger()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewRegistry(reg)

	// Shared HTTP client and rate limit for outbound source calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.SourceRPS), 1)
	httpCfg := providers.DefaultHTTPConfig(httpClient, limiter)

	sources := providers.Build(httpCfg, providers.Set{
		Stations:        cfg.AWSStations,
		ForecastPoints:  cfg.ForecastPoints,
		ForestFireURL:   cfg.ForestFireURL,
		ParticulatesURL: cfg.ParticulatesURL,
		District:        cfg.District,
		Location:        cfg.Location,
	})

	memStore := store.NewMemoryStore(cfg.HistoryRetention, cfg.Location)
	service := weather.NewService(
		memStore,
		weather.NewRefreshGate(cfg.RefreshTTL),
		weather.NewAggregator(sources, m),
		weather.WithMetrics(m),
	)

	sched := scheduler.New(cfg.WarmInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	app := newApp(service, reg)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
