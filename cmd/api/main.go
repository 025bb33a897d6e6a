package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"adgen/internal/history"
	"adgen/internal/http/handlers"
	"adgen/internal/http/httpapi"
	"adgen/internal/infra"
	"adgen/internal/infra/geoip"
	"adgen/internal/middleware"
	"adgen/internal/pipeline"
	"adgen/internal/providers/catalog"
	"adgen/internal/providers/files"
	"adgen/internal/providers/generate"
	"adgen/internal/providers/ledger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	// Run history is optional: without a database the pipeline still works.
	var hist *history.Store
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		hist = history.NewStore(infra.NewSQLRunner(pool, logger))
	} else {
		logger.Warn().Msg("DATABASE_URL not set, run history disabled")
	}

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip unavailable, locale falls back to headers")
	} else if resolver != nil {
		lookup = resolver.CountryCode
	}

	httpClient := &http.Client{Timeout: cfg.HTTPWriteTimeout}
	ledgerClient := ledger.NewClient(ledger.Options{
		BaseURL: cfg.BackendBaseURL, APIKey: cfg.BackendAPIKey, HTTPClient: httpClient, Logger: &logger,
	})
	filesClient := files.NewClient(files.Options{
		BaseURL: cfg.BackendBaseURL, APIKey: cfg.BackendAPIKey, HTTPClient: httpClient, Logger: &logger,
	})
	generateClient := generate.NewClient(generate.Options{
		BaseURL: cfg.BackendBaseURL, APIKey: cfg.BackendAPIKey, HTTPClient: httpClient, Logger: &logger,
	})
	catalogClient := catalog.NewClient(catalog.Options{
		BaseURL: cfg.BackendBaseURL, APIKey: cfg.BackendAPIKey, HTTPClient: httpClient, Logger: &logger,
	})

	var recorder pipeline.RunRecorder
	if hist != nil {
		recorder = hist
	}
	orchestrator := pipeline.NewOrchestrator(
		ledgerClient,
		filesClient,
		generateClient,
		pipeline.NewPoller(generateClient, cfg.PollInterval, cfg.PollMaxAttempts),
		pipeline.NewModelResolver(catalogClient),
		recorder,
		logger,
	)

	app := handlers.NewApp(orchestrator, hist, logger)
	router := httpapi.NewRouter(app, cfg, logger, lookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
