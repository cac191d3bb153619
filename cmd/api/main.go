// Package main is the entry point for the Driftboard API server.
//
// It loads configuration, connects the Postgres pool, constructs the
// external provider clients and feed services, starts the display mode
// controller, builds the HTTP server with the core chassis (middleware,
// routing, health checks), and listens for requests.
//
// Graceful shutdown is handled via OS signal interception (SIGINT,
// SIGTERM).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"driftboard/internal/api/handlers"
	"driftboard/internal/config"
	"driftboard/internal/core"
	"driftboard/internal/db"
	"driftboard/internal/external"
	"driftboard/internal/feeds"
	"driftboard/internal/layout"
	"driftboard/internal/mode"
	"driftboard/internal/observability"
	"driftboard/internal/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on error.
func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("driftboard API starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"port", cfg.Server.Port,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting database: %w", err)
	}
	defer pool.Close()

	clock := types.RealClock{}

	// Storage layer.
	cacheRepo := db.NewCacheRepository(pool)
	budgetRepo := db.NewRateBudgetRepository(pool)
	widgetRepo := db.NewWidgetRepository(pool)

	// Feed fetch engines. Empty API keys are allowed; the services serve
	// static fallbacks instead of calling upstream.
	httpClient := &http.Client{Timeout: cfg.Feeds.UpstreamHTTPTimeout}
	serper := external.NewSerperClient(httpClient, cfg.Feeds.SerperAPIKey)
	pexels := external.NewPexelsClient(httpClient, cfg.Feeds.PexelsAPIKey)

	cacheStore := feeds.NewCacheStore(cacheRepo, clock, logger)
	limiter := feeds.NewRateLimiter(budgetRepo, clock, logger)

	newsService := feeds.NewNewsService(cfg.Feeds, serper, cacheStore, limiter, logger)
	weatherService := feeds.NewWeatherService(cfg.Feeds, serper, cacheStore, limiter, clock, logger)
	photosService := feeds.NewPhotosService(cfg.Feeds, pexels, cacheStore, limiter, logger)

	// Display mode state machine.
	modeController := mode.NewController(cfg.Mode.IdleTimeout, logger)
	modeController.Subscribe(func(from, to types.Mode) {
		logger.Info("display mode changed",
			"from", string(from),
			"to", string(to),
		)
	})

	// Widget layout.
	layoutStore := layout.NewStore(widgetRepo, clock, logger)

	// Voice session broker.
	voiceBroker := external.NewRealtimeClient(
		httpClient,
		cfg.Voice.OpenAIAPIKey,
		cfg.Voice.Model,
		cfg.Voice.Voice,
	)

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	if cfg.Metrics.Enabled {
		metrics, err := observability.NewCloudWatchMetricsFromConfig(ctx, cfg.Metrics, logger)
		if err != nil {
			return fmt.Errorf("initializing metrics: %w", err)
		}
		srv.Metrics = metrics
	}

	srv.HealthProbes = append(srv.HealthProbes, db.PoolProbe{Pool: pool})

	feedHandler := &handlers.FeedHandler{
		News:    newsService,
		Weather: weatherService,
		Photos:  photosService,
	}
	modeHandler := &handlers.ModeHandler{Controller: modeController}
	widgetHandler := &handlers.WidgetHandler{Store: layoutStore}
	voiceHandler := &handlers.VoiceHandler{Broker: voiceBroker}

	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars,
		func(r chi.Router) { feedHandler.Routes(r) },
		func(r chi.Router) { modeHandler.Routes(r) },
		func(r chi.Router) { widgetHandler.Routes(r) },
		func(r chi.Router) { voiceHandler.Routes(r) },
	)

	srv.MountRoutes()

	return runHTTPServer(srv, cfg, logger)
}

// runHTTPServer starts the server in standard HTTP mode with graceful shutdown.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)

	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server resource shutdown error", "error", err)
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}

// newLogger creates a structured slog.Logger configured for the given log level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}
