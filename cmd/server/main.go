package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damon-houk/viable-rate-calculator/internal/application/service"
	"github.com/damon-houk/viable-rate-calculator/internal/config"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/api"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/db"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/handler"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/logger"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/metrics"
	"github.com/damon-houk/viable-rate-calculator/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log := logger.GetDefaultLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Fatal("Failed to load configuration", map[string]interface{}{"error": err.Error()})
	}

	log = logger.NewJSONLogger(os.Stdout, logger.ParseLevel(cfg.Log.Level)).
		WithField("app", "viable-rate-calculator")
	logger.SetDefaultLogger(log)

	log.Info("Starting Viable Rate Calculator", map[string]interface{}{
		"addr":     cfg.HTTP.Addr,
		"provider": cfg.Providers.Default,
	})

	// Setup BadgerDB
	if !cfg.Storage.InMemory {
		if err := os.MkdirAll(cfg.Storage.Path, 0755); err != nil {
			log.Fatal("Failed to create database directory", map[string]interface{}{"error": err.Error()})
		}
	}

	badgerDB, err := db.OpenBadger(cfg.Storage.Path, cfg.Storage.InMemory)
	if err != nil {
		log.Fatal("Failed to open database", map[string]interface{}{"error": err.Error()})
	}

	defer func() {
		if err := badgerDB.Close(); err != nil {
			log.Error("Error closing BadgerDB", map[string]interface{}{"error": err.Error()})
		}
	}()

	// Metrics
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// Initialize API clients
	httpClient := &http.Client{Timeout: cfg.Providers.Timeout}
	publicAPI := api.NewExchangeRateAPIClient(cfg.Providers.ExchangeRateURL, httpClient, log.WithField("component", "exchangerate_api"))
	wiseAPI := api.NewWiseAPIClient(cfg.Providers.WiseURL, httpClient, log.WithField("component", "wise_api"))

	// Initialize services
	provider, err := cfg.DefaultProvider()
	if err != nil {
		log.Fatal("Invalid default provider", map[string]interface{}{"error": err.Error()})
	}
	rateService := service.NewRateService(log.WithField("component", "rate_service"), m, publicAPI, wiseAPI)

	session, err := service.NewRateSession(context.Background(), rateService,
		db.NewBadgerCredentialRepository(badgerDB), provider, m, log.WithField("component", "rate_session"))
	if err != nil {
		log.Fatal("Failed to start rate session", map[string]interface{}{"error": err.Error()})
	}

	// Initial fetch so the first /rates call has data
	session.Refresh(context.Background())

	// Initialize handlers
	rateHandler := handler.NewRateHandler(session, rateService.Providers(), log)
	conversionHandler := handler.NewConversionHandler(session, log)

	// Setup router
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.MetricsMiddleware(m))
	rateHandler.RegisterRoutes(router)
	conversionHandler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": cfg.HTTP.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server", nil)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Server exited", nil)
}
