package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"dadataclean/cleansing"
	"dadataclean/internal/api/routes"
	"dadataclean/internal/config"
	"dadataclean/internal/logger"
	"dadataclean/internal/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	appLogger := logger.New(cfg.LogLevel, os.Stdout)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	factory := cfg.ClientFactory(
		cleansing.WithRecorder(m),
		cleansing.WithLogger(appLogger),
	)

	gin.SetMode(gin.ReleaseMode)
	router := routes.NewRouter(routes.Options{
		NewClient: factory,
		Metrics:   m,
		Gatherer:  registry,
		Logger:    appLogger,
		Gzip:      true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		appLogger.Info("Server started",
			"port", cfg.Port,
			"endpoint", cfg.EndpointURL,
			"rate_limit_per_sec", cfg.RateLimitPerSec,
			"breaker_enabled", cfg.BreakerEnabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutdown signal received, stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server shutdown failed", "error", err)
		return
	}
	appLogger.Info("Server stopped")
}
