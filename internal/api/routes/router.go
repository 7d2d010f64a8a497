package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"dadataclean/internal/api/handlers/clean"
	"dadataclean/internal/api/middleware"
	"dadataclean/internal/metrics"
)

// Options зависимости роутера
type Options struct {
	NewClient clean.ClientFactory
	Metrics   *metrics.Metrics    // может быть nil
	Gatherer  prometheus.Gatherer // источник для /metrics; nil - маршрут не регистрируется
	Logger    *slog.Logger
	Gzip      bool
}

// NewRouter собирает gin.Engine с middleware и всеми маршрутами
func NewRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := gin.New()
	r.Use(middleware.GinRequestIDMiddleware())
	r.Use(middleware.GinRecoveryMiddleware(logger))
	r.Use(middleware.GinLoggerMiddleware(logger))
	if opts.Metrics != nil {
		r.Use(middleware.GinMetricsMiddleware(opts.Metrics))
	}
	if opts.Gzip {
		r.Use(middleware.GinGzipMiddleware())
	}

	var observer clean.NormalizationObserver
	if opts.Metrics != nil {
		observer = opts.Metrics
	}
	RegisterCleanRoutes(r, clean.NewHandler(opts.NewClient, observer, logger))
	RegisterSystemRoutes(r, opts.Gatherer)

	return r
}

// RegisterCleanRoutes регистрирует маршруты стандартизации
func RegisterCleanRoutes(r gin.IRouter, h *clean.Handler) {
	api := r.Group("/api/v1/clean")
	api.POST("", h.HandleClean)
	api.POST("/name", h.HandleNormalizeName)
}
