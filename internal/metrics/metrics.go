// Package metrics метрики Prometheus для вызовов DaData и HTTP-фасада
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик приложения
type Metrics struct {
	CleanCallsTotal        *prometheus.CounterVec
	CleanCallDuration      *prometheus.HistogramVec
	NormalizationsTotal    *prometheus.CounterVec
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDurationSec *prometheus.HistogramVec
}

// New регистрирует метрики в reg; nil означает глобальный реестр
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		CleanCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dadata_clean_calls_total",
			Help: "Total number of DaData clean calls by outcome and HTTP status",
		}, []string{"outcome", "status"}),
		CleanCallDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dadata_clean_call_duration_seconds",
			Help:    "Duration of DaData clean calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"outcome"}),
		NormalizationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dadata_name_normalizations_total",
			Help: "Total number of full name normalizations by result",
		}, []string{"result", "strict"}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dadataclean_http_requests_total",
			Help: "Total number of facade HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDurationSec: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name: "dadataclean_http_request_duration_seconds",
			Help: "Duration of facade HTTP requests in seconds",
		}, []string{"method", "route"}),
	}
}

// ObserveCall учитывает один вызов сервиса стандартизации.
// statusCode == 0 означает, что HTTP-ответ не был получен.
func (m *Metrics) ObserveCall(outcome string, statusCode int, duration time.Duration) {
	status := "none"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	m.CleanCallsTotal.WithLabelValues(outcome, status).Inc()
	m.CleanCallDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveNormalization учитывает результат нормализации ФИО
func (m *Metrics) ObserveNormalization(result string, strict bool) {
	m.NormalizationsTotal.WithLabelValues(result, strconv.FormatBool(strict)).Inc()
}

// ObserveHTTPRequest учитывает запрос к HTTP-фасаду
func (m *Metrics) ObserveHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDurationSec.WithLabelValues(method, route).Observe(duration.Seconds())
}
