// Package metrics реализует экспорт метрик в Prometheus
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы попыток скоринга
const (
	OutcomeModelOK     = "model_ok"
	OutcomeModelFailed = "model_failed"
	OutcomeHeuristic   = "heuristic"
)

// Prometheus метрики
var (
	// RequestsTotal общее количество запросов
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_requests_total",
			Help: "Total number of requests processed",
		},
		[]string{"endpoint", "method", "status"},
	)

	// RequestDuration длительность запросов
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "telemetry_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"endpoint", "method"},
	)

	// ReadingsReceived количество принятых показаний датчика
	ReadingsReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "telemetry_readings_received_total",
			Help: "Total number of sensor readings received",
		},
	)

	// ScoringAttempts попытки скоринга по исходам
	ScoringAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_scoring_attempts_total",
			Help: "Total number of scoring attempts by outcome",
		},
		[]string{"outcome"},
	)

	// LastProbability последняя вычисленная вероятность отказа
	LastProbability = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "telemetry_last_probability",
			Help: "Most recent failure probability",
		},
	)

	// StatusTotal количество опубликованных результатов по статусам
	StatusTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_status_total",
			Help: "Total number of published results by status",
		},
		[]string{"status"},
	)

	// HistoryLength текущая длина буфера истории
	HistoryLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "telemetry_history_length",
			Help: "Current number of observations in the history buffer",
		},
	)

	// FeatureBuildLatency время вычисления вектора признаков
	FeatureBuildLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "telemetry_feature_build_latency_seconds",
			Help:    "Feature vector computation latency in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05},
		},
	)

	// CacheHits попадания в кэш
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "telemetry_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	// CacheMisses промахи кэша
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "telemetry_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// ActiveGoroutines количество активных горутин
	ActiveGoroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "telemetry_active_goroutines",
			Help: "Number of active goroutines",
		},
	)
)

// ObserveScoring фиксирует исход одной попытки скоринга.
// Никогда не блокирует и не возвращает ошибку
func ObserveScoring(outcome string, prob float64) {
	ScoringAttempts.WithLabelValues(outcome).Inc()
	LastProbability.Set(prob)
}
