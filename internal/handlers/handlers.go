// Package handlers содержит HTTP обработчики для API
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"telemetry-service/internal/cache"
	"telemetry-service/internal/metrics"
	"telemetry-service/internal/models"
	"telemetry-service/internal/pipeline"
)

// Ошибки разбора тела запроса
var (
	errInvalidJSON       = errors.New("invalid json")
	errMissingResistance = errors.New("missing resistance")
	errInvalidResistance = errors.New("invalid resistance value")
)

// Handler содержит зависимости для HTTP обработчиков
type Handler struct {
	pipeline  *pipeline.Pipeline
	cache     *cache.RedisCache
	startTime time.Time
}

// NewHandler создает новый обработчик
func NewHandler(p *pipeline.Pipeline, c *cache.RedisCache) *Handler {
	return &Handler{
		pipeline:  p,
		cache:     c,
		startTime: time.Now(),
	}
}

// PredictHandler обрабатывает POST /predict - прием показания и классификация.
// Тело запроса: либо число, либо объект {"resistance": 210.5}
func (h *Handler) PredictHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues("/predict", r.Method))
	defer timer.ObserveDuration()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.respondError(w, errInvalidJSON.Error(), http.StatusBadRequest)
		metrics.RequestsTotal.WithLabelValues("/predict", r.Method, "400").Inc()
		return
	}

	resistance, err := parseResistance(body)
	if err != nil {
		h.respondError(w, err.Error(), http.StatusBadRequest)
		metrics.RequestsTotal.WithLabelValues("/predict", r.Method, "400").Inc()
		return
	}

	log.Printf("Received /predict: resistance=%v", resistance)
	metrics.ReadingsReceived.Inc()

	result, err := h.pipeline.Ingest(resistance)
	if err != nil {
		h.respondError(w, "not enough history", http.StatusBadRequest)
		metrics.RequestsTotal.WithLabelValues("/predict", r.Method, "400").Inc()
		return
	}

	// Кэшируем результат в Redis, ошибка кэша не проваливает запрос
	if h.cache != nil {
		if err := h.cache.CachePrediction(result); err != nil {
			metrics.CacheMisses.Inc()
		} else {
			metrics.CacheHits.Inc()
		}
	}

	metrics.RequestsTotal.WithLabelValues("/predict", r.Method, "200").Inc()
	h.respondJSON(w, result, http.StatusOK)
}

// parseResistance извлекает показание из тела запроса.
// Принимается либо число, либо объект с полем resistance,
// значение которого может быть числом или числовой строкой
func parseResistance(body []byte) (float64, error) {
	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, errInvalidJSON
	}

	switch v := payload.(type) {
	case float64:
		return v, nil
	case map[string]interface{}:
		raw, ok := v["resistance"]
		if !ok {
			return 0, errMissingResistance
		}
		switch value := raw.(type) {
		case float64:
			return value, nil
		case string:
			parsed, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return 0, errInvalidResistance
			}
			return parsed, nil
		default:
			return 0, errInvalidResistance
		}
	default:
		return 0, errMissingResistance
	}
}

// LatestHandler обрабатывает GET /latest - последний результат для дашборда
func (h *Handler) LatestHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues("/latest", r.Method))
	defer timer.ObserveDuration()

	result, ok := h.pipeline.Latest()
	if !ok {
		metrics.RequestsTotal.WithLabelValues("/latest", r.Method, "204").Inc()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	metrics.RequestsTotal.WithLabelValues("/latest", r.Method, "200").Inc()
	h.respondJSON(w, result, http.StatusOK)
}

// HistoryHandler обрабатывает GET /history - текущее содержимое буфера
func (h *Handler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues("/history", r.Method))
	defer timer.ObserveDuration()

	metrics.RequestsTotal.WithLabelValues("/history", r.Method, "200").Inc()
	h.respondJSON(w, h.pipeline.History(), http.StatusOK)
}

// PingHandler обрабатывает GET /ping - проверка здоровья
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	redisStatus := "disconnected"
	if h.cache != nil && h.cache.Ping() == nil {
		redisStatus = "connected"
	}

	modelStatus := "heuristic"
	if h.pipeline.ModelLoaded() {
		modelStatus = "loaded"
	}

	status := models.HealthStatus{
		Status:    "pong",
		Timestamp: time.Now().UTC(),
		Redis:     redisStatus,
		Model:     modelStatus,
		Uptime:    time.Since(h.startTime).String(),
	}

	h.respondJSON(w, status, http.StatusOK)
}

// StatsHandler обрабатывает GET /stats - статистика сервиса
func (h *Handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues("/stats", r.Method))
	defer timer.ObserveDuration()

	metrics.ActiveGoroutines.Set(float64(runtime.NumGoroutine()))

	var totalPredictions int64
	var detectionsCount int64

	if h.cache != nil {
		totalPredictions, _ = h.cache.GetCounter(cache.PredictionsCounterKey)
		detectionsCount, _ = h.cache.GetCounter(cache.DetectionsCounterKey)
	}

	response := models.StatsResponse{
		TotalPredictions: totalPredictions,
		DetectionsCount:  detectionsCount,
		HistoryLength:    h.pipeline.HistoryLen(),
		Goroutines:       runtime.NumGoroutine(),
	}

	metrics.RequestsTotal.WithLabelValues("/stats", r.Method, "200").Inc()
	h.respondJSON(w, response, http.StatusOK)
}

// respondJSON отправляет JSON ответ
func (h *Handler) respondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError отправляет ошибку в JSON формате
func (h *Handler) respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
