// Package main запускает сервис приема телеметрии и классификации отказов
// Сервис реализует:
// - HTTP API для приема показаний сопротивления от датчиков (ESP)
// - Скользящие признаки по истории показаний (окно 120 показаний)
// - Скоринг вероятности отказа: обученный бандл либо эвристика
// - Классификацию статуса по порогам вероятности
// - Кэширование результатов в Redis
// - Экспорт метрик в Prometheus
package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"telemetry-service/internal/cache"
	"telemetry-service/internal/config"
	"telemetry-service/internal/handlers"
	"telemetry-service/internal/metrics"
	"telemetry-service/internal/pipeline"
	"telemetry-service/internal/scorer"
)

func main() {
	log.Println("Starting Telemetry Service...")
	log.Printf("Go version: %s", runtime.Version())
	log.Printf("NumCPU: %d", runtime.NumCPU())

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Загружаем бандл модели, если он есть. Отсутствие или ошибка загрузки
	// не фатальны: процесс работает на эвристике до перезапуска
	var modelScorer scorer.Scorer
	if _, err := os.Stat(cfg.ModelPath); err == nil {
		bundle, err := scorer.LoadBundle(cfg.ModelPath)
		if err != nil {
			log.Printf("Failed to load model: %v", err)
		} else {
			modelScorer = scorer.NewModelScorer(bundle)
			log.Printf("Loaded model bundle with features: %v", bundle.Features)
		}
	} else {
		log.Printf("Model bundle not found at %s, using heuristic scorer", cfg.ModelPath)
	}

	// Инициализируем конвейер обработки показаний
	pipe := pipeline.New(cfg.HistoryCapacity, modelScorer)
	log.Printf("Pipeline started, history capacity: %d", cfg.HistoryCapacity)

	// Инициализируем Redis кэш
	var redisCache *cache.RedisCache

	// Пробуем подключиться к Redis с повторами
	for i := 0; i < 5; i++ {
		redisCache, err = cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err == nil {
			log.Printf("Connected to Redis at %s", cfg.RedisAddr)
			break
		}
		log.Printf("Redis connection attempt %d failed: %v", i+1, err)
		if i < 4 {
			time.Sleep(time.Duration(i+1) * time.Second)
		}
	}

	if err != nil {
		log.Printf("Warning: Failed to connect to Redis, running without cache: %v", err)
		redisCache = nil
	}

	// Создаем обработчики
	handler := handlers.NewHandler(pipe, redisCache)

	// Настраиваем маршруты
	router := mux.NewRouter()

	// API эндпоинты
	router.HandleFunc("/predict", handler.PredictHandler).Methods("POST")
	router.HandleFunc("/latest", handler.LatestHandler).Methods("GET")
	router.HandleFunc("/history", handler.HistoryHandler).Methods("GET")
	router.HandleFunc("/ping", handler.PingHandler).Methods("GET")
	router.HandleFunc("/stats", handler.StatsHandler).Methods("GET")

	// Prometheus метрики
	router.Handle("/prometheus", promhttp.Handler())

	// pprof для профилирования
	router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	// Middleware для логирования и метрик
	router.Use(loggingMiddleware)

	// CORS для дашборда, как в исходном сервисе
	corsHandler := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins([]string{"*"}),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type"}),
	)(router)

	// Создаем HTTP сервер с настройками таймаутов
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      corsHandler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Запускаем горутину для обновления метрик
	go updateMetricsLoop(pipe)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Server listening on %s", cfg.ServerAddr)
		log.Printf("Endpoints:")
		log.Printf("  POST /predict    - Submit sensor reading")
		log.Printf("  GET  /latest     - Get latest prediction")
		log.Printf("  GET  /history    - Get observation history")
		log.Printf("  GET  /ping       - Health check")
		log.Printf("  GET  /stats      - Service statistics")
		log.Printf("  GET  /prometheus - Prometheus metrics")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	<-stop
	log.Println("Shutting down server...")

	// Контекст с таймаутом для завершения
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Закрываем Redis
	if redisCache != nil {
		redisCache.Close()
	}

	// Завершаем HTTP сервер
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// loggingMiddleware логирует HTTP запросы
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// updateMetricsLoop периодически обновляет метрики Prometheus
func updateMetricsLoop(pipe *pipeline.Pipeline) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		metrics.HistoryLength.Set(float64(pipe.HistoryLen()))
		metrics.ActiveGoroutines.Set(float64(runtime.NumGoroutine()))
	}
}
