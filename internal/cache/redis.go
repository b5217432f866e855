// Package cache реализует кэширование результатов классификации в Redis
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"telemetry-service/internal/models"
)

const (
	// PredictionKeyPrefix префикс для ключей результатов
	PredictionKeyPrefix = "prediction:"
	// LatestPredictionKey ключ последнего результата
	LatestPredictionKey = "prediction:latest"
	// PredictionListKey ключ списка последних результатов
	PredictionListKey = "predictions:recent"
	// PredictionsCounterKey счетчик всех результатов
	PredictionsCounterKey = "predictions:total"
	// DetectionsCounterKey счетчик результатов со статусом Detected
	DetectionsCounterKey = "detections:total"
	// PredictionTTL время жизни результата
	PredictionTTL = 1 * time.Hour
	// RecentListLimit сколько последних результатов хранить в списке
	RecentListLimit = 500
)

// RedisCache реализует кэширование в Redis
type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisCache создает новое подключение к Redis
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     100,
		MinIdleConns: 10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx := context.Background()

	// Проверяем подключение
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		client: client,
		ctx:    ctx,
	}, nil
}

// CachePrediction сохраняет результат классификации в Redis.
// Результат пишется под временным ключом и в ограниченный список последних
func (r *RedisCache) CachePrediction(p models.PredictionResult) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal prediction: %w", err)
	}

	key := fmt.Sprintf("%s%d", PredictionKeyPrefix, p.Timestamp.UnixNano())

	pipe := r.client.Pipeline()
	pipe.Set(r.ctx, key, data, PredictionTTL)
	pipe.Set(r.ctx, LatestPredictionKey, data, PredictionTTL)
	pipe.LPush(r.ctx, PredictionListKey, data)
	pipe.LTrim(r.ctx, PredictionListKey, 0, RecentListLimit-1)
	pipe.Incr(r.ctx, PredictionsCounterKey)
	if p.Status == models.StatusDetected {
		pipe.Incr(r.ctx, DetectionsCounterKey)
	}

	_, err = pipe.Exec(r.ctx)
	if err != nil {
		return fmt.Errorf("failed to cache prediction: %w", err)
	}

	return nil
}

// GetRecentPredictions возвращает последние N результатов
func (r *RedisCache) GetRecentPredictions(count int64) ([]models.PredictionResult, error) {
	data, err := r.client.LRange(r.ctx, PredictionListKey, 0, count-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get recent predictions: %w", err)
	}

	out := make([]models.PredictionResult, 0, len(data))
	for _, d := range data {
		var p models.PredictionResult
		if err := json.Unmarshal([]byte(d), &p); err != nil {
			continue
		}
		out = append(out, p)
	}

	return out, nil
}

// GetCounter возвращает значение счетчика
func (r *RedisCache) GetCounter(key string) (int64, error) {
	val, err := r.client.Get(r.ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}

// Ping проверяет соединение с Redis
func (r *RedisCache) Ping() error {
	return r.client.Ping(r.ctx).Err()
}

// Close закрывает соединение
func (r *RedisCache) Close() error {
	return r.client.Close()
}
