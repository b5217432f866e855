// Package config загружает конфигурацию сервиса из переменных окружения
package config

import (
	"time"

	"github.com/caarlos0/env/v6"
)

// Config содержит конфигурацию сервиса
type Config struct {
	ServerAddr      string        `env:"SERVER_ADDR" envDefault:":5000"`
	RedisAddr       string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	ModelPath       string        `env:"MODEL_PATH" envDefault:"multiuser_logreg_5d.json"`
	HistoryCapacity int           `env:"HISTORY_CAPACITY" envDefault:"120"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
}

// Load разбирает конфигурацию из окружения
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
