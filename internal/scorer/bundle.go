// Package scorer реализует оценку вероятности отказа по вектору признаков.
// Используется либо обученный бандл (логистическая регрессия + StandardScaler),
// либо детерминированная эвристика, если бандл недоступен
package scorer

import (
	"encoding/json"
	"fmt"
	"os"
)

// Bundle содержит обученный артефакт: модель, скейлер и упорядоченный
// список имен признаков, которые модель ожидает на входе.
// Экспортируется из обучающего пайплайна в JSON
type Bundle struct {
	Features []string     `json:"features"`
	Scaler   ScalerParams `json:"scaler"`
	Model    ModelParams  `json:"model"`
}

// ScalerParams параметры обученного StandardScaler
type ScalerParams struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// ModelParams коэффициенты обученной логистической регрессии
type ModelParams struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// LoadBundle читает и валидирует бандл модели из файла.
// Ошибка загрузки не фатальна для сервиса: вызывающая сторона
// переключается на эвристику
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model bundle: %w", err)
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse model bundle: %w", err)
	}

	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("invalid model bundle: %w", err)
	}

	return &b, nil
}

// validate проверяет согласованность размерностей бандла
func (b *Bundle) validate() error {
	n := len(b.Features)
	if n == 0 {
		return fmt.Errorf("empty feature list")
	}
	if len(b.Scaler.Mean) != n || len(b.Scaler.Scale) != n {
		return fmt.Errorf("scaler shape mismatch: %d features, %d/%d scaler params",
			n, len(b.Scaler.Mean), len(b.Scaler.Scale))
	}
	if len(b.Model.Coef) != n {
		return fmt.Errorf("model shape mismatch: %d features, %d coefficients",
			n, len(b.Model.Coef))
	}
	return nil
}
