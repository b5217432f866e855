// Package models содержит структуры данных телеметрии и результатов классификации
package models

import "time"

// Статусы состояния датчика
const (
	StatusNormal      = "Normal"
	StatusApproaching = "Approaching"
	StatusDetected    = "Detected"
)

// Observation представляет одно показание датчика сопротивления
type Observation struct {
	Timestamp  time.Time `json:"timestamp"`
	Resistance float64   `json:"resistance"`
}

// FeatureVector содержит признаки, вычисленные по скользящим окнам истории.
// Схема признаков должна в точности совпадать с той, что использовалась при обучении
type FeatureVector struct {
	Resistance float64 `json:"resistance"`
	Diff1      float64 `json:"diff_1"`
	RollMean3  float64 `json:"roll_mean_3"`
	RollStd3   float64 `json:"roll_std_3"`
	RollMin7   float64 `json:"roll_min_7"`
	RollMean7  float64 `json:"roll_mean_7"`
	DayOfWeek  int     `json:"day_of_week"`
	DayOfMonth int     `json:"day_of_month"`
}

// Get возвращает значение признака по имени из контракта бандла.
// Неизвестное имя дает 0.0, чтобы расхождение схем не ломало инференс
func (f FeatureVector) Get(name string) float64 {
	switch name {
	case "resistance":
		return f.Resistance
	case "diff_1":
		return f.Diff1
	case "roll_mean_3":
		return f.RollMean3
	case "roll_std_3":
		return f.RollStd3
	case "roll_min_7":
		return f.RollMin7
	case "roll_mean_7":
		return f.RollMean7
	case "day_of_week":
		return float64(f.DayOfWeek)
	case "day_of_month":
		return float64(f.DayOfMonth)
	default:
		return 0.0
	}
}

// PredictionResult содержит опубликованный результат классификации.
// Перезаписывается целиком на каждое новое показание
type PredictionResult struct {
	Probability float64       `json:"probability"`
	Class       int           `json:"class"`
	Status      string        `json:"status"`
	DaysLeft    *int          `json:"days_left"`
	History     []Observation `json:"history"`
	Timestamp   time.Time     `json:"timestamp"`
}

// HealthStatus представляет статус здоровья сервиса
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Redis     string    `json:"redis"`
	Model     string    `json:"model"`
	Uptime    string    `json:"uptime"`
}

// StatsResponse содержит статистику сервиса
type StatsResponse struct {
	TotalPredictions int64 `json:"total_predictions"`
	DetectionsCount  int64 `json:"detections_count"`
	HistoryLength    int   `json:"history_length"`
	Goroutines       int   `json:"goroutines"`
}
