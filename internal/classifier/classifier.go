// Package classifier отображает вероятность отказа в статус и оценку
// оставшихся дней по фиксированным порогам
package classifier

import "telemetry-service/internal/models"

// Пороги вероятности, сравнение строгое
const (
	DetectedThreshold    = 0.9
	ApproachingThreshold = 0.6
	WatchThreshold       = 0.4
)

// Classify возвращает статус и количество оставшихся дней.
// Для статуса Normal days_left отсутствует (nil).
// Первое сработавшее условие выигрывает
func Classify(prob float64) (string, *int) {
	switch {
	case prob > DetectedThreshold:
		return models.StatusDetected, intPtr(0)
	case prob > ApproachingThreshold:
		return models.StatusApproaching, intPtr(1)
	case prob > WatchThreshold:
		return models.StatusApproaching, intPtr(2)
	default:
		return models.StatusNormal, nil
	}
}

func intPtr(v int) *int {
	return &v
}
