// Package features вычисляет вектор признаков по истории показаний.
// Определения признаков повторяют признаки обучающего пайплайна:
// скользящие окна с min_periods=1, diff с заполнением нуля.
// Любое расхождение с обучением ломает качество модели
package features

import (
	"errors"
	"math"
	"sort"

	"telemetry-service/internal/models"
)

// ErrNoHistory возвращается при попытке вычислить признаки по пустой истории
var ErrNoHistory = errors.New("not enough history")

// Build вычисляет вектор признаков по срезу истории.
// Вход пересортировывается по возрастанию времени: ретрансляции и задержки
// датчика могут нарушить порядок поступления
func Build(snapshot []models.Observation) (models.FeatureVector, error) {
	if len(snapshot) == 0 {
		return models.FeatureVector{}, ErrNoHistory
	}

	sorted := make([]models.Observation, len(snapshot))
	copy(sorted, snapshot)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	last := sorted[len(sorted)-1]

	diff1 := 0.0
	if len(sorted) >= 2 {
		diff1 = last.Resistance - sorted[len(sorted)-2].Resistance
	}

	win3 := tail(sorted, 3)
	win7 := tail(sorted, 7)

	// weekday: 0=понедельник .. 6=воскресенье
	weekday := (int(last.Timestamp.Weekday()) + 6) % 7

	return models.FeatureVector{
		Resistance: last.Resistance,
		Diff1:      diff1,
		RollMean3:  mean(win3),
		RollStd3:   sampleStdDev(win3),
		RollMin7:   min(win7),
		RollMean7:  mean(win7),
		DayOfWeek:  weekday,
		DayOfMonth: last.Timestamp.Day(),
	}, nil
}

// tail возвращает значения последних не более k показаний
func tail(obs []models.Observation, k int) []float64 {
	start := len(obs) - k
	if start < 0 {
		start = 0
	}
	out := make([]float64, 0, len(obs)-start)
	for _, o := range obs[start:] {
		out = append(out, o.Resistance)
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev возвращает выборочное стандартное отклонение (n-1).
// Для окна из одного значения возвращается 0, как и при обучении
func sampleStdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}

func min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
