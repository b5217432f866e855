package scorer

import (
	"fmt"
	"math"

	"telemetry-service/internal/models"
)

// Scorer оценивает вероятность отказа по вектору признаков.
// Возвращает вероятность положительного класса в [0,1] и предсказанную метку
type Scorer interface {
	Name() string
	Score(fv models.FeatureVector) (prob float64, class int, err error)
}

// ModelScorer применяет обученный бандл: сборка вектора по порядку имен,
// масштабирование, логистическая регрессия
type ModelScorer struct {
	bundle *Bundle
}

// NewModelScorer создает скорер поверх загруженного бандла
func NewModelScorer(b *Bundle) *ModelScorer {
	return &ModelScorer{bundle: b}
}

// Name возвращает имя варианта скорера
func (s *ModelScorer) Name() string { return "model" }

// Score выполняет инференс. Отсутствующее в векторе имя признака
// дает 0.0, как и при обучении
func (s *ModelScorer) Score(fv models.FeatureVector) (float64, int, error) {
	b := s.bundle
	if b == nil {
		return 0, 0, fmt.Errorf("no model bundle loaded")
	}

	z := b.Model.Intercept
	for i, name := range b.Features {
		scale := b.Scaler.Scale[i]
		if scale == 0 {
			return 0, 0, fmt.Errorf("zero scale for feature %q", name)
		}
		x := (fv.Get(name) - b.Scaler.Mean[i]) / scale
		z += b.Model.Coef[i] * x
	}

	prob := sigmoid(z)
	if math.IsNaN(prob) || math.IsInf(prob, 0) {
		return 0, 0, fmt.Errorf("non-finite probability from model")
	}

	class := 0
	if prob >= 0.5 {
		class = 1
	}
	return prob, class, nil
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// HeuristicScorer детерминированная замена модели: резкое падение
// сопротивления повышает вероятность отказа. Это заглушка с понятной
// монотонностью, а не настроенная модель
type HeuristicScorer struct{}

// Name возвращает имя варианта скорера
func (s *HeuristicScorer) Name() string { return "heuristic" }

// Score вычисляет prob = clamp(-diff_1/100 + 0.5, 0, 1), class = prob > 0.6
func (s *HeuristicScorer) Score(fv models.FeatureVector) (float64, int, error) {
	prob := -fv.Diff1/100.0 + 0.5
	if prob < 0 {
		prob = 0
	}
	if prob > 1 {
		prob = 1
	}

	class := 0
	if prob > 0.6 {
		class = 1
	}
	return prob, class, nil
}
