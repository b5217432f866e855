// Package pipeline реализует конвейер обработки показаний:
// буфер истории -> признаки -> скоринг -> классификация статуса.
// Последний результат публикуется атомарно и доступен для опроса
package pipeline

import (
	"errors"
	"log"
	"math"
	"sync"
	"time"

	"telemetry-service/internal/classifier"
	"telemetry-service/internal/features"
	"telemetry-service/internal/history"
	"telemetry-service/internal/metrics"
	"telemetry-service/internal/models"
	"telemetry-service/internal/scorer"
)

// ErrInsufficientHistory возвращается, когда признаки не могут быть
// вычислены (пустой буфер). Опубликованное состояние не меняется
var ErrInsufficientHistory = errors.New("not enough history")

// Pipeline обрабатывает показания и хранит опубликованное состояние.
// Добавление в буфер, скоринг и публикация выполняются как одна
// атомарная единица под мьютексом
type Pipeline struct {
	mu        sync.RWMutex
	buffer    *history.Buffer
	model     scorer.Scorer
	heuristic scorer.Scorer
	latest    *models.PredictionResult
	now       func() time.Time
}

// New создает конвейер. model может быть nil: тогда процесс работает
// только на эвристике до перезапуска
func New(capacity int, model scorer.Scorer) *Pipeline {
	return &Pipeline{
		buffer:    history.NewBuffer(capacity),
		model:     model,
		heuristic: &scorer.HeuristicScorer{},
		now:       time.Now,
	}
}

// Ingest принимает одно показание, прогоняет его через конвейер
// и публикует новый результат
func (p *Pipeline) Ingest(resistance float64) (models.PredictionResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	obs := models.Observation{
		Timestamp:  p.now().UTC(),
		Resistance: resistance,
	}
	p.buffer.Append(obs)
	snapshot := p.buffer.Snapshot()
	metrics.HistoryLength.Set(float64(len(snapshot)))

	start := time.Now()
	fv, err := features.Build(snapshot)
	metrics.FeatureBuildLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return models.PredictionResult{}, ErrInsufficientHistory
	}

	prob, class := p.score(fv)
	status, daysLeft := classifier.Classify(prob)
	metrics.StatusTotal.WithLabelValues(status).Inc()

	result := models.PredictionResult{
		Probability: round4(prob),
		Class:       class,
		Status:      status,
		DaysLeft:    daysLeft,
		History:     snapshot,
		Timestamp:   obs.Timestamp,
	}

	p.latest = &result
	return result, nil
}

// score выполняет скоринг с откатом на эвристику при любой ошибке модели.
// Ошибка модели логируется и учитывается, но никогда не проваливает запрос
func (p *Pipeline) score(fv models.FeatureVector) (float64, int) {
	if p.model != nil {
		prob, class, err := p.model.Score(fv)
		if err == nil {
			metrics.ObserveScoring(metrics.OutcomeModelOK, prob)
			return prob, class
		}
		log.Printf("Model prediction failed, falling back to heuristic: %v", err)
		metrics.ScoringAttempts.WithLabelValues(metrics.OutcomeModelFailed).Inc()
	}

	prob, class, _ := p.heuristic.Score(fv)
	metrics.ObserveScoring(metrics.OutcomeHeuristic, prob)
	return prob, class
}

// Latest возвращает последний опубликованный результат.
// Второе значение false, если данных еще не было
func (p *Pipeline) Latest() (models.PredictionResult, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.latest == nil {
		return models.PredictionResult{}, false
	}
	return *p.latest, true
}

// History возвращает копию текущего содержимого буфера
func (p *Pipeline) History() []models.Observation {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.buffer.Snapshot()
}

// HistoryLen возвращает текущую длину буфера
func (p *Pipeline) HistoryLen() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.buffer.Len()
}

// ModelLoaded сообщает, работает ли процесс с обученной моделью
func (p *Pipeline) ModelLoaded() bool {
	return p.model != nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
