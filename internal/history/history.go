// Package history реализует ограниченный буфер показаний датчика.
// Буфер хранит последние N показаний в порядке поступления, старые
// вытесняются по принципу FIFO
package history

import (
	"sync"

	"telemetry-service/internal/models"
)

// DefaultCapacity емкость буфера по умолчанию (120 показаний)
const DefaultCapacity = 120

// Buffer кольцевой буфер показаний фиксированной емкости
type Buffer struct {
	mu       sync.RWMutex
	entries  []models.Observation
	capacity int
	head     int
	count    int
}

// NewBuffer создает новый буфер заданной емкости
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		entries:  make([]models.Observation, capacity),
		capacity: capacity,
	}
}

// Append добавляет показание в хвост буфера.
// При переполнении вытесняется самое старое показание
func (b *Buffer) Append(obs models.Observation) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tail := (b.head + b.count) % b.capacity
	b.entries[tail] = obs
	if b.count < b.capacity {
		b.count++
	} else {
		// Буфер полон, хвост перезаписал голову
		b.head = (b.head + 1) % b.capacity
	}
}

// Snapshot возвращает копию содержимого буфера в порядке поступления.
// Возвращается именно копия, чтобы вычисление признаков не зависело
// от конкурентных добавлений
func (b *Buffer) Snapshot() []models.Observation {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.Observation, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.entries[(b.head+i)%b.capacity]
	}
	return out
}

// Len возвращает текущее количество показаний в буфере
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// Capacity возвращает максимальную емкость буфера
func (b *Buffer) Capacity() int {
	return b.capacity
}
