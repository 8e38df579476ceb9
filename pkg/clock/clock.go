package clock

import (
	"sync"
	"time"
)

// Clock источник текущего времени (подменяется в тестах)
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem возвращает часы на основе time.Now
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

type fixedClock struct {
	now time.Time
}

// NewFixed возвращает часы, всегда показывающие одно и то же время
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t}
}

func (f fixedClock) Now() time.Time {
	return f.now
}

// Manual часы, которые двигаются только явно (для тестов с течением времени)
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual возвращает часы, стоящие на t
func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set переводит часы на t
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance сдвигает часы на d
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
