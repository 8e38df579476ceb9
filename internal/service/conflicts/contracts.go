package conflicts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// AllocationRepository интерфейс репозитория аллокаций
type AllocationRepository interface {
	ListByResource(ctx context.Context, filter domain.AllocationFilter) ([]*domain.Allocation, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
