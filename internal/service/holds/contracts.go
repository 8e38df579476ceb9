package holds

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// HoldRepository интерфейс репозитория удержаний
type HoldRepository interface {
	GetByResource(ctx context.Context, resourceID int64) (*domain.Hold, error)
	ListActiveByResources(ctx context.Context, resourceIDs []int64, now time.Time) ([]*domain.Hold, error)
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
