package find_available

import (
	"context"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/internal/service/conflicts"
)

// ResourceRepository интерфейс репозитория экземпляров ресурсов
type ResourceRepository interface {
	ListByType(ctx context.Context, resourceType domain.ResourceType, activeOnly bool) ([]*domain.ResourceInstance, error)
}

// HoldReader интерфейс чтения удержаний (истёкшие удержания не возвращаются)
type HoldReader interface {
	HeldResources(ctx context.Context, resourceIDs []int64) (map[int64]*domain.Hold, error)
}

// ConflictChecker интерфейс валидатора конфликтов
type ConflictChecker interface {
	Check(ctx context.Context, resourceID int64, window domain.TimeWindow, opts ...conflicts.CheckOption) (*domain.ConflictReport, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
