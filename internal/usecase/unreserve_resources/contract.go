package unreserve_resources

import (
	"context"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/internal/service/resources/models"
)

// ResourceRepository интерфейс репозитория экземпляров ресурсов
type ResourceRepository interface {
	LockByID(ctx context.Context, id int64) (*domain.ResourceInstance, error)
}

// AllocationRepository интерфейс репозитория аллокаций
type AllocationRepository interface {
	DeleteExactReservations(ctx context.Context, resourceID int64, window domain.TimeWindow) (int64, error)
}

// FlagRefresher пересчитывает производные флаги экземпляра
type FlagRefresher interface {
	RefreshFlags(ctx context.Context, id int64) (*models.Flags, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
