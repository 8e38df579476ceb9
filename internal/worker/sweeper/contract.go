package sweeper

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/service/resources/models"
)

// HoldRepository интерфейс репозитория удержаний
type HoldRepository interface {
	DeleteExpired(ctx context.Context, now time.Time) ([]string, error)
}

// AllocationRepository интерфейс репозитория аллокаций
type AllocationRepository interface {
	DeleteExpiredPlaceholders(ctx context.Context, now time.Time) (int64, error)
}

// ResourceRepository интерфейс репозитория экземпляров ресурсов
type ResourceRepository interface {
	ListIDs(ctx context.Context) ([]int64, error)
}

// FlagRefresher пересчитывает производные флаги экземпляра
type FlagRefresher interface {
	RefreshFlags(ctx context.Context, id int64) (*models.Flags, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
