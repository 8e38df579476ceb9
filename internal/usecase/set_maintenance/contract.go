package set_maintenance

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/internal/service/conflicts"
	"github.com/m04kA/SMC-ResourceAllocation/internal/service/resources/models"
)

// ResourceRepository интерфейс репозитория экземпляров ресурсов
type ResourceRepository interface {
	LockByID(ctx context.Context, id int64) (*domain.ResourceInstance, error)
}

// AllocationRepository интерфейс репозитория аллокаций
type AllocationRepository interface {
	Create(ctx context.Context, allocation *domain.Allocation) (*domain.Allocation, error)
	DeleteByResourceAndKind(ctx context.Context, resourceID int64, kind domain.AllocationKind) (int64, error)
}

// ConflictChecker интерфейс валидатора конфликтов
type ConflictChecker interface {
	Check(ctx context.Context, resourceID int64, window domain.TimeWindow, opts ...conflicts.CheckOption) (*domain.ConflictReport, error)
}

// FlagRefresher пересчитывает производные флаги экземпляра
type FlagRefresher interface {
	RefreshFlags(ctx context.Context, id int64) (*models.Flags, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
