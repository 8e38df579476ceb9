package place_hold

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/internal/service/conflicts"
	"github.com/m04kA/SMC-ResourceAllocation/internal/service/pricing"
)

// ResourceRepository интерфейс репозитория экземпляров ресурсов
type ResourceRepository interface {
	LockByID(ctx context.Context, id int64) (*domain.ResourceInstance, error)
}

// AllocationRepository интерфейс репозитория аллокаций
type AllocationRepository interface {
	Create(ctx context.Context, allocation *domain.Allocation) (*domain.Allocation, error)
	DeletePlaceholdersByHoldSet(ctx context.Context, holdSetID string) (int64, error)
}

// HoldRepository интерфейс репозитория удержаний
type HoldRepository interface {
	Create(ctx context.Context, hold *domain.Hold) (*domain.Hold, error)
	GetByResource(ctx context.Context, resourceID int64) (*domain.Hold, error)
	DeleteBySet(ctx context.Context, holdSetID string) (int64, error)
}

// ConflictChecker интерфейс валидатора конфликтов
type ConflictChecker interface {
	Check(ctx context.Context, resourceID int64, window domain.TimeWindow, opts ...conflicts.CheckOption) (*domain.ConflictReport, error)
}

// Pricer интерфейс расчёта стоимости экземпляра
type Pricer interface {
	PriceInstance(ctx context.Context, instance *domain.ResourceInstance, tier domain.PricingTier, window domain.TimeWindow) (*pricing.Quote, error)
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
