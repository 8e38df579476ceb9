package resources

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/internal/service/conflicts"
)

// ResourceRepository интерфейс репозитория экземпляров ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ResourceInstance, error)
	UpdateFlags(ctx context.Context, id int64, outOfService, hasFutureReservation bool) error
}

// AllocationRepository интерфейс репозитория аллокаций
type AllocationRepository interface {
	ListByResource(ctx context.Context, filter domain.AllocationFilter) ([]*domain.Allocation, error)
}

// HoldReader интерфейс чтения удержаний
type HoldReader interface {
	ActiveHold(ctx context.Context, resourceID int64) (*domain.Hold, error)
}

// ConflictChecker интерфейс валидатора конфликтов
type ConflictChecker interface {
	Check(ctx context.Context, resourceID int64, window domain.TimeWindow, opts ...conflicts.CheckOption) (*domain.ConflictReport, error)
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
