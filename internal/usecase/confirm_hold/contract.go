package confirm_hold

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// ResourceRepository интерфейс репозитория экземпляров ресурсов
type ResourceRepository interface {
	LockByID(ctx context.Context, id int64) (*domain.ResourceInstance, error)
}

// AllocationRepository интерфейс репозитория аллокаций
type AllocationRepository interface {
	ListByHoldSet(ctx context.Context, holdSetID string) ([]*domain.Allocation, error)
	ConvertToBooking(ctx context.Context, id int64, status domain.PaymentStatus, reference *string) error
}

// HoldRepository интерфейс репозитория удержаний
type HoldRepository interface {
	ListBySet(ctx context.Context, holdSetID string) ([]*domain.Hold, error)
	DeleteBySet(ctx context.Context, holdSetID string) (int64, error)
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
