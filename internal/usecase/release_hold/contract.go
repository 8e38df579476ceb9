package release_hold

import (
	"context"
)

// AllocationRepository интерфейс репозитория аллокаций
type AllocationRepository interface {
	DeletePlaceholdersByHoldSet(ctx context.Context, holdSetID string) (int64, error)
}

// HoldRepository интерфейс репозитория удержаний
type HoldRepository interface {
	DeleteBySet(ctx context.Context, holdSetID string) (int64, error)
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
