package pricing

import (
	"context"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// RateCardRepository интерфейс репозитория тарифных карт
type RateCardRepository interface {
	GetDefaultByType(ctx context.Context, resourceType domain.ResourceType) (*domain.RateCard, error)
	GetForInstance(ctx context.Context, resourceType domain.ResourceType, rateCardID *int64) (*domain.RateCard, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
