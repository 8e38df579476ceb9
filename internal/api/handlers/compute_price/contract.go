package compute_price

import (
	"context"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/internal/service/pricing"
)

// PricingService интерфейс сервиса расчёта стоимости
type PricingService interface {
	ComputePrice(ctx context.Context, resourceType domain.ResourceType, tier domain.PricingTier, window domain.TimeWindow) (*pricing.Quote, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
