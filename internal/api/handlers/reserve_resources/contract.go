package reserve_resources

import (
	"context"

	"github.com/m04kA/SMC-ResourceAllocation/internal/usecase/reserve_resources"
)

// ReserveResourcesUseCase интерфейс use case административного резерва
type ReserveResourcesUseCase interface {
	Execute(ctx context.Context, req *reserve_resources.Request) (*reserve_resources.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
