package unreserve_resources

import (
	"context"

	"github.com/m04kA/SMC-ResourceAllocation/internal/usecase/unreserve_resources"
)

// UnreserveResourcesUseCase интерфейс use case снятия резервов
type UnreserveResourcesUseCase interface {
	Execute(ctx context.Context, req *unreserve_resources.Request) (*unreserve_resources.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
