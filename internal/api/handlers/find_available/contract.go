package find_available

import (
	"context"

	"github.com/m04kA/SMC-ResourceAllocation/internal/usecase/find_available"
)

// FindAvailableUseCase интерфейс use case поиска свободных экземпляров
type FindAvailableUseCase interface {
	Execute(ctx context.Context, req *find_available.Request) (*find_available.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
