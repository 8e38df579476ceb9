package set_maintenance

import (
	"context"

	"github.com/m04kA/SMC-ResourceAllocation/internal/usecase/set_maintenance"
)

// SetMaintenanceUseCase интерфейс use case замены периодов обслуживания
type SetMaintenanceUseCase interface {
	Execute(ctx context.Context, req *set_maintenance.Request) (*set_maintenance.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
