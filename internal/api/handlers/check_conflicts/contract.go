package check_conflicts

import (
	"context"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// ResourceService интерфейс сервиса экземпляров ресурсов
type ResourceService interface {
	CheckConflicts(ctx context.Context, id int64, window domain.TimeWindow) (*domain.ConflictReport, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
