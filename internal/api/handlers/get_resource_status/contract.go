package get_resource_status

import (
	"context"

	"github.com/m04kA/SMC-ResourceAllocation/internal/service/resources/models"
)

// ResourceService интерфейс сервиса экземпляров ресурсов
type ResourceService interface {
	GetStatus(ctx context.Context, id int64) (*models.ResourceStatus, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
