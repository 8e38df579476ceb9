package release_hold

import (
	"context"

	"github.com/m04kA/SMC-ResourceAllocation/internal/usecase/release_hold"
)

// ReleaseHoldUseCase интерфейс use case снятия набора удержаний
type ReleaseHoldUseCase interface {
	Execute(ctx context.Context, holdSetID string) (*release_hold.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
