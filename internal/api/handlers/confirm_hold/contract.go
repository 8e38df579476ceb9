package confirm_hold

import (
	"context"

	"github.com/m04kA/SMC-ResourceAllocation/internal/usecase/confirm_hold"
)

// ConfirmHoldUseCase интерфейс use case подтверждения оплаты
type ConfirmHoldUseCase interface {
	Execute(ctx context.Context, req *confirm_hold.Request) (*confirm_hold.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
