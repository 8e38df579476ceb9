package place_hold

import (
	"context"

	"github.com/m04kA/SMC-ResourceAllocation/internal/usecase/place_hold"
)

// PlaceHoldUseCase интерфейс use case удержания экземпляров
type PlaceHoldUseCase interface {
	Execute(ctx context.Context, req *place_hold.Request) (*place_hold.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
