package release_hold

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// UseCase use case снятия удержаний (отказ от оплаты или ошибка платежа)
type UseCase struct {
	allocationRepo AllocationRepository
	holdRepo       HoldRepository
	txManager      TransactionManager
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	allocationRepo AllocationRepository,
	holdRepo HoldRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		allocationRepo: allocationRepo,
		holdRepo:       holdRepo,
		txManager:      txManager,
		logger:         logger,
	}
}

// Execute удаляет удержания набора и их плейсхолдеры в одной транзакции.
// Идемпотентна: повторный вызов, неизвестный или истёкший набор - не ошибка.
func (uc *UseCase) Execute(ctx context.Context, holdSetID string) (*Response, error) {
	uc.logger.Info("ReleaseHold: hold set %s", holdSetID)

	if _, err := uuid.Parse(holdSetID); err != nil {
		uc.logger.Warn("ReleaseHold: invalid hold set id %q", holdSetID)
		return nil, fmt.Errorf("%w: holdSetId must be a UUID", domain.ErrInvalidInput)
	}

	resp := &Response{HoldSetID: holdSetID}

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		released, err := uc.holdRepo.DeleteBySet(txCtx, holdSetID)
		if err != nil {
			uc.logger.Error("ReleaseHold: failed to delete holds of set %s: %v", holdSetID, err)
			return fmt.Errorf("%w: ReleaseHold - delete holds: %w", domain.ErrUnavailable, err)
		}

		removed, err := uc.allocationRepo.DeletePlaceholdersByHoldSet(txCtx, holdSetID)
		if err != nil {
			uc.logger.Error("ReleaseHold: failed to delete placeholders of set %s: %v", holdSetID, err)
			return fmt.Errorf("%w: ReleaseHold - delete placeholders: %w", domain.ErrUnavailable, err)
		}

		resp.ReleasedHolds = released
		resp.RemovedPlaceholders = removed
		return nil
	})

	if err != nil {
		return nil, domain.AsUnavailable(err)
	}

	if resp.ReleasedHolds != resp.RemovedPlaceholders {
		// удержания и плейсхолдеры создаются и удаляются только вместе
		uc.logger.Error("ReleaseHold: hold set %s had %d holds but %d placeholders",
			holdSetID, resp.ReleasedHolds, resp.RemovedPlaceholders)
	}

	uc.logger.Info("ReleaseHold: hold set %s released, holds=%d, placeholders=%d",
		holdSetID, resp.ReleasedHolds, resp.RemovedPlaceholders)

	return resp, nil
}
