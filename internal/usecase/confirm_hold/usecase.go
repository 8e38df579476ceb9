package confirm_hold

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	resourceRepo "github.com/m04kA/SMC-ResourceAllocation/internal/infra/storage/resource"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/clock"
)

// UseCase use case подтверждения оплаты: плейсхолдеры набора становятся бронированиями
type UseCase struct {
	resourceRepo   ResourceRepository
	allocationRepo AllocationRepository
	holdRepo       HoldRepository
	txManager      TransactionManager
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resourceRepo ResourceRepository,
	allocationRepo AllocationRepository,
	holdRepo HoldRepository,
	txManager TransactionManager,
	logger Logger,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		resourceRepo:   resourceRepo,
		allocationRepo: allocationRepo,
		holdRepo:       holdRepo,
		txManager:      txManager,
		timeProvider:   clock.NewSystem(),
		logger:         logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Option настраивает use case
type Option func(*UseCase)

// WithTimeProvider подменяет источник времени
func WithTimeProvider(tp TimeProvider) Option {
	return func(uc *UseCase) {
		uc.timeProvider = tp
	}
}

// Execute конвертирует все плейсхолдеры набора в бронирования и снимает удержания.
// Оплата, пришедшая после истечения удержания, отклоняется с ErrHoldExpired.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmHold: hold set %s, payment=%s", req.HoldSetID, req.PaymentStatus)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmHold: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	var bookings []*domain.Allocation

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Удержания набора (отсортированы по resource_instance_id)
		holds, err := uc.holdRepo.ListBySet(txCtx, req.HoldSetID)
		if err != nil {
			uc.logger.Error("ConfirmHold: failed to list holds of set %s: %v", req.HoldSetID, err)
			return fmt.Errorf("%w: ConfirmHold - list holds: %w", domain.ErrUnavailable, err)
		}
		if len(holds) == 0 {
			uc.logger.Warn("ConfirmHold: hold set %s not found", req.HoldSetID)
			return fmt.Errorf("%w: hold set %s", domain.ErrNotFound, req.HoldSetID)
		}

		// 2. Блокируем ресурсы и проверяем срок каждого удержания
		for _, h := range holds {
			if _, err := uc.resourceRepo.LockByID(txCtx, h.ResourceID); err != nil {
				if errors.Is(err, resourceRepo.ErrResourceNotFound) {
					return fmt.Errorf("%w: resource %d", domain.ErrNotFound, h.ResourceID)
				}
				uc.logger.Error("ConfirmHold: failed to lock resource id=%d: %v", h.ResourceID, err)
				return fmt.Errorf("%w: ConfirmHold - lock resource: %w", domain.ErrUnavailable, err)
			}

			if !h.IsActive(now) {
				uc.logger.Warn("ConfirmHold: hold set %s expired at %s",
					req.HoldSetID, h.ExpiresAt.Format(time.RFC3339))
				return fmt.Errorf("%w: hold set %s expired at %s",
					domain.ErrHoldExpired, req.HoldSetID, h.ExpiresAt.Format(time.RFC3339))
			}
		}

		// 3. Плейсхолдеры должны соответствовать удержаниям один к одному
		placeholders, err := uc.allocationRepo.ListByHoldSet(txCtx, req.HoldSetID)
		if err != nil {
			uc.logger.Error("ConfirmHold: failed to list placeholders of set %s: %v", req.HoldSetID, err)
			return fmt.Errorf("%w: ConfirmHold - list placeholders: %w", domain.ErrUnavailable, err)
		}
		if len(placeholders) != len(holds) {
			uc.logger.Error("ConfirmHold: hold set %s has %d holds but %d placeholders",
				req.HoldSetID, len(holds), len(placeholders))
			return fmt.Errorf("%w: hold set %s has %d holds but %d placeholders",
				domain.ErrPartialBatchFailure, req.HoldSetID, len(holds), len(placeholders))
		}

		// 4. Конвертируем плейсхолдеры в бронирования
		for _, p := range placeholders {
			if err := uc.allocationRepo.ConvertToBooking(txCtx, p.ID, req.PaymentStatus, req.PaymentReference); err != nil {
				uc.logger.Error("ConfirmHold: failed to convert placeholder id=%d: %v", p.ID, err)
				return fmt.Errorf("%w: ConfirmHold - convert placeholder: %w", domain.ErrUnavailable, err)
			}

			status := req.PaymentStatus
			p.Kind = domain.KindBooking
			p.PaymentStatus = &status
			p.PaymentReference = req.PaymentReference
			p.HoldSetID = nil
			p.HoldExpiresAt = nil
		}

		// 5. Снимаем удержания
		if _, err := uc.holdRepo.DeleteBySet(txCtx, req.HoldSetID); err != nil {
			uc.logger.Error("ConfirmHold: failed to delete holds of set %s: %v", req.HoldSetID, err)
			return fmt.Errorf("%w: ConfirmHold - delete holds: %w", domain.ErrUnavailable, err)
		}

		bookings = placeholders
		return nil
	})

	if err != nil {
		return nil, domain.AsUnavailable(err)
	}

	uc.logger.Info("ConfirmHold: hold set %s converted into %d bookings", req.HoldSetID, len(bookings))

	return &Response{
		HoldSetID: req.HoldSetID,
		Bookings:  bookings,
	}, nil
}
