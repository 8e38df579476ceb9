package place_hold

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	holdRepo "github.com/m04kA/SMC-ResourceAllocation/internal/infra/storage/hold"
	resourceRepo "github.com/m04kA/SMC-ResourceAllocation/internal/infra/storage/resource"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/clock"
)

// UseCase use case удержания экземпляров ресурсов на время оплаты
type UseCase struct {
	resourceRepo   ResourceRepository
	allocationRepo AllocationRepository
	holdRepo       HoldRepository
	validator      ConflictChecker
	pricer         Pricer
	txManager      TransactionManager
	timeProvider   TimeProvider
	location       *time.Location
	logger         Logger
}

// Option настраивает use case
type Option func(*UseCase)

// WithTimeProvider подменяет источник времени
func WithTimeProvider(tp TimeProvider) Option {
	return func(uc *UseCase) {
		uc.timeProvider = tp
	}
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resourceRepo ResourceRepository,
	allocationRepo AllocationRepository,
	holdRepo HoldRepository,
	validator ConflictChecker,
	pricer Pricer,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		resourceRepo:   resourceRepo,
		allocationRepo: allocationRepo,
		holdRepo:       holdRepo,
		validator:      validator,
		pricer:         pricer,
		txManager:      txManager,
		timeProvider:   clock.NewSystem(),
		location:       location,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute удерживает все экземпляры из запроса или ни одного.
// Для каждого экземпляра в одной сериализуемой транзакции:
// блокировка строки ресурса, проверка удержания, проверка конфликтов, запись удержания и плейсхолдера.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("PlaceHold: resources=%v, window=%s, tier=%s", req.ResourceIDs, req.Window, req.Tier)

	now := uc.timeProvider.Now()
	window := req.Window.In(uc.location)

	// 1. Валидация до обращения к хранилищу
	if err := validateRequest(req, now, uc.location); err != nil {
		uc.logger.Warn("PlaceHold: validation failed: %v", err)
		return nil, err
	}

	// 2. Блокировки берутся в порядке возрастания id
	ids := append([]int64(nil), req.ResourceIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	set := &domain.HoldSet{
		ID:          uuid.NewString(),
		ResourceIDs: ids,
		Window:      window,
		Tier:        req.Tier,
		ExpiresAt:   now.Add(domain.DefaultHoldTTL),
	}

	// 3. Все записи пакета в одной транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		set.Prices = make([]domain.ResourcePrice, 0, len(ids))
		set.Total = 0

		reports := make([]domain.ConflictReport, 0)

		for _, id := range ids {
			instance, err := uc.lockResource(txCtx, id, window)
			if err != nil {
				return err
			}

			if err := uc.ensureNotHeld(txCtx, id, now); err != nil {
				return err
			}

			report, err := uc.validator.Check(txCtx, id, window)
			if err != nil {
				return err
			}
			if !report.IsEmpty() {
				reports = append(reports, *report)
				continue
			}

			if err := uc.createHold(txCtx, set, id); err != nil {
				return err
			}

			quote, err := uc.pricer.PriceInstance(txCtx, instance, req.Tier, window)
			if err != nil {
				uc.logger.Warn("PlaceHold: pricing failed for resource id=%d: %v", id, err)
				return err
			}

			set.Prices = append(set.Prices, domain.ResourcePrice{
				ResourceID: id,
				RateCardID: quote.RateCardID,
				Units:      quote.Units,
				Amount:     quote.Total,
			})
			set.Total += quote.Total
		}

		if len(reports) > 0 {
			uc.logger.Warn("PlaceHold: %d of %d resources conflict, nothing is held", len(reports), len(ids))
			return domain.NewConflictError(reports...)
		}

		return nil
	})

	if err != nil {
		return nil, domain.AsUnavailable(err)
	}

	// Пакет атомарен, расхождение означает ошибку границ транзакции
	if len(set.Prices) != len(ids) {
		uc.logger.Error("PlaceHold: hold set %s committed %d of %d resources", set.ID, len(set.Prices), len(ids))
		return nil, fmt.Errorf("%w: hold set %s committed %d of %d resources",
			domain.ErrPartialBatchFailure, set.ID, len(set.Prices), len(ids))
	}

	uc.logger.Info("PlaceHold: hold set %s placed on %d resources until %s, total=%d",
		set.ID, len(ids), set.ExpiresAt.Format(time.RFC3339), set.Total)

	return set, nil
}

// lockResource блокирует строку ресурса и проверяет, что окно допустимо для его типа
func (uc *UseCase) lockResource(ctx context.Context, id int64, window domain.TimeWindow) (*domain.ResourceInstance, error) {
	instance, err := uc.resourceRepo.LockByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("PlaceHold: resource id=%d not found", id)
			return nil, fmt.Errorf("%w: resource %d", domain.ErrNotFound, id)
		}
		uc.logger.Error("PlaceHold: failed to lock resource id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: PlaceHold - lock resource: %w", domain.ErrUnavailable, err)
	}

	if !instance.IsActive {
		uc.logger.Warn("PlaceHold: resource id=%d is inactive", id)
		return nil, fmt.Errorf("%w: resource %d", domain.ErrResourceInactive, id)
	}

	spec, err := domain.LookupResourceType(instance.Type)
	if err != nil {
		return nil, err
	}
	if err := spec.ValidateWindow(window, uc.location); err != nil {
		uc.logger.Warn("PlaceHold: window rejected for resource id=%d: %v", id, err)
		return nil, err
	}

	return instance, nil
}

// ensureNotHeld отклоняет действующее удержание; истёкшее удаляется вместе с плейсхолдерами его набора
func (uc *UseCase) ensureNotHeld(ctx context.Context, id int64, now time.Time) error {
	existing, err := uc.holdRepo.GetByResource(ctx, id)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			return nil
		}
		uc.logger.Error("PlaceHold: failed to get hold for resource id=%d: %v", id, err)
		return fmt.Errorf("%w: PlaceHold - get hold: %w", domain.ErrUnavailable, err)
	}

	if existing.IsActive(now) {
		uc.logger.Warn("PlaceHold: resource id=%d already held by set %s until %s",
			id, existing.HoldSetID, existing.ExpiresAt.Format(time.RFC3339))
		return &domain.AlreadyHeldError{ResourceID: id, ExpiresAt: existing.ExpiresAt}
	}

	if _, err := uc.holdRepo.DeleteBySet(ctx, existing.HoldSetID); err != nil {
		uc.logger.Error("PlaceHold: failed to delete expired hold set %s: %v", existing.HoldSetID, err)
		return fmt.Errorf("%w: PlaceHold - delete expired holds: %w", domain.ErrUnavailable, err)
	}
	if _, err := uc.allocationRepo.DeletePlaceholdersByHoldSet(ctx, existing.HoldSetID); err != nil {
		uc.logger.Error("PlaceHold: failed to delete placeholders of expired set %s: %v", existing.HoldSetID, err)
		return fmt.Errorf("%w: PlaceHold - delete expired placeholders: %w", domain.ErrUnavailable, err)
	}

	uc.logger.Info("PlaceHold: removed expired hold set %s", existing.HoldSetID)
	return nil
}

// createHold записывает удержание и плейсхолдер резерва на то же окно
func (uc *UseCase) createHold(ctx context.Context, set *domain.HoldSet, id int64) error {
	_, err := uc.holdRepo.Create(ctx, &domain.Hold{
		HoldSetID:  set.ID,
		ResourceID: id,
		ExpiresAt:  set.ExpiresAt,
	})
	if err != nil {
		if errors.Is(err, holdRepo.ErrDuplicateHold) {
			return &domain.AlreadyHeldError{ResourceID: id, ExpiresAt: set.ExpiresAt}
		}
		uc.logger.Error("PlaceHold: failed to create hold for resource id=%d: %v", id, err)
		return fmt.Errorf("%w: PlaceHold - create hold: %w", domain.ErrUnavailable, err)
	}

	setID := set.ID
	expiresAt := set.ExpiresAt
	_, err = uc.allocationRepo.Create(ctx, &domain.Allocation{
		ResourceID:    id,
		Kind:          domain.KindReservation,
		Window:        set.Window,
		HoldSetID:     &setID,
		HoldExpiresAt: &expiresAt,
	})
	if err != nil {
		// транзакция откатит и удержание: флаг не остаётся без плейсхолдера
		uc.logger.Error("PlaceHold: failed to create placeholder for resource id=%d: %v", id, err)
		return fmt.Errorf("%w: PlaceHold - create placeholder: %w", domain.ErrUnavailable, err)
	}

	return nil
}
