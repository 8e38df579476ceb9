package reserve_resources

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	resourceRepo "github.com/m04kA/SMC-ResourceAllocation/internal/infra/storage/resource"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/clock"
)

// UseCase use case административного резервирования экземпляров
type UseCase struct {
	resourceRepo   ResourceRepository
	allocationRepo AllocationRepository
	validator      ConflictChecker
	flags          FlagRefresher
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
	validator ConflictChecker,
	flags FlagRefresher,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		resourceRepo:   resourceRepo,
		allocationRepo: allocationRepo,
		validator:      validator,
		flags:          flags,
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

// Execute резервирует все экземпляры на окно атомарно.
// Для каждого экземпляра: удалить резерв с точно таким же окном и слотом,
// проверить конфликты, записать новый резерв. Любой конфликт отменяет весь пакет.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveResources: actor=%d, resources=%v, window=%s", req.ActorID, req.ResourceIDs, req.Window)

	now := uc.timeProvider.Now()

	// 1. Проверка диапазона дат до обращения к БД
	if err := validateRequest(req, now, uc.location); err != nil {
		uc.logger.Warn("ReserveResources: validation failed: %v", err)
		return nil, err
	}

	window := req.Window.In(uc.location)
	ids := append([]int64(nil), req.ResourceIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	resp := &Response{ResourceIDs: ids}

	// 2. Весь пакет в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		resp.Reservations = make([]*domain.Allocation, 0, len(ids))
		resp.Superseded = 0

		reports := make([]domain.ConflictReport, 0)

		for _, id := range ids {
			if err := uc.lockResource(txCtx, id, window); err != nil {
				return err
			}

			// 2.1. Резерв на то же окно и слот заменяется новым
			superseded, err := uc.allocationRepo.DeleteExactReservations(txCtx, id, window)
			if err != nil {
				uc.logger.Error("ReserveResources: failed to delete exact reservations on resource id=%d: %v", id, err)
				return fmt.Errorf("%w: ReserveResources - supersede: %w", domain.ErrUnavailable, err)
			}
			resp.Superseded += superseded

			// 2.2. Проверка конфликтов - последнее чтение перед записью
			report, err := uc.validator.Check(txCtx, id, window)
			if err != nil {
				return err
			}
			if !report.IsEmpty() {
				reports = append(reports, *report)
				continue
			}

			actorID := req.ActorID
			created, err := uc.allocationRepo.Create(txCtx, &domain.Allocation{
				ResourceID: id,
				Kind:       domain.KindReservation,
				Window:     window,
				ActorID:    &actorID,
			})
			if err != nil {
				uc.logger.Error("ReserveResources: failed to create reservation on resource id=%d: %v", id, err)
				return fmt.Errorf("%w: ReserveResources - create reservation: %w", domain.ErrUnavailable, err)
			}
			resp.Reservations = append(resp.Reservations, created)

			// 2.3. Флаг будущего резерва пересчитывается из строк
			if _, err := uc.flags.RefreshFlags(txCtx, id); err != nil {
				return err
			}
		}

		if len(reports) > 0 {
			uc.logger.Warn("ReserveResources: %d of %d resources conflict, batch rejected", len(reports), len(ids))
			return domain.NewConflictError(reports...)
		}

		return nil
	})

	if err != nil {
		return nil, domain.AsUnavailable(err)
	}

	if len(resp.Reservations) != len(ids) {
		uc.logger.Error("ReserveResources: committed %d of %d reservations", len(resp.Reservations), len(ids))
		return nil, fmt.Errorf("%w: committed %d of %d reservations",
			domain.ErrPartialBatchFailure, len(resp.Reservations), len(ids))
	}

	uc.logger.Info("ReserveResources: reserved %d resources, superseded=%d", len(ids), resp.Superseded)

	return resp, nil
}

func (uc *UseCase) lockResource(ctx context.Context, id int64, window domain.TimeWindow) error {
	instance, err := uc.resourceRepo.LockByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("ReserveResources: resource id=%d not found", id)
			return fmt.Errorf("%w: resource %d", domain.ErrNotFound, id)
		}
		uc.logger.Error("ReserveResources: failed to lock resource id=%d: %v", id, err)
		return fmt.Errorf("%w: ReserveResources - lock resource: %w", domain.ErrUnavailable, err)
	}

	if !instance.IsActive {
		uc.logger.Warn("ReserveResources: resource id=%d is inactive", id)
		return fmt.Errorf("%w: resource %d", domain.ErrResourceInactive, id)
	}

	spec, err := domain.LookupResourceType(instance.Type)
	if err != nil {
		return err
	}
	if err := spec.ValidateWindow(window, uc.location); err != nil {
		uc.logger.Warn("ReserveResources: window rejected for resource id=%d: %v", id, err)
		return err
	}

	return nil
}
