package set_maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	resourceRepo "github.com/m04kA/SMC-ResourceAllocation/internal/infra/storage/resource"
	"github.com/m04kA/SMC-ResourceAllocation/internal/service/conflicts"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/clock"
)

// UseCase use case замены периодов обслуживания экземпляра
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

// Execute заменяет набор периодов обслуживания экземпляра целиком.
// Каждый период проверяется только против бронирований и резервов;
// существующие периоды обслуживания удаляются и не мешают новому набору.
// После записи флаг "сейчас на обслуживании" вычисляется из периодов и текущего времени.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SetMaintenance: actor=%d, resource=%d, periods=%d", req.ActorID, req.ResourceID, len(req.Periods))

	now := uc.timeProvider.Now()

	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("SetMaintenance: validation failed: %v", err)
		return nil, err
	}

	resp := &Response{ResourceID: req.ResourceID}

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Блокируем экземпляр
		instance, err := uc.resourceRepo.LockByID(txCtx, req.ResourceID)
		if err != nil {
			if errors.Is(err, resourceRepo.ErrResourceNotFound) {
				uc.logger.Warn("SetMaintenance: resource id=%d not found", req.ResourceID)
				return fmt.Errorf("%w: resource %d", domain.ErrNotFound, req.ResourceID)
			}
			uc.logger.Error("SetMaintenance: failed to lock resource id=%d: %v", req.ResourceID, err)
			return fmt.Errorf("%w: SetMaintenance - lock resource: %w", domain.ErrUnavailable, err)
		}

		spec, err := domain.LookupResourceType(instance.Type)
		if err != nil {
			return err
		}
		if err := validateForType(spec, req.Periods); err != nil {
			uc.logger.Warn("SetMaintenance: validation failed for resource id=%d: %v", req.ResourceID, err)
			return err
		}

		// 2. Старый набор удаляется целиком
		replaced, err := uc.allocationRepo.DeleteByResourceAndKind(txCtx, req.ResourceID, domain.KindMaintenance)
		if err != nil {
			uc.logger.Error("SetMaintenance: failed to delete maintenance of resource id=%d: %v", req.ResourceID, err)
			return fmt.Errorf("%w: SetMaintenance - delete maintenance: %w", domain.ErrUnavailable, err)
		}
		resp.Replaced = replaced
		resp.Periods = make([]*domain.Allocation, 0, len(req.Periods))

		// 3. Каждый период проверяется против бронирований и резервов, затем записывается
		reports := make([]domain.ConflictReport, 0)
		for _, p := range req.Periods {
			window := p.Window.In(uc.location)

			report, err := uc.validator.Check(txCtx, req.ResourceID, window,
				conflicts.WithKinds(domain.KindBooking, domain.KindReservation))
			if err != nil {
				return err
			}
			if !report.IsEmpty() {
				reports = append(reports, *report)
				continue
			}

			reason := p.Reason
			actorID := req.ActorID
			created, err := uc.allocationRepo.Create(txCtx, &domain.Allocation{
				ResourceID: req.ResourceID,
				Kind:       domain.KindMaintenance,
				Window:     window,
				Reason:     &reason,
				ActorID:    &actorID,
			})
			if err != nil {
				uc.logger.Error("SetMaintenance: failed to create period on resource id=%d: %v", req.ResourceID, err)
				return fmt.Errorf("%w: SetMaintenance - create period: %w", domain.ErrUnavailable, err)
			}
			resp.Periods = append(resp.Periods, created)
		}

		if len(reports) > 0 {
			uc.logger.Warn("SetMaintenance: %d periods conflict with bookings or reservations on resource id=%d",
				len(reports), req.ResourceID)
			return domain.NewConflictError(reports...)
		}

		// 4. Флаг выводится из записанных периодов, а не из запроса
		flags, err := uc.flags.RefreshFlags(txCtx, req.ResourceID)
		if err != nil {
			return err
		}
		resp.CurrentlyOutOfService = flags.OutOfService

		return nil
	})

	if err != nil {
		return nil, domain.AsUnavailable(err)
	}

	uc.logger.Info("SetMaintenance: resource id=%d has %d periods (replaced %d), out of service=%t",
		req.ResourceID, len(resp.Periods), resp.Replaced, resp.CurrentlyOutOfService)

	return resp, nil
}
