package unreserve_resources

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	resourceRepo "github.com/m04kA/SMC-ResourceAllocation/internal/infra/storage/resource"
)

// UseCase use case снятия административных резервов
type UseCase struct {
	resourceRepo   ResourceRepository
	allocationRepo AllocationRepository
	flags          FlagRefresher
	txManager      TransactionManager
	location       *time.Location
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resourceRepo ResourceRepository,
	allocationRepo AllocationRepository,
	flags FlagRefresher,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		resourceRepo:   resourceRepo,
		allocationRepo: allocationRepo,
		flags:          flags,
		txManager:      txManager,
		location:       location,
		logger:         logger,
	}
}

// Execute удаляет резервы, точно совпадающие с окном (и слотом).
// Бронирования, обслуживание и плейсхолдеры удержаний не затрагиваются.
// Флаг будущего резерва пересчитывается из оставшихся строк.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UnreserveResources: actor=%d, resources=%v, window=%s", req.ActorID, req.ResourceIDs, req.Window)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UnreserveResources: validation failed: %v", err)
		return nil, err
	}

	window := req.Window.In(uc.location)
	ids := append([]int64(nil), req.ResourceIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	resp := &Response{}

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		resp.Removed = 0
		resp.Resources = make([]ResourceResult, 0, len(ids))

		for _, id := range ids {
			if _, err := uc.resourceRepo.LockByID(txCtx, id); err != nil {
				if errors.Is(err, resourceRepo.ErrResourceNotFound) {
					uc.logger.Warn("UnreserveResources: resource id=%d not found", id)
					return fmt.Errorf("%w: resource %d", domain.ErrNotFound, id)
				}
				uc.logger.Error("UnreserveResources: failed to lock resource id=%d: %v", id, err)
				return fmt.Errorf("%w: UnreserveResources - lock resource: %w", domain.ErrUnavailable, err)
			}

			removed, err := uc.allocationRepo.DeleteExactReservations(txCtx, id, window)
			if err != nil {
				uc.logger.Error("UnreserveResources: failed to delete reservations on resource id=%d: %v", id, err)
				return fmt.Errorf("%w: UnreserveResources - delete reservations: %w", domain.ErrUnavailable, err)
			}

			flags, err := uc.flags.RefreshFlags(txCtx, id)
			if err != nil {
				return err
			}

			resp.Removed += removed
			resp.Resources = append(resp.Resources, ResourceResult{
				ResourceID:           id,
				Removed:              removed,
				HasFutureReservation: flags.HasFutureReservation,
			})
		}

		return nil
	})

	if err != nil {
		return nil, domain.AsUnavailable(err)
	}

	uc.logger.Info("UnreserveResources: removed %d reservations on %d resources", resp.Removed, len(ids))

	return resp, nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ActorID <= 0 {
		return fmt.Errorf("%w: actorId must be positive", domain.ErrInvalidInput)
	}
	if len(req.ResourceIDs) == 0 {
		return fmt.Errorf("%w: resourceIds must not be empty", domain.ErrInvalidInput)
	}
	if len(req.ResourceIDs) > domain.MaxBatchResources {
		return fmt.Errorf("%w: at most %d resources per request", domain.ErrInvalidInput, domain.MaxBatchResources)
	}

	seen := make(map[int64]struct{}, len(req.ResourceIDs))
	for _, id := range req.ResourceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: resourceId must be positive", domain.ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate resourceId %d", domain.ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	return req.Window.Validate()
}
