package find_available

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// UseCase use case поиска свободных экземпляров ресурса
type UseCase struct {
	resourceRepo ResourceRepository
	holds        HoldReader
	validator    ConflictChecker
	txManager    TransactionManager
	location     *time.Location
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resourceRepo ResourceRepository,
	holds HoldReader,
	validator ConflictChecker,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		resourceRepo: resourceRepo,
		holds:        holds,
		validator:    validator,
		txManager:    txManager,
		location:     location,
		logger:       logger,
	}
}

// Execute возвращает активные экземпляры типа, которые не удерживаются сейчас
// и не имеют конфликтов на окне. Истёкшее удержание не исключает экземпляр.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("FindAvailable: type=%s, window=%s", req.ResourceType, req.Window)

	// 1. Валидация
	spec, err := domain.LookupResourceType(req.ResourceType)
	if err != nil {
		uc.logger.Warn("FindAvailable: unknown resource type %q", req.ResourceType)
		return nil, fmt.Errorf("%w: %q", err, req.ResourceType)
	}

	window := req.Window.In(uc.location)
	if err := spec.ValidateWindow(window, uc.location); err != nil {
		uc.logger.Warn("FindAvailable: validation failed: %v", err)
		return nil, err
	}

	resp := &Response{
		ResourceType: req.ResourceType,
		Window:       window,
	}

	// 2. Все чтения на одном снимке
	err = uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		instances, err := uc.resourceRepo.ListByType(txCtx, req.ResourceType, true)
		if err != nil {
			uc.logger.Error("FindAvailable: failed to list resources of type=%s: %v", req.ResourceType, err)
			return fmt.Errorf("%w: FindAvailable - list resources: %w", domain.ErrUnavailable, err)
		}

		ids := make([]int64, 0, len(instances))
		for _, inst := range instances {
			ids = append(ids, inst.ID)
		}

		held, err := uc.holds.HeldResources(txCtx, ids)
		if err != nil {
			return err
		}

		resp.Resources = make([]*domain.ResourceInstance, 0, len(instances))
		for _, inst := range instances {
			if _, ok := held[inst.ID]; ok {
				continue
			}

			report, err := uc.validator.Check(txCtx, inst.ID, window)
			if err != nil {
				return err
			}
			if !report.IsEmpty() {
				continue
			}

			resp.Resources = append(resp.Resources, inst)
		}

		return nil
	})

	if err != nil {
		return nil, domain.AsUnavailable(err)
	}

	uc.logger.Info("FindAvailable: %d of type=%s available for %s", len(resp.Resources), req.ResourceType, window)

	return resp, nil
}
