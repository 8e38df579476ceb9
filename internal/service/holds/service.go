package holds

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	holdRepo "github.com/m04kA/SMC-ResourceAllocation/internal/infra/storage/hold"
)

// Service чтение состояния удержаний.
// Истёкшее удержание читается как отсутствующее, даже если строка ещё не удалена.
type Service struct {
	holdRepo     HoldRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса удержаний
func NewService(holdRepo HoldRepository, timeProvider TimeProvider, logger Logger) *Service {
	return &Service{
		holdRepo:     holdRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// ActiveHold возвращает действующее удержание экземпляра или nil
func (s *Service) ActiveHold(ctx context.Context, resourceID int64) (*domain.Hold, error) {
	hold, err := s.holdRepo.GetByResource(ctx, resourceID)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			return nil, nil
		}
		s.logger.Error("IsHeld: failed to get hold for resource id=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: IsHeld - get hold: %w", domain.ErrUnavailable, err)
	}

	if !hold.IsActive(s.timeProvider.Now()) {
		return nil, nil
	}

	return hold, nil
}

// IsHeld true только если удержание есть и now <= expiry
func (s *Service) IsHeld(ctx context.Context, resourceID int64) (bool, error) {
	hold, err := s.ActiveHold(ctx, resourceID)
	if err != nil {
		return false, err
	}
	return hold != nil, nil
}

// HeldResources возвращает множество удерживаемых сейчас экземпляров из списка
func (s *Service) HeldResources(ctx context.Context, resourceIDs []int64) (map[int64]*domain.Hold, error) {
	now := s.timeProvider.Now()

	holds, err := s.holdRepo.ListActiveByResources(ctx, resourceIDs, now)
	if err != nil {
		s.logger.Error("HeldResources: failed to list holds: %v", err)
		return nil, fmt.Errorf("%w: HeldResources - list holds: %w", domain.ErrUnavailable, err)
	}

	held := make(map[int64]*domain.Hold, len(holds))
	for _, h := range holds {
		if h.IsActive(now) {
			held[h.ResourceID] = h
		}
	}

	return held, nil
}
