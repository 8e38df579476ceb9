package resources

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	resourceRepo "github.com/m04kA/SMC-ResourceAllocation/internal/infra/storage/resource"
	"github.com/m04kA/SMC-ResourceAllocation/internal/service/resources/models"
)

// Service сервис состояния экземпляров ресурсов
type Service struct {
	resourceRepo   ResourceRepository
	allocationRepo AllocationRepository
	holds          HoldReader
	validator      ConflictChecker
	timeProvider   TimeProvider
	location       *time.Location
	logger         Logger
}

// NewService создает новый экземпляр сервиса ресурсов
func NewService(
	resourceRepo ResourceRepository,
	allocationRepo AllocationRepository,
	holds HoldReader,
	validator ConflictChecker,
	timeProvider TimeProvider,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		resourceRepo:   resourceRepo,
		allocationRepo: allocationRepo,
		holds:          holds,
		validator:      validator,
		timeProvider:   timeProvider,
		location:       location,
		logger:         logger,
	}
}

// GetStatus возвращает экземпляр и его состояние на текущий момент.
// Флаги вычисляются из аллокаций при каждом чтении.
func (s *Service) GetStatus(ctx context.Context, id int64) (*models.ResourceStatus, error) {
	s.logger.Info("GetResourceStatus: resource id=%d", id)

	instance, err := s.getResource(ctx, "GetResourceStatus", id)
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()

	allocations, err := s.liveAllocations(ctx, id, now)
	if err != nil {
		s.logger.Error("GetResourceStatus: failed to list allocations for resource id=%d: %v", id, err)
		return nil, err
	}

	hold, err := s.holds.ActiveHold(ctx, id)
	if err != nil {
		return nil, err
	}

	status := &models.ResourceStatus{
		Resource:              instance,
		CurrentlyOutOfService: domain.CurrentlyOutOfService(allocations, now),
		HasFutureReservation:  domain.HasFutureReservation(allocations, now),
		Held:                  hold != nil,
		Maintenance:           make([]*domain.Allocation, 0),
	}
	if hold != nil {
		status.HoldExpiresAt = &hold.ExpiresAt
	}
	for _, a := range allocations {
		if a.Kind == domain.KindMaintenance {
			status.Maintenance = append(status.Maintenance, a)
		}
	}

	return status, nil
}

// CheckConflicts проверяет окно на экземпляре без записи (для административных инструментов)
func (s *Service) CheckConflicts(ctx context.Context, id int64, window domain.TimeWindow) (*domain.ConflictReport, error) {
	s.logger.Info("CheckConflicts: resource id=%d, window=%s", id, window)

	instance, err := s.getResource(ctx, "CheckConflicts", id)
	if err != nil {
		return nil, err
	}

	spec, err := domain.LookupResourceType(instance.Type)
	if err != nil {
		return nil, err
	}

	window = window.In(s.location)
	if err := spec.ValidateWindow(window, s.location); err != nil {
		s.logger.Warn("CheckConflicts: invalid window for resource id=%d: %v", id, err)
		return nil, err
	}

	return s.validator.Check(ctx, id, window)
}

// RefreshFlags пересчитывает производные флаги экземпляра из аллокаций и сохраняет их.
// Вызывается после каждой записи и фоновой очисткой; флаг из запроса никогда не используется.
func (s *Service) RefreshFlags(ctx context.Context, id int64) (*models.Flags, error) {
	now := s.timeProvider.Now()

	allocations, err := s.liveAllocations(ctx, id, now)
	if err != nil {
		s.logger.Error("RefreshFlags: failed to list allocations for resource id=%d: %v", id, err)
		return nil, err
	}

	flags := &models.Flags{
		OutOfService:         domain.CurrentlyOutOfService(allocations, now),
		HasFutureReservation: domain.HasFutureReservation(allocations, now),
	}

	if err := s.resourceRepo.UpdateFlags(ctx, id, flags.OutOfService, flags.HasFutureReservation); err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, fmt.Errorf("%w: resource %d", domain.ErrNotFound, id)
		}
		s.logger.Error("RefreshFlags: failed to update flags for resource id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: RefreshFlags - update flags: %w", domain.ErrUnavailable, err)
	}

	return flags, nil
}

func (s *Service) getResource(ctx context.Context, op string, id int64) (*domain.ResourceInstance, error) {
	instance, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			s.logger.Warn("%s: resource id=%d not found", op, id)
			return nil, fmt.Errorf("%w: resource %d", domain.ErrNotFound, id)
		}
		s.logger.Error("%s: failed to get resource id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - get resource: %w", domain.ErrUnavailable, op, err)
	}
	return instance, nil
}

// liveAllocations резервы и периоды обслуживания, не закончившиеся к now.
// Период, заканчивающийся ровно в now, ещё считается действующим (замкнутый диапазон).
func (s *Service) liveAllocations(ctx context.Context, id int64, now time.Time) ([]*domain.Allocation, error) {
	cutoff := now.Add(-time.Second)

	allocations, err := s.allocationRepo.ListByResource(ctx, domain.AllocationFilter{
		ResourceID: id,
		Kinds:      []domain.AllocationKind{domain.KindReservation, domain.KindMaintenance},
		EndAfter:   &cutoff,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list allocations: %w", domain.ErrUnavailable, err)
	}

	return allocations, nil
}
