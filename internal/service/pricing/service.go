package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	rateCardRepo "github.com/m04kA/SMC-ResourceAllocation/internal/infra/storage/ratecard"
)

// Service сервис расчёта стоимости
type Service struct {
	rateCardRepo RateCardRepository
	location     *time.Location
	logger       Logger
}

// NewService создает новый экземпляр сервиса расчёта стоимости
func NewService(rateCardRepo RateCardRepository, location *time.Location, logger Logger) *Service {
	return &Service{
		rateCardRepo: rateCardRepo,
		location:     location,
		logger:       logger,
	}
}

// ComputePrice считает стоимость окна для типа ресурса по тарифной карте по умолчанию
func (s *Service) ComputePrice(ctx context.Context, resourceType domain.ResourceType, tier domain.PricingTier, window domain.TimeWindow) (*Quote, error) {
	s.logger.Info("ComputePrice: type=%s, tier=%s, window=%s", resourceType, tier, window)

	spec, err := domain.LookupResourceType(resourceType)
	if err != nil {
		s.logger.Warn("ComputePrice: unknown resource type %q", resourceType)
		return nil, err
	}

	// пустое окно проверяет Calculate (ErrNonPositiveDuration)
	if window.End.After(window.Start) {
		if err := spec.ValidateWindow(window, s.location); err != nil {
			s.logger.Warn("ComputePrice: invalid window for type=%s: %v", resourceType, err)
			return nil, err
		}
	}

	card, err := s.rateCardRepo.GetDefaultByType(ctx, resourceType)
	if err != nil {
		if errors.Is(err, rateCardRepo.ErrRateCardNotFound) {
			s.logger.Warn("ComputePrice: no default rate card for type=%s", resourceType)
			return nil, fmt.Errorf("%w: default rate card for %s", domain.ErrNotFound, resourceType)
		}
		s.logger.Error("ComputePrice: failed to get default rate card for type=%s: %v", resourceType, err)
		return nil, fmt.Errorf("%w: ComputePrice - get rate card: %w", domain.ErrUnavailable, err)
	}

	quote, err := Calculate(spec, card, tier, window.In(s.location), s.location)
	if err != nil {
		s.logger.Warn("ComputePrice: calculation rejected: %v", err)
		return nil, err
	}

	return &quote, nil
}

// PriceInstance считает стоимость окна для конкретного экземпляра.
// Используется собственная карта экземпляра, при её отсутствии - карта типа по умолчанию.
func (s *Service) PriceInstance(ctx context.Context, instance *domain.ResourceInstance, tier domain.PricingTier, window domain.TimeWindow) (*Quote, error) {
	spec, err := domain.LookupResourceType(instance.Type)
	if err != nil {
		return nil, err
	}

	card, err := s.rateCardRepo.GetForInstance(ctx, instance.Type, instance.RateCardID)
	if err != nil {
		if errors.Is(err, rateCardRepo.ErrRateCardNotFound) {
			s.logger.Warn("PriceInstance: no rate card for resource id=%d", instance.ID)
			return nil, fmt.Errorf("%w: rate card for resource %d", domain.ErrNotFound, instance.ID)
		}
		s.logger.Error("PriceInstance: failed to get rate card for resource id=%d: %v", instance.ID, err)
		return nil, fmt.Errorf("%w: PriceInstance - get rate card: %w", domain.ErrUnavailable, err)
	}

	quote, err := Calculate(spec, card, tier, window.In(s.location), s.location)
	if err != nil {
		return nil, err
	}

	return &quote, nil
}
