package pricing

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// Quote результат расчёта стоимости
type Quote struct {
	RateCardID int64
	Tier       domain.PricingTier
	Units      int
	UnitRate   domain.Money
	Total      domain.Money
}

// Calculate считает стоимость окна по тарифной карте.
// Чистая функция: не обращается к хранилищу и не меняет аргументы.
//
//   - night: количество ночей * ставка тарифа; 0 ночей - ErrNonPositiveDuration
//   - slot: фиксированная ставка за один день со слотом,
//     либо ставка за каждый затронутый день при MultiDaySlotPricing
//   - event: фиксированная ставка за сессию
func Calculate(
	spec domain.ResourceTypeSpec,
	card *domain.RateCard,
	tier domain.PricingTier,
	window domain.TimeWindow,
	loc *time.Location,
) (Quote, error) {
	if !window.End.After(window.Start) {
		return Quote{}, fmt.Errorf("%w: end %s is not after start %s", domain.ErrNonPositiveDuration,
			window.End.Format(time.RFC3339), window.Start.Format(time.RFC3339))
	}

	rate, err := card.UnitRate(tier)
	if err != nil {
		return Quote{}, err
	}

	units, err := billableUnits(spec, window, loc)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		RateCardID: card.ID,
		Tier:       tier,
		Units:      units,
		UnitRate:   rate,
		Total:      rate * domain.Money(units),
	}, nil
}

func billableUnits(spec domain.ResourceTypeSpec, window domain.TimeWindow, loc *time.Location) (int, error) {
	if spec.Granularity == domain.GranularitySlot {
		// последний затронутый день: end не входит в окно
		days := domain.DaysBetween(window.Start, window.End.Add(-time.Nanosecond), loc) + 1
		if spec.MultiDaySlotPricing {
			return days, nil
		}
		if days > 1 {
			return 0, fmt.Errorf("%w: %s slot window covers %d days", domain.ErrInvalidWindow, spec.Type, days)
		}
	}

	units, err := domain.DurationUnits(window, spec.Granularity, loc)
	if err != nil {
		return 0, err
	}
	if units <= 0 {
		return 0, fmt.Errorf("%w: %d nights", domain.ErrNonPositiveDuration, units)
	}

	return units, nil
}
