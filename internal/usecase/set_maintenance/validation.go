package set_maintenance

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// validateRequest проверяет запрос до обращения к БД
func validateRequest(req *Request, now time.Time) error {
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceId must be positive", domain.ErrInvalidInput)
	}
	if req.ActorID <= 0 {
		return fmt.Errorf("%w: actorId must be positive", domain.ErrInvalidInput)
	}
	if len(req.Periods) > domain.MaxMaintenancePeriods {
		return fmt.Errorf("%w: at most %d maintenance periods", domain.ErrInvalidInput, domain.MaxMaintenancePeriods)
	}

	for i, p := range req.Periods {
		if strings.TrimSpace(p.Reason) == "" {
			return fmt.Errorf("%w: period %d: reason is required", domain.ErrInvalidInput, i)
		}
		if len(p.Reason) > domain.MaxReasonLength {
			return fmt.Errorf("%w: period %d: reason exceeds %d characters", domain.ErrInvalidInput, i, domain.MaxReasonLength)
		}

		if err := p.Window.Validate(); err != nil {
			return fmt.Errorf("period %d: %w", i, err)
		}

		// период, который уже закончился, ничего не блокирует
		if !p.Window.End.After(now) {
			return fmt.Errorf("%w: period %d ends in the past", domain.ErrInvalidWindow, i)
		}
	}

	// периоды одного набора не пересекаются между собой
	for i := 0; i < len(req.Periods); i++ {
		for j := i + 1; j < len(req.Periods); j++ {
			if domain.SlotOverlaps(req.Periods[i].Window, req.Periods[j].Window) {
				return fmt.Errorf("%w: periods %d and %d overlap", domain.ErrInvalidWindow, i, j)
			}
		}
	}

	return nil
}

// validateForType проверяет слот периода относительно гранулярности типа
func validateForType(spec domain.ResourceTypeSpec, periods []Period) error {
	for i, p := range periods {
		if p.Window.Slot != nil && spec.Granularity != domain.GranularitySlot {
			return fmt.Errorf("%w: period %d: slot is not allowed for %s", domain.ErrInvalidWindow, i, spec.Type)
		}
	}
	return nil
}
