package place_hold

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// validateRequest проверяет запрос до обращения к хранилищу
func validateRequest(req *Request, now time.Time, loc *time.Location) error {
	if len(req.ResourceIDs) == 0 {
		return fmt.Errorf("%w: resourceIds must not be empty", domain.ErrInvalidInput)
	}
	if len(req.ResourceIDs) > domain.MaxBatchResources {
		return fmt.Errorf("%w: at most %d resources per hold", domain.ErrInvalidInput, domain.MaxBatchResources)
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

	if req.Tier != domain.TierMember && req.Tier != domain.TierGuest {
		return fmt.Errorf("%w: %q", domain.ErrUnknownRateTier, req.Tier)
	}

	if err := req.Window.Validate(); err != nil {
		return err
	}

	// оплачивать можно только окно, начинающееся не раньше сегодняшнего дня
	if req.Window.Start.Before(domain.StartOfDay(now, loc)) {
		return fmt.Errorf("%w: start %s is in the past", domain.ErrInvalidWindow, req.Window.Start.Format(time.RFC3339))
	}

	return nil
}
