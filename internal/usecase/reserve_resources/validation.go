package reserve_resources

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// validateRequest проверяет запрос до любого обращения к БД:
// start < end и start не раньше сегодняшнего дня
func validateRequest(req *Request, now time.Time, loc *time.Location) error {
	if req.ActorID <= 0 {
		return fmt.Errorf("%w: actorId must be positive", domain.ErrInvalidInput)
	}

	if err := validateResourceIDs(req.ResourceIDs); err != nil {
		return err
	}

	if err := req.Window.Validate(); err != nil {
		return err
	}

	if req.Window.Start.Before(domain.StartOfDay(now, loc)) {
		return fmt.Errorf("%w: start %s is before today", domain.ErrInvalidWindow,
			req.Window.Start.In(loc).Format(domain.DateFormat))
	}

	return nil
}

func validateResourceIDs(ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: resourceIds must not be empty", domain.ErrInvalidInput)
	}
	if len(ids) > domain.MaxBatchResources {
		return fmt.Errorf("%w: at most %d resources per request", domain.ErrInvalidInput, domain.MaxBatchResources)
	}

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("%w: resourceId must be positive", domain.ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate resourceId %d", domain.ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}
