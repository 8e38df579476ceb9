package set_maintenance

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceAllocation/internal/usecase/set_maintenance"
)

// PeriodRequest период обслуживания
type PeriodRequest struct {
	Window handlers.WindowRequest `json:"window" validate:"required"`
	Reason string                 `json:"reason" validate:"required,max=500"`
}

// SetMaintenanceRequest полный набор периодов. Пустой список снимает обслуживание.
type SetMaintenanceRequest struct {
	Periods []PeriodRequest `json:"periods" validate:"max=100,dive"`
}

func (r *SetMaintenanceRequest) ToUseCaseRequest(resourceID, actorID int64, loc *time.Location) (*set_maintenance.Request, error) {
	periods := make([]set_maintenance.Period, 0, len(r.Periods))
	for i, p := range r.Periods {
		window, err := p.Window.ToDomain(loc)
		if err != nil {
			return nil, fmt.Errorf("periods[%d]: %w", i, err)
		}
		periods = append(periods, set_maintenance.Period{Window: window, Reason: p.Reason})
	}

	return &set_maintenance.Request{
		ResourceID: resourceID,
		Periods:    periods,
		ActorID:    actorID,
	}, nil
}

// SetMaintenanceResponse записанный набор и вычисленный флаг
type SetMaintenanceResponse struct {
	ResourceID            int64                 `json:"resourceId"`
	Periods               []handlers.Allocation `json:"periods"`
	Replaced              int64                 `json:"replaced"`
	CurrentlyOutOfService bool                  `json:"currentlyOutOfService"`
}

func FromUseCaseResponse(resp *set_maintenance.Response) *SetMaintenanceResponse {
	return &SetMaintenanceResponse{
		ResourceID:            resp.ResourceID,
		Periods:               handlers.FromAllocations(resp.Periods),
		Replaced:              resp.Replaced,
		CurrentlyOutOfService: resp.CurrentlyOutOfService,
	}
}
