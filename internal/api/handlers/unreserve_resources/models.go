package unreserve_resources

import (
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceAllocation/internal/usecase/unreserve_resources"
)

// UnreserveRequest тело запроса на снятие резервов с точно таким окном
type UnreserveRequest struct {
	ResourceIDs []int64                `json:"resourceIds" validate:"required,min=1,dive,gt=0"`
	Window      handlers.WindowRequest `json:"window" validate:"required"`
}

func (r *UnreserveRequest) ToUseCaseRequest(actorID int64, loc *time.Location) (*unreserve_resources.Request, error) {
	window, err := r.Window.ToDomain(loc)
	if err != nil {
		return nil, err
	}
	return &unreserve_resources.Request{
		ResourceIDs: r.ResourceIDs,
		Window:      window,
		ActorID:     actorID,
	}, nil
}

// ResourceResult итог по экземпляру
type ResourceResult struct {
	ResourceID           int64 `json:"resourceId"`
	Removed              int64 `json:"removed"`
	HasFutureReservation bool  `json:"hasFutureReservation"`
}

// UnreserveResponse итог снятия
type UnreserveResponse struct {
	Removed   int64            `json:"removed"`
	Resources []ResourceResult `json:"resources"`
}

func FromUseCaseResponse(resp *unreserve_resources.Response) *UnreserveResponse {
	out := &UnreserveResponse{
		Removed:   resp.Removed,
		Resources: make([]ResourceResult, 0, len(resp.Resources)),
	}
	for _, r := range resp.Resources {
		out.Resources = append(out.Resources, ResourceResult{
			ResourceID:           r.ResourceID,
			Removed:              r.Removed,
			HasFutureReservation: r.HasFutureReservation,
		})
	}
	return out
}
