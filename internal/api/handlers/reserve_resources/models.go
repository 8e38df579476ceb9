package reserve_resources

import (
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceAllocation/internal/usecase/reserve_resources"
)

// ReserveRequest тело запроса на резерв
type ReserveRequest struct {
	ResourceIDs []int64                `json:"resourceIds" validate:"required,min=1,dive,gt=0"`
	Window      handlers.WindowRequest `json:"window" validate:"required"`
}

func (r *ReserveRequest) ToUseCaseRequest(actorID int64, loc *time.Location) (*reserve_resources.Request, error) {
	window, err := r.Window.ToDomain(loc)
	if err != nil {
		return nil, err
	}
	return &reserve_resources.Request{
		ResourceIDs: r.ResourceIDs,
		Window:      window,
		ActorID:     actorID,
	}, nil
}

// ReserveResponse созданные резервы
type ReserveResponse struct {
	ResourceIDs  []int64               `json:"resourceIds"`
	Reservations []handlers.Allocation `json:"reservations"`
	Superseded   int64                 `json:"superseded"`
}

func FromUseCaseResponse(resp *reserve_resources.Response) *ReserveResponse {
	return &ReserveResponse{
		ResourceIDs:  resp.ResourceIDs,
		Reservations: handlers.FromAllocations(resp.Reservations),
		Superseded:   resp.Superseded,
	}
}
