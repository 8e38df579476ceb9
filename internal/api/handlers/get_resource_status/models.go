package get_resource_status

import (
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceAllocation/internal/service/resources/models"
)

// StatusResponse состояние экземпляра на момент запроса
type StatusResponse struct {
	Resource              handlers.Resource     `json:"resource"`
	CurrentlyOutOfService bool                  `json:"currentlyOutOfService"`
	HasFutureReservation  bool                  `json:"hasFutureReservation"`
	Held                  bool                  `json:"held"`
	HoldExpiresAt         *string               `json:"holdExpiresAt,omitempty"`
	Maintenance           []handlers.Allocation `json:"maintenance"`
}

func FromStatus(s *models.ResourceStatus) *StatusResponse {
	resp := &StatusResponse{
		Resource:              handlers.FromResource(s.Resource),
		CurrentlyOutOfService: s.CurrentlyOutOfService,
		HasFutureReservation:  s.HasFutureReservation,
		Held:                  s.Held,
		Maintenance:           handlers.FromAllocations(s.Maintenance),
	}
	if s.HoldExpiresAt != nil {
		v := s.HoldExpiresAt.Format(time.RFC3339)
		resp.HoldExpiresAt = &v
	}
	return resp
}
