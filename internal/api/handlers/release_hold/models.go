package release_hold

import "github.com/m04kA/SMC-ResourceAllocation/internal/usecase/release_hold"

// ReleaseResponse итог снятия удержаний
type ReleaseResponse struct {
	HoldSetID           string `json:"holdSetId"`
	ReleasedHolds       int64  `json:"releasedHolds"`
	RemovedPlaceholders int64  `json:"removedPlaceholders"`
}

func FromUseCaseResponse(resp *release_hold.Response) *ReleaseResponse {
	return &ReleaseResponse{
		HoldSetID:           resp.HoldSetID,
		ReleasedHolds:       resp.ReleasedHolds,
		RemovedPlaceholders: resp.RemovedPlaceholders,
	}
}
