package place_hold

import (
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/internal/usecase/place_hold"
)

// PlaceHoldRequest тело запроса на удержание
type PlaceHoldRequest struct {
	ResourceIDs []int64                `json:"resourceIds" validate:"required,min=1,dive,gt=0"`
	Window      handlers.WindowRequest `json:"window" validate:"required"`
	Tier        string                 `json:"tier" validate:"required"`
}

// ToUseCaseRequest конвертирует в запрос use case
func (r *PlaceHoldRequest) ToUseCaseRequest(loc *time.Location) (*place_hold.Request, error) {
	window, err := r.Window.ToDomain(loc)
	if err != nil {
		return nil, err
	}
	return &place_hold.Request{
		ResourceIDs: r.ResourceIDs,
		Window:      window,
		Tier:        domain.PricingTier(r.Tier),
	}, nil
}

// ResourcePrice цена одного удержанного экземпляра
type ResourcePrice struct {
	ResourceID int64 `json:"resourceId"`
	RateCardID int64 `json:"rateCardId"`
	Units      int   `json:"units"`
	Amount     int64 `json:"amount"`
}

// HoldSetResponse созданный набор удержаний
type HoldSetResponse struct {
	HoldSetID   string                  `json:"holdSetId"`
	ResourceIDs []int64                 `json:"resourceIds"`
	Window      handlers.WindowResponse `json:"window"`
	Tier        string                  `json:"tier"`
	ExpiresAt   string                  `json:"expiresAt"`
	Prices      []ResourcePrice         `json:"prices"`
	Total       int64                   `json:"total"`
}

// FromUseCaseResponse конвертирует набор удержаний
func FromUseCaseResponse(set *place_hold.Response) *HoldSetResponse {
	resp := &HoldSetResponse{
		HoldSetID:   set.ID,
		ResourceIDs: set.ResourceIDs,
		Window:      handlers.FromWindow(set.Window),
		Tier:        string(set.Tier),
		ExpiresAt:   set.ExpiresAt.Format(time.RFC3339),
		Prices:      make([]ResourcePrice, 0, len(set.Prices)),
		Total:       int64(set.Total),
	}
	for _, p := range set.Prices {
		resp.Prices = append(resp.Prices, ResourcePrice{
			ResourceID: p.ResourceID,
			RateCardID: p.RateCardID,
			Units:      p.Units,
			Amount:     int64(p.Amount),
		})
	}
	return resp
}
