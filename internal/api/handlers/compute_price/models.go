package compute_price

import (
	"github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/internal/service/pricing"
)

// QuoteResponse рассчитанная стоимость (суммы в минимальных единицах валюты)
type QuoteResponse struct {
	ResourceType string                  `json:"resourceType"`
	Tier         string                  `json:"tier"`
	Window       handlers.WindowResponse `json:"window"`
	RateCardID   int64                   `json:"rateCardId"`
	Units        int                     `json:"units"`
	UnitRate     int64                   `json:"unitRate"`
	Total        int64                   `json:"total"`
}

func FromQuote(resourceType domain.ResourceType, window domain.TimeWindow, q *pricing.Quote) *QuoteResponse {
	return &QuoteResponse{
		ResourceType: string(resourceType),
		Tier:         string(q.Tier),
		Window:       handlers.FromWindow(window),
		RateCardID:   q.RateCardID,
		Units:        q.Units,
		UnitRate:     int64(q.UnitRate),
		Total:        int64(q.Total),
	}
}
