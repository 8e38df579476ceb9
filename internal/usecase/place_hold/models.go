package place_hold

import (
	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// Request запрос на удержание экземпляров на время оплаты
type Request struct {
	ResourceIDs []int64
	Window      domain.TimeWindow
	Tier        domain.PricingTier
}

// Response созданный набор удержаний с ценами по экземплярам
type Response = domain.HoldSet
