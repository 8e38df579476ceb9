package confirm_hold

import (
	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// Request подтверждение оплаты набора удержаний
type Request struct {
	HoldSetID        string
	PaymentStatus    domain.PaymentStatus
	PaymentReference *string
}

// Response бронирования, созданные из плейсхолдеров набора
type Response struct {
	HoldSetID string
	Bookings  []*domain.Allocation
}
