package confirm_hold

import (
	"github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/internal/usecase/confirm_hold"
)

// ConfirmRequest тело уведомления об успешной оплате
type ConfirmRequest struct {
	PaymentStatus    string  `json:"paymentStatus" validate:"required,oneof=paid partially_paid"`
	PaymentReference *string `json:"paymentReference,omitempty" validate:"omitempty,max=255"`
}

func (r *ConfirmRequest) ToUseCaseRequest(holdSetID string) *confirm_hold.Request {
	return &confirm_hold.Request{
		HoldSetID:        holdSetID,
		PaymentStatus:    domain.PaymentStatus(r.PaymentStatus),
		PaymentReference: r.PaymentReference,
	}
}

// ConfirmResponse созданные бронирования
type ConfirmResponse struct {
	HoldSetID string                `json:"holdSetId"`
	Bookings  []handlers.Allocation `json:"bookings"`
}

func FromUseCaseResponse(resp *confirm_hold.Response) *ConfirmResponse {
	return &ConfirmResponse{
		HoldSetID: resp.HoldSetID,
		Bookings:  handlers.FromAllocations(resp.Bookings),
	}
}
