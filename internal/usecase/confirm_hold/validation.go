package confirm_hold

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if _, err := uuid.Parse(req.HoldSetID); err != nil {
		return fmt.Errorf("%w: holdSetId must be a UUID", domain.ErrInvalidInput)
	}

	if !req.PaymentStatus.IsValid() {
		return fmt.Errorf("%w: unknown payment status %q", domain.ErrInvalidInput, req.PaymentStatus)
	}

	if req.PaymentReference != nil && len(*req.PaymentReference) > 255 {
		return fmt.Errorf("%w: payment reference is too long", domain.ErrInvalidInput)
	}

	return nil
}
