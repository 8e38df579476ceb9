package confirm_hold

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers"
)

const (
	msgInvalidJSON   = "некорректный JSON"
	msgInvalidFields = "некорректные поля запроса"
)

type Handler struct {
	useCase ConfirmHoldUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/holds/{holdSetId}/payment-confirmed
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	holdSetID := mux.Vars(r)["holdSetId"]

	var req ConfirmRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /holds/{id}/payment-confirmed - Invalid JSON: %v", err)
		handlers.RespondBadRequest(w, msgInvalidJSON)
		return
	}

	if err := handlers.Validate(req); err != nil {
		h.logger.Warn("POST /holds/{id}/payment-confirmed - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFields+": "+err.Error())
		return
	}

	resp, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(holdSetID))
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("POST /holds/{id}/payment-confirmed - Failed to confirm hold set %s: %v", holdSetID, err)
		} else {
			h.logger.Warn("POST /holds/{id}/payment-confirmed - Rejected for hold set %s: %v", holdSetID, err)
		}
		return
	}

	h.logger.Info("POST /holds/{id}/payment-confirmed - Hold set %s confirmed, %d bookings", holdSetID, len(resp.Bookings))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
