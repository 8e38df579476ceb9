package release_hold

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers"
)

type Handler struct {
	useCase ReleaseHoldUseCase
	logger  Logger
}

func NewHandler(useCase ReleaseHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/holds/{holdSetId}
// Повторный вызов и неизвестный набор - 200 с нулевыми счётчиками.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.release(w, r, "DELETE /holds/{id}")
}

// HandlePaymentFailed POST /api/v1/holds/{holdSetId}/payment-failed
// Неуспешная оплата снимает удержания так же, как явная отмена.
func (h *Handler) HandlePaymentFailed(w http.ResponseWriter, r *http.Request) {
	h.release(w, r, "POST /holds/{id}/payment-failed")
}

func (h *Handler) release(w http.ResponseWriter, r *http.Request, route string) {
	holdSetID := mux.Vars(r)["holdSetId"]

	resp, err := h.useCase.Execute(r.Context(), holdSetID)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("%s - Failed to release hold set %s: %v", route, holdSetID, err)
		} else {
			h.logger.Warn("%s - Rejected for hold set %s: %v", route, holdSetID, err)
		}
		return
	}

	h.logger.Info("%s - Hold set %s released (%d holds)", route, holdSetID, resp.ReleasedHolds)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
