package place_hold

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers"
)

const (
	msgInvalidJSON   = "некорректный JSON"
	msgInvalidFields = "некорректные поля запроса"
	msgInvalidWindow = "некорректное окно"
)

type Handler struct {
	useCase  PlaceHoldUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase PlaceHoldUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/holds
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req PlaceHoldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /holds - Invalid JSON: %v", err)
		handlers.RespondBadRequest(w, msgInvalidJSON)
		return
	}

	if err := handlers.Validate(req); err != nil {
		h.logger.Warn("POST /holds - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFields+": "+err.Error())
		return
	}

	ucReq, err := req.ToUseCaseRequest(h.location)
	if err != nil {
		h.logger.Warn("POST /holds - Invalid window: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindow+": "+err.Error())
		return
	}

	set, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("POST /holds - Failed to place hold on %v: %v", req.ResourceIDs, err)
		} else {
			h.logger.Warn("POST /holds - Rejected for %v: %v", req.ResourceIDs, err)
		}
		return
	}

	h.logger.Info("POST /holds - Hold set %s placed on %d resources", set.ID, len(set.ResourceIDs))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(set))
}
