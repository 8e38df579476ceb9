package reserve_resources

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceAllocation/internal/api/middleware"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidJSON   = "некорректный JSON"
	msgInvalidFields = "некорректные поля запроса"
	msgInvalidWindow = "некорректное окно"
)

type Handler struct {
	useCase  ReserveResourcesUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase ReserveResourcesUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/admin/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /admin/reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ReserveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/reservations - Invalid JSON: %v", err)
		handlers.RespondBadRequest(w, msgInvalidJSON)
		return
	}

	if err := handlers.Validate(req); err != nil {
		h.logger.Warn("POST /admin/reservations - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFields+": "+err.Error())
		return
	}

	ucReq, err := req.ToUseCaseRequest(actorID, h.location)
	if err != nil {
		h.logger.Warn("POST /admin/reservations - Invalid window: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindow+": "+err.Error())
		return
	}

	resp, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("POST /admin/reservations - Failed to reserve %v: %v", req.ResourceIDs, err)
		} else {
			h.logger.Warn("POST /admin/reservations - Rejected for %v: %v", req.ResourceIDs, err)
		}
		return
	}

	h.logger.Info("POST /admin/reservations - Actor %d reserved %d resources", actorID, len(resp.Reservations))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(resp))
}
