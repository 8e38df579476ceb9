package unreserve_resources

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
	useCase  UnreserveResourcesUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase UnreserveResourcesUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/admin/reservations/release
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /admin/reservations/release - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UnreserveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/reservations/release - Invalid JSON: %v", err)
		handlers.RespondBadRequest(w, msgInvalidJSON)
		return
	}

	if err := handlers.Validate(req); err != nil {
		h.logger.Warn("POST /admin/reservations/release - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFields+": "+err.Error())
		return
	}

	ucReq, err := req.ToUseCaseRequest(actorID, h.location)
	if err != nil {
		h.logger.Warn("POST /admin/reservations/release - Invalid window: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindow+": "+err.Error())
		return
	}

	resp, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("POST /admin/reservations/release - Failed to unreserve %v: %v", req.ResourceIDs, err)
		} else {
			h.logger.Warn("POST /admin/reservations/release - Rejected for %v: %v", req.ResourceIDs, err)
		}
		return
	}

	h.logger.Info("POST /admin/reservations/release - Actor %d removed %d reservations", actorID, resp.Removed)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
