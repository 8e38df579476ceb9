package set_maintenance

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceAllocation/internal/api/middleware"
)

const (
	msgMissingUserID     = "отсутствует ID пользователя"
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidJSON       = "некорректный JSON"
	msgInvalidFields     = "некорректные поля запроса"
	msgInvalidWindow     = "некорректное окно"
)

type Handler struct {
	useCase  SetMaintenanceUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase SetMaintenanceUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle PUT /api/v1/admin/resources/{resourceId}/maintenance
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /admin/resources/{id}/maintenance - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	resourceID, err := handlers.PathID(r, "resourceId")
	if err != nil {
		h.logger.Warn("PUT /admin/resources/{id}/maintenance - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	var req SetMaintenanceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/resources/{id}/maintenance - Invalid JSON: %v", err)
		handlers.RespondBadRequest(w, msgInvalidJSON)
		return
	}

	if err := handlers.Validate(req); err != nil {
		h.logger.Warn("PUT /admin/resources/{id}/maintenance - Validation failed: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFields+": "+err.Error())
		return
	}

	ucReq, err := req.ToUseCaseRequest(resourceID, actorID, h.location)
	if err != nil {
		h.logger.Warn("PUT /admin/resources/{id}/maintenance - Invalid window: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindow+": "+err.Error())
		return
	}

	resp, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("PUT /admin/resources/{id}/maintenance - Failed for resource id=%d: %v", resourceID, err)
		} else {
			h.logger.Warn("PUT /admin/resources/{id}/maintenance - Rejected for resource id=%d: %v", resourceID, err)
		}
		return
	}

	h.logger.Info("PUT /admin/resources/{id}/maintenance - Actor %d set %d periods on resource id=%d",
		actorID, len(resp.Periods), resourceID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
