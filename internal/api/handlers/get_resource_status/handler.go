package get_resource_status

import (
	"net/http"

	"github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers"
)

const msgInvalidResourceID = "некорректный ID ресурса"

type Handler struct {
	service ResourceService
	logger  Logger
}

func NewHandler(service ResourceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathID(r, "resourceId")
	if err != nil {
		h.logger.Warn("GET /resources/{id}/status - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	status, err := h.service.GetStatus(r.Context(), resourceID)
	if err != nil {
		code := handlers.RespondDomainError(w, err)
		if code >= http.StatusInternalServerError {
			h.logger.Error("GET /resources/{id}/status - Failed to get status of resource id=%d: %v", resourceID, err)
		} else {
			h.logger.Warn("GET /resources/{id}/status - Rejected for resource id=%d: %v", resourceID, err)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromStatus(status))
}
