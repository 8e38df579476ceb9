package check_conflicts

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidWindow     = "некорректное окно"
)

type Handler struct {
	service  ResourceService
	location *time.Location
	logger   Logger
}

func NewHandler(service ResourceService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/conflicts?start=...&end=...[&slot=...]
// Окно с пересечениями - это 200 со списком, а не ошибка.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceID, err := handlers.PathID(r, "resourceId")
	if err != nil {
		h.logger.Warn("GET /resources/{id}/conflicts - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	window, err := handlers.WindowFromQuery(r, h.location)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/conflicts - Invalid window: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindow+": "+err.Error())
		return
	}

	report, err := h.service.CheckConflicts(r.Context(), resourceID, window)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("GET /resources/{id}/conflicts - Failed to check resource id=%d: %v", resourceID, err)
		} else {
			h.logger.Warn("GET /resources/{id}/conflicts - Rejected for resource id=%d: %v", resourceID, err)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromReport(report))
}
