package find_available

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/internal/usecase/find_available"
)

const (
	msgMissingType   = "не указан тип ресурса"
	msgInvalidWindow = "некорректное окно"
)

type Handler struct {
	useCase  FindAvailableUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase FindAvailableUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/resources/available?type=room&start=2025-01-10&end=2025-01-12[&slot=MORNING]
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resourceType := r.URL.Query().Get("type")
	if resourceType == "" {
		h.logger.Warn("GET /resources/available - Missing type")
		handlers.RespondBadRequest(w, msgMissingType)
		return
	}

	window, err := handlers.WindowFromQuery(r, h.location)
	if err != nil {
		h.logger.Warn("GET /resources/available - Invalid window: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindow+": "+err.Error())
		return
	}

	resp, err := h.useCase.Execute(r.Context(), &find_available.Request{
		ResourceType: domain.ResourceType(resourceType),
		Window:       window,
	})
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("GET /resources/available - Failed to find available resources: %v", err)
		} else {
			h.logger.Warn("GET /resources/available - Rejected: %v", err)
		}
		return
	}

	h.logger.Info("GET /resources/available - Found %d free %s resources for %s", len(resp.Resources), resourceType, window)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
