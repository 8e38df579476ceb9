package compute_price

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/api/handlers"
	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

const (
	msgMissingParams = "обязательны параметры type и tier"
	msgInvalidWindow = "некорректное окно"
)

type Handler struct {
	service  PricingService
	location *time.Location
	logger   Logger
}

func NewHandler(service PricingService, location *time.Location, logger Logger) *Handler {
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/pricing/quote?type=room&tier=member&start=2025-01-10&end=2025-01-12
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resourceType := domain.ResourceType(q.Get("type"))
	tier := domain.PricingTier(q.Get("tier"))

	if resourceType == "" || tier == "" {
		h.logger.Warn("GET /pricing/quote - Missing type or tier")
		handlers.RespondBadRequest(w, msgMissingParams)
		return
	}

	window, err := handlers.WindowFromQuery(r, h.location)
	if err != nil {
		h.logger.Warn("GET /pricing/quote - Invalid window: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindow+": "+err.Error())
		return
	}

	quote, err := h.service.ComputePrice(r.Context(), resourceType, tier, window)
	if err != nil {
		status := handlers.RespondDomainError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("GET /pricing/quote - Failed to compute price: %v", err)
		} else {
			h.logger.Warn("GET /pricing/quote - Rejected: %v", err)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromQuote(resourceType, window, quote))
}
