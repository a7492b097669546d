package get_availability

import (
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability/models"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/validation"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: providerId, date (оба опциональны; без них возвращаются все записи)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &models.ListRequest{}
	if providerID := query.Get("providerId"); providerID != "" {
		req.ProviderID = ptr.Ptr(providerID)
	}
	if date := query.Get("date"); date != "" {
		req.Date = ptr.Ptr(date)
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		if inputErr, ok := validation.AsInputError(err); ok {
			h.logger.Warn("GET /availability - Invalid query: %v", err)
			handlers.RespondValidationError(w, inputErr.Fields())
			return
		}

		h.logger.Error("GET /availability - Failed to list availability: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /availability - Availability retrieved successfully: count=%d", len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}
