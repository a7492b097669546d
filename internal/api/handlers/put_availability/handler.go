package put_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability/models"
	"github.com/m04kA/SMC-ReservationService/pkg/validation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "можно менять только свою доступность"
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

// Handle PUT /api/v1/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /availability - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Декодируем body
	var req models.UpsertRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.CallerID = callerID

	result, err := h.service.Upsert(r.Context(), &req)
	if err != nil {
		if inputErr, ok := validation.AsInputError(err); ok {
			h.logger.Warn("PUT /availability - Validation failed: %v", err)
			handlers.RespondValidationError(w, inputErr.Fields())
			return
		}

		switch {
		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("PUT /availability - Access denied: provider_id=%s, user_id=%s", req.ProviderID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /availability - Failed to upsert availability: provider_id=%s, date=%s, error=%v",
				req.ProviderID, req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /availability - Availability saved successfully: provider_id=%s, date=%s, slots=%d",
		result.ProviderID, result.Date, len(result.TimeSlots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
