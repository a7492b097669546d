package delete_availability

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
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "можно удалять только свою доступность"
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

// Handle DELETE /api/v1/availability?providerId=&date=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /availability - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	req := &models.DeleteRequest{
		CallerID:   callerID,
		ProviderID: query.Get("providerId"),
		Date:       query.Get("date"),
	}

	result, err := h.service.Delete(r.Context(), req)
	if err != nil {
		if inputErr, ok := validation.AsInputError(err); ok {
			h.logger.Warn("DELETE /availability - Validation failed: %v", err)
			handlers.RespondValidationError(w, inputErr.Fields())
			return
		}

		switch {
		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("DELETE /availability - Access denied: provider_id=%s, user_id=%s", req.ProviderID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /availability - Failed to delete availability: provider_id=%s, date=%s, error=%v",
				req.ProviderID, req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /availability - Availability deleted: provider_id=%s, date=%s, deleted=%d",
		req.ProviderID, req.Date, result.Deleted)
	handlers.RespondJSON(w, http.StatusOK, result)
}
