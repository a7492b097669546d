package list_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/bookings"
	"github.com/m04kA/SMC-ReservationService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidQuery  = "параметры userId и role (client или escort) обязательны"
	msgInvalidStatus = "неизвестный статус бронирования"
	msgForbidden     = "можно просматривать только свои бронирования"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings?userId=&role=client|escort&status=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()

	// status опционален
	var status *string
	if value := query.Get("status"); value != "" {
		status = ptr.Ptr(value)
	}

	serviceReq := &models.ListBookingsRequest{
		CallerID: callerID,
		UserID:   query.Get("userId"),
		Role:     query.Get("role"),
		Status:   status,
	}

	result, err := h.service.List(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Invalid query: %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		case errors.Is(err, bookings.ErrUnknownStatus):
			h.logger.Warn("GET /bookings - Unknown status: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /bookings - Access denied: caller=%s, user_id=%s", callerID, serviceReq.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /bookings - Failed to get bookings: user_id=%s, error=%v", serviceReq.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings - Bookings retrieved successfully: user_id=%s, role=%s, count=%d",
		serviceReq.UserID, serviceReq.Role, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
