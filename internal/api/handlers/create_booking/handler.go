package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-ReservationService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-ReservationService/pkg/validation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "нельзя бронировать от имени другого клиента"
	msgClientNotFound     = "клиент не найден"
	msgEscortNotFound     = "эскорт не найден"
	msgTimeRangeTaken     = "выбранное время уже занято"
)

type Handler struct {
	useCase BookingCreator
	logger  Logger
}

func NewHandler(useCase BookingCreator, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(callerID))
	if err != nil {
		if inputErr, ok := validation.AsInputError(err); ok {
			h.logger.Warn("POST /bookings - Validation failed: %v", err)
			handlers.RespondValidationError(w, inputErr.Fields())
			return
		}

		switch {
		case errors.Is(err, createBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings - Access denied: caller=%s, client_id=%s", callerID, req.ClientID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createBooking.ErrClientNotFound):
			h.logger.Warn("POST /bookings - Client not found: client_id=%s", req.ClientID)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, createBooking.ErrEscortNotFound):
			h.logger.Warn("POST /bookings - Escort not found: escort_id=%s", req.EscortID)
			handlers.RespondNotFound(w, msgEscortNotFound)

		case errors.Is(err, createBooking.ErrTimeRangeTaken):
			h.logger.Warn("POST /bookings - Time range taken: escort_id=%s, date=%s, %s-%s",
				req.EscortID, req.Date, req.StartTime, req.EndTime)
			handlers.RespondConflict(w, msgTimeRangeTaken)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: client_id=%s, escort_id=%s, error=%v",
				req.ClientID, req.EscortID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, client_id=%s, escort_id=%s",
		result.ID, result.ClientID, result.EscortID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
