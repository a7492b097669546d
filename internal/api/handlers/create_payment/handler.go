package create_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createPayment "github.com/m04kA/SMC-ReservationService/internal/usecase/create_payment"
	"github.com/m04kA/SMC-ReservationService/pkg/validation"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgBookingNotFound     = "бронирование не найдено"
	msgForbidden           = "оплатить бронирование может только его клиент"
	msgBookingNotPayable   = "бронирование нельзя оплатить в текущем статусе"
	msgProviderUnavailable = "платёжный провайдер недоступен"
)

type Handler struct {
	useCase CreatePaymentUseCase
	logger  Logger
}

func NewHandler(useCase CreatePaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /payments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreatePaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(callerID))
	if err != nil {
		if inputErr, ok := validation.AsInputError(err); ok {
			h.logger.Warn("POST /payments - Validation failed: %v", err)
			handlers.RespondValidationError(w, inputErr.Fields())
			return
		}

		// Сообщение провайдера отдаётся клиенту как есть
		var providerErr *domain.ProviderError
		if errors.As(err, &providerErr) {
			h.logger.Warn("POST /payments - Provider error: booking_id=%s, provider=%s, message=%s",
				req.BookingID, providerErr.Provider, providerErr.Message)
			handlers.RespondError(w, http.StatusBadGateway, providerErr.Message)
			return
		}

		switch {
		case errors.Is(err, createPayment.ErrBookingNotFound):
			h.logger.Warn("POST /payments - Booking not found: booking_id=%s", req.BookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, createPayment.ErrAccessDenied):
			h.logger.Warn("POST /payments - Access denied: booking_id=%s, user_id=%s", req.BookingID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, createPayment.ErrBookingNotPayable):
			h.logger.Warn("POST /payments - Booking not payable: booking_id=%s", req.BookingID)
			handlers.RespondConflict(w, msgBookingNotPayable)

		case errors.Is(err, createPayment.ErrProviderUnavailable):
			h.logger.Error("POST /payments - Provider unavailable: booking_id=%s, error=%v", req.BookingID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgProviderUnavailable)

		default:
			h.logger.Error("POST /payments - Failed to create payment: booking_id=%s, error=%v", req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments - Payment session opened: payment_id=%s, booking_id=%s, provider=%s",
		result.PaymentID, req.BookingID, result.Provider)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
