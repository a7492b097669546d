package payment_webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	confirmPayment "github.com/m04kA/SMC-ReservationService/internal/usecase/confirm_payment"
)

const (
	maxPayloadBytes = 64 << 10

	msgUnreadableBody   = "не удалось прочитать тело запроса"
	msgUnknownProvider  = "неизвестный платёжный провайдер"
	msgInvalidSignature = "некорректная подпись"
	msgInvalidPayload   = "некорректное событие"
)

// WebhookResponse HTTP response model
type WebhookResponse struct {
	Received bool   `json:"received"`
	Outcome  string `json:"outcome"`
}

type Handler struct {
	useCase ConfirmPaymentUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/webhooks/{provider}
// Тело читается без декодирования: подпись считается по сырым байтам
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	provider := mux.Vars(r)["provider"]

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		h.logger.Warn("POST /webhooks/%s - Failed to read body: %v", provider, err)
		handlers.RespondBadRequest(w, msgUnreadableBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmPayment.Request{
		Provider: provider,
		Payload:  payload,
		Header:   r.Header,
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmPayment.ErrUnknownProvider):
			h.logger.Warn("POST /webhooks/%s - Unknown provider", provider)
			handlers.RespondNotFound(w, msgUnknownProvider)

		case errors.Is(err, confirmPayment.ErrInvalidSignature):
			h.logger.Warn("POST /webhooks/%s - Invalid signature", provider)
			handlers.RespondBadRequest(w, msgInvalidSignature)

		case errors.Is(err, confirmPayment.ErrInvalidPayload):
			h.logger.Warn("POST /webhooks/%s - Invalid payload: %v", provider, err)
			handlers.RespondBadRequest(w, msgInvalidPayload)

		default:
			h.logger.Error("POST /webhooks/%s - Failed to process webhook: error=%v", provider, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /webhooks/%s - Webhook processed: outcome=%s, payment_id=%s", provider, result.Outcome, result.PaymentID)
	handlers.RespondJSON(w, http.StatusOK, WebhookResponse{Received: true, Outcome: string(result.Outcome)})
}
