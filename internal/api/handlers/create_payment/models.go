package create_payment

import (
	createPayment "github.com/m04kA/SMC-ReservationService/internal/usecase/create_payment"
)

// CreatePaymentRequest HTTP request model
type CreatePaymentRequest struct {
	BookingID string            `json:"bookingId"`
	Amount    float64           `json:"amount"`
	Currency  string            `json:"currency"`
	Provider  string            `json:"provider"` // stripe | coinbase
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// PaymentResponse HTTP response model; суммы в центах
type PaymentResponse struct {
	PaymentID  string `json:"paymentId"`
	Provider   string `json:"provider"`
	SessionID  string `json:"sessionId"`
	URL        string `json:"url"`
	Amount     int64  `json:"amount"`
	Commission int64  `json:"commission"`
	Payout     int64  `json:"payout"`
	Currency   string `json:"currency"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreatePaymentRequest) ToUseCaseRequest(callerID string) *createPayment.Request {
	return &createPayment.Request{
		CallerID:  callerID,
		BookingID: r.BookingID,
		Amount:    r.Amount,
		Currency:  r.Currency,
		Provider:  r.Provider,
		Metadata:  r.Metadata,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createPayment.Response) *PaymentResponse {
	return &PaymentResponse{
		PaymentID:  resp.PaymentID,
		Provider:   resp.Provider,
		SessionID:  resp.SessionID,
		URL:        resp.URL,
		Amount:     resp.Amount,
		Commission: resp.Commission,
		Payout:     resp.Payout,
		Currency:   resp.Currency,
	}
}
