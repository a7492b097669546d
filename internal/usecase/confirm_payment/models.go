package confirm_payment

import "net/http"

// Outcome результат обработки webhook
type Outcome string

const (
	OutcomeProcessed Outcome = "processed" // статус платежа обновлён
	OutcomeIgnored   Outcome = "ignored"   // событие не про оплату или платёж неизвестен
	OutcomeDuplicate Outcome = "duplicate" // платёж уже в финальном статусе
)

// Request модель webhook запроса
type Request struct {
	Provider string      // stripe | coinbase (из пути)
	Payload  []byte      // Тело запроса без изменений, по нему считается подпись
	Header   http.Header // Заголовки с подписью
}

// Response модель ответа
type Response struct {
	Outcome          Outcome
	PaymentID        string
	BookingID        string
	PaymentStatus    string
	BookingConfirmed bool
}
