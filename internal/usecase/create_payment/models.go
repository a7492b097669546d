package create_payment

// Request модель запроса на открытие платежа
type Request struct {
	CallerID  string            // ID аутентифицированного пользователя
	BookingID string            // ID бронирования
	Amount    float64           // Сумма в основных единицах валюты (125.50)
	Currency  string            // ISO код, по умолчанию usd
	Provider  string            // stripe | coinbase
	Metadata  map[string]string // Передаётся провайдеру как есть
}

// Response модель ответа с данными сессии оплаты
// Суммы в минимальных единицах валюты (центах)
type Response struct {
	PaymentID  string
	Provider   string
	SessionID  string
	URL        string
	Amount     int64
	Commission int64
	Payout     int64
	Currency   string
}
