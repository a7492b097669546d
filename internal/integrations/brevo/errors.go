package brevo

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("brevo client: internal error")

	// ErrRejected возвращается, если Brevo отклонил отправку (4xx)
	ErrRejected = errors.New("brevo client: message rejected")

	// ErrUnavailable возвращается при сетевых ошибках и 5xx
	ErrUnavailable = errors.New("brevo client: service unavailable")

	// ErrNoRecipient возвращается, если у получателя не указан адрес или телефон
	ErrNoRecipient = errors.New("brevo client: recipient is empty")
)
