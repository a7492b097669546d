package create_payment

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("create_payment: booking not found")

	// ErrAccessDenied возвращается, когда платит не клиент бронирования
	ErrAccessDenied = errors.New("create_payment: access denied")

	// ErrBookingNotPayable возвращается для отменённых и завершённых бронирований
	ErrBookingNotPayable = errors.New("create_payment: booking cannot be paid in its current status")

	// ErrProviderUnavailable возвращается, когда провайдер не настроен или не ответил
	ErrProviderUnavailable = errors.New("create_payment: payment provider unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_payment: internal error")
)
