package notifier

import "errors"

var (
	// ErrLookupFailed возвращается, если UserService недоступен
	ErrLookupFailed = errors.New("notifier: failed to load participants")

	// ErrDeliveryFailed возвращается, если не удалось отправить ни одного уведомления
	ErrDeliveryFailed = errors.New("notifier: no notification delivered")
)
