package stripepay

import "errors"

var (
	// ErrNotConfigured возвращается, если не задан секретный ключ Stripe
	ErrNotConfigured = errors.New("stripe client: secret key is not configured")

	// ErrDecodeEvent возвращается, если тело события не удалось разобрать
	ErrDecodeEvent = errors.New("stripe client: failed to decode event")
)
