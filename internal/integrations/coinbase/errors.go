package coinbase

import "errors"

var (
	// ErrNotConfigured возвращается, если не задан API ключ
	ErrNotConfigured = errors.New("coinbase client: api key is not configured")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("coinbase client: internal error")

	// ErrDecodeEvent возвращается, если тело webhook не удалось разобрать
	ErrDecodeEvent = errors.New("coinbase client: failed to decode event")
)
