package availability

import "errors"

var (
	// ErrCacheUnavailable возвращается при ошибках Redis; вызывающий код должен идти в БД
	ErrCacheUnavailable = errors.New("availability.cache: redis unavailable")

	// ErrDecode возвращается, если в кэше лежит повреждённое значение
	ErrDecode = errors.New("availability.cache: failed to decode cached value")
)
