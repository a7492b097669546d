package userservice

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователя с таким ID нет
	ErrUserNotFound = errors.New("user not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("userservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("userservice client: invalid response")

	// ErrServiceUnavailable возвращается, если UserService не ответил или ответил 5xx
	ErrServiceUnavailable = errors.New("userservice client: service unavailable")
)
