package availability

import "errors"

var (
	// ErrAccessDenied возвращается, когда пользователь меняет чужую доступность
	ErrAccessDenied = errors.New("access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
