package create_booking

import "errors"

var (
	// ErrClientNotFound возвращается, когда клиента нет в UserService
	ErrClientNotFound = errors.New("create_booking: client not found")

	// ErrEscortNotFound возвращается, когда эскорта нет или у пользователя другая роль
	ErrEscortNotFound = errors.New("create_booking: escort not found")

	// ErrAccessDenied возвращается, когда пользователь бронирует от имени другого клиента
	ErrAccessDenied = errors.New("create_booking: access denied")

	// ErrTimeRangeTaken возвращается, когда у эскорта уже есть активное бронирование на это время
	ErrTimeRangeTaken = errors.New("create_booking: time range overlaps an existing booking")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
