package create_booking

import (
	"context"

	createBooking "github.com/m04kA/SMC-ReservationService/internal/usecase/create_booking"
)

// BookingCreator резервирует интервал эскорта от имени клиента
// Ошибки: validation.InputError, ErrAccessDenied, ErrClientNotFound, ErrEscortNotFound, ErrTimeRangeTaken
type BookingCreator interface {
	Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
