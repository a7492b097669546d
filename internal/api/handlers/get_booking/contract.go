package get_booking

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/bookings/models"
)

// BookingService отдаёт бронирование участнику (клиенту или эскорту)
// Для постороннего пользователя возвращает bookings.ErrAccessDenied
type BookingService interface {
	GetByID(ctx context.Context, bookingID string, viewerID string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
