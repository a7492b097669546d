package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/userservice"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	FindOverlapping(ctx context.Context, escortID string, date time.Time, start, end types.TimeString) ([]*domain.Booking, error)
}

// OutboxRepository интерфейс репозитория исходящих событий
type OutboxRepository interface {
	Add(ctx context.Context, event *domain.OutboxEvent) error
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	FindByID(ctx context.Context, userID string) (*userservice.User, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
