package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория доступности
type AvailabilityRepository interface {
	Upsert(ctx context.Context, availability *domain.Availability) (*domain.Availability, error)
	List(ctx context.Context, filter domain.AvailabilityFilter) ([]*domain.Availability, error)
	Delete(ctx context.Context, providerID string, date time.Time) (int64, error)
}

// Cache интерфейс кэша выборок доступности
type Cache interface {
	Get(ctx context.Context, filter domain.AvailabilityFilter) (list []*domain.Availability, gen int64, found bool, err error)
	Set(ctx context.Context, filter domain.AvailabilityFilter, gen int64, list []*domain.Availability) error
	Invalidate(ctx context.Context) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
