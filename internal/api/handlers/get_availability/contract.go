package get_availability

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/availability/models"
)

type AvailabilityService interface {
	List(ctx context.Context, req *models.ListRequest) ([]models.AvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
