package broker

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Logger интерфейс логгера брокера
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Handler обрабатывает событие, полученное из очереди
type Handler func(ctx context.Context, event *domain.OutboxEvent) error
