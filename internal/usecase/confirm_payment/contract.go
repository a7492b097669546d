package confirm_payment

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetByExternalID(ctx context.Context, provider domain.PaymentProvider, externalID string) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error
}

// BookingConfirmer подтверждает бронирование после оплаты через таблицу переходов
type BookingConfirmer interface {
	ConfirmAfterPayment(ctx context.Context, bookingID string) (*domain.Booking, bool, error)
}

// OutboxRepository интерфейс репозитория исходящих событий
type OutboxRepository interface {
	Add(ctx context.Context, event *domain.OutboxEvent) error
}

// WebhookParser проверяет подпись webhook провайдера и извлекает исход платежа
type WebhookParser interface {
	Provider() domain.PaymentProvider
	ParseWebhook(payload []byte, header http.Header) (*domain.PaymentNotification, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
