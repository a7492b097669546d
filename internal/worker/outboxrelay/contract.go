package outboxrelay

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// OutboxRepository таблица outbox_events
type OutboxRepository interface {
	FetchPending(ctx context.Context, now time.Time, maxAttempts, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id string, attempts int, nextAttemptAt time.Time, lastError string) error
	CountPending(ctx context.Context, maxAttempts int) (int, error)
}

// Publisher доставляет событие дальше: в RabbitMQ или сразу в notifier
type Publisher interface {
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}

// TransactionManager держит блокировки FOR UPDATE SKIP LOCKED на время отправки пачки
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type Metrics interface {
	IncOutboxPublished(eventType string)
	IncOutboxFailed(eventType string)
	SetOutboxPending(count int)
}

type TimeProvider interface {
	Now() time.Time
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type nopMetrics struct{}

func (nopMetrics) IncOutboxPublished(string) {}
func (nopMetrics) IncOutboxFailed(string)    {}
func (nopMetrics) SetOutboxPending(int)      {}
