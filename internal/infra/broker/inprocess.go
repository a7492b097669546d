package broker

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// InProcessPublisher передаёт события обработчику напрямую, без RabbitMQ (broker.enabled = false)
// Ошибка обработчика возвращается relay, и событие уходит на повтор через outbox
type InProcessPublisher struct {
	handler Handler
}

func NewInProcessPublisher(handler Handler) *InProcessPublisher {
	return &InProcessPublisher{handler: handler}
}

func (p *InProcessPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	return p.handler(ctx, event)
}
