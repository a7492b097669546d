package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

const aggregateIDHeader = "aggregate_id"

// Publisher публикует события outbox в durable очередь через default exchange
// Канал работает в режиме publisher confirms: Publish возвращается только после ack брокера
// Соединение открывается лениво и пересоздаётся после ошибки
type Publisher struct {
	url   string
	queue string
	log   Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher создает новый экземпляр издателя
func NewPublisher(url, queue string, log Logger) *Publisher {
	return &Publisher{url: url, queue: queue, log: log}
}

// confirmation подтверждение публикации от брокера (*amqp.DeferredConfirmation)
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// Publish отправляет событие как persistent JSON сообщение, MessageId = ID события
func (p *Publisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannel(); err != nil {
		return err
	}

	confirm, err := p.ch.PublishWithDeferredConfirmWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		toPublishing(event),
	)
	if err != nil {
		p.reset()
		return fmt.Errorf("%w: event_id=%s: %v", ErrPublish, event.ID, err)
	}

	if err := awaitConfirm(ctx, confirm); err != nil {
		// канал в неизвестном состоянии: следующий Publish откроет новый
		p.reset()
		return fmt.Errorf("event_id=%s: %w", event.ID, err)
	}

	return nil
}

func awaitConfirm(ctx context.Context, confirm confirmation) error {
	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: waiting for confirm: %v", ErrPublish, err)
	}
	if !acked {
		return ErrNotConfirmed
	}
	return nil
}

// Close закрывает канал и соединение
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

func (p *Publisher) ensureChannel() error {
	if p.ch != nil && !p.ch.IsClosed() {
		return nil
	}
	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("%w: dial: %v", ErrConnect, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("%w: channel open: %v", ErrConnect, err)
	}

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("%w: queue declare: %v", ErrConnect, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("%w: confirm mode: %v", ErrConnect, err)
	}

	p.conn = conn
	p.ch = ch
	p.log.Info("broker: publisher connected, queue=%s", p.queue)
	return nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func toPublishing(event *domain.OutboxEvent) amqp.Publishing {
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         event.EventType,
		Timestamp:    time.Now().UTC(),
		Headers:      amqp.Table{aggregateIDHeader: event.AggregateID},
		Body:         event.Payload,
	}
}

func fromDelivery(d amqp.Delivery) *domain.OutboxEvent {
	aggregateID, _ := d.Headers[aggregateIDHeader].(string)
	return &domain.OutboxEvent{
		ID:          d.MessageId,
		AggregateID: aggregateID,
		EventType:   d.Type,
		Payload:     d.Body,
		CreatedAt:   d.Timestamp,
	}
}
