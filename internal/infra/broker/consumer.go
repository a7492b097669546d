package broker

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	prefetchCount  = 20
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Consumer читает очередь с ручным подтверждением
// Ошибка обработчика при первой доставке возвращает сообщение в очередь, при повторной - отбрасывает его
type Consumer struct {
	url   string
	queue string
	log   Logger
}

// NewConsumer создает новый экземпляр потребителя
func NewConsumer(url, queue string, log Logger) *Consumer {
	return &Consumer{url: url, queue: queue, log: log}
}

// Run подключается и обрабатывает сообщения до отмены ctx, переподключаясь с удвоением паузы
func (c *Consumer) Run(ctx context.Context, handler Handler) error {
	backoff := initialBackoff
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("broker: consumer dial failed: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = initialBackoff

		err = c.consumeLoop(ctx, conn, handler)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("broker: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection, handler Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(prefetchCount, 0, false); err != nil {
		c.log.Warn("broker: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	c.log.Info("broker: consuming queue=%s", c.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.handleDelivery(ctx, d, handler)
		}
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery, handler Handler) {
	event := fromDelivery(d)

	if err := handler(ctx, event); err != nil {
		requeue := !d.Redelivered
		c.log.Error("broker: handle event_id=%s type=%s failed (requeue=%t): %v", event.ID, event.EventType, requeue, err)
		_ = d.Nack(false, requeue)
		return
	}

	_ = d.Ack(false)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
