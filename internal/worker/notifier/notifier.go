package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/brevo"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/userservice"
)

// Notifier рассылает email и SMS участникам бронирования по событиям outbox
type Notifier struct {
	users   UserServiceClient
	sender  Sender
	metrics Metrics
	logger  Logger
}

// NewNotifier создает новый экземпляр notifier; metrics может быть nil
func NewNotifier(users UserServiceClient, sender Sender, metrics Metrics, logger Logger) *Notifier {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Notifier{
		users:   users,
		sender:  sender,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle обрабатывает одно событие
// Ошибка возвращается, только если повторная доставка события может помочь:
// UserService недоступен или не ушло ни одного уведомления
func (n *Notifier) Handle(ctx context.Context, event *domain.OutboxEvent) error {
	var (
		clientID, escortID string
		build              func(participants) []message
	)

	switch event.EventType {
	case domain.EventBookingCreated, domain.EventBookingConfirmed, domain.EventBookingCancelled, domain.EventBookingCompleted:
		var payload domain.BookingEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			n.logger.Error("notifier: event_id=%s type=%s: bad payload: %v", event.ID, event.EventType, err)
			return nil
		}
		clientID, escortID = payload.ClientID, payload.EscortID
		build = func(p participants) []message { return bookingMessages(event.EventType, payload, p) }

	case domain.EventPaymentConfirmed:
		var payload domain.PaymentEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			n.logger.Error("notifier: event_id=%s type=%s: bad payload: %v", event.ID, event.EventType, err)
			return nil
		}
		clientID, escortID = payload.ClientID, payload.EscortID
		build = func(p participants) []message { return paymentMessages(payload, p) }

	default:
		n.logger.Warn("notifier: event_id=%s: unknown type=%s, skipping", event.ID, event.EventType)
		return nil
	}

	who, err := n.loadParticipants(ctx, clientID, escortID)
	if err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			n.logger.Warn("notifier: event_id=%s: participant not found, skipping: %v", event.ID, err)
			return nil
		}
		return fmt.Errorf("%w: event_id=%s: %v", ErrLookupFailed, event.ID, err)
	}

	messages := build(who)
	delivered := 0
	for _, msg := range messages {
		if err := n.send(ctx, msg); err != nil {
			n.logger.Error("notifier: event_id=%s type=%s: %s to user=%s failed: %v",
				event.ID, event.EventType, msg.channel, msg.recipient.ID, err)
			n.metrics.IncNotification(msg.channel, false)
			continue
		}
		n.metrics.IncNotification(msg.channel, true)
		delivered++
	}

	if len(messages) > 0 && delivered == 0 {
		return fmt.Errorf("%w: event_id=%s", ErrDeliveryFailed, event.ID)
	}

	n.logger.Info("notifier: event_id=%s type=%s: delivered %d/%d", event.ID, event.EventType, delivered, len(messages))
	return nil
}

func (n *Notifier) loadParticipants(ctx context.Context, clientID, escortID string) (participants, error) {
	client, err := n.users.FindByID(ctx, clientID)
	if err != nil {
		return participants{}, fmt.Errorf("client %s: %w", clientID, err)
	}

	escort, err := n.users.FindByID(ctx, escortID)
	if err != nil {
		return participants{}, fmt.Errorf("escort %s: %w", escortID, err)
	}

	return participants{client: client, escort: escort}, nil
}

func (n *Notifier) send(ctx context.Context, msg message) error {
	switch msg.channel {
	case channelSMS:
		return n.sender.SendSMS(ctx, brevo.SMS{
			Phone:   msg.recipient.Phone,
			Content: msg.text,
		})
	default:
		return n.sender.SendEmail(ctx, brevo.Email{
			ToName:  msg.recipient.Name,
			ToEmail: msg.recipient.Email,
			Subject: msg.subject,
			Text:    msg.text,
		})
	}
}
