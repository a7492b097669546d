package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Outbox event types
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"
	EventPaymentConfirmed = "payment.confirmed"
)

// OutboxEvent is a side effect recorded in the same transaction as the state change that caused it
type OutboxEvent struct {
	ID            string
	AggregateID   string
	EventType     string
	Payload       []byte
	Attempts      int
	NextAttemptAt time.Time
	PublishedAt   *time.Time
	LastError     *string
	CreatedAt     time.Time
}

// BookingEventPayload is the payload of booking.* events
type BookingEventPayload struct {
	BookingID   string  `json:"bookingId"`
	EscortID    string  `json:"escortId"`
	ClientID    string  `json:"clientId"`
	Date        string  `json:"date"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"totalAmount"`
}

// PaymentEventPayload is the payload of payment.* events
type PaymentEventPayload struct {
	PaymentID string `json:"paymentId"`
	BookingID string `json:"bookingId"`
	EscortID  string `json:"escortId"`
	ClientID  string `json:"clientId"`
	Provider  string `json:"provider"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

// StatusEventType maps a booking status to its outbox event type
func StatusEventType(status BookingStatus) string {
	switch status {
	case StatusConfirmed:
		return EventBookingConfirmed
	case StatusCancelled:
		return EventBookingCancelled
	case StatusCompleted:
		return EventBookingCompleted
	default:
		return EventBookingCreated
	}
}

// NewBookingEventPayload builds the payload from a booking
func NewBookingEventPayload(b *Booking) BookingEventPayload {
	return BookingEventPayload{
		BookingID:   b.ID,
		EscortID:    b.EscortID,
		ClientID:    b.ClientID,
		Date:        b.BookingDate.Format(DateFormat),
		StartTime:   b.StartTime.String(),
		EndTime:     b.EndTime.String(),
		Status:      string(b.Status),
		TotalAmount: b.TotalAmount,
	}
}

// NewOutboxEvent builds an event due immediately with a JSON payload
func NewOutboxEvent(aggregateID, eventType string, payload interface{}, now time.Time) (*OutboxEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return &OutboxEvent{
		ID:            uuid.NewString(),
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       raw,
		NextAttemptAt: now,
		CreatedAt:     now,
	}, nil
}
