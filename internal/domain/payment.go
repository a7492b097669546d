package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInvalidWebhookSignature is returned when a provider webhook fails signature verification
	ErrInvalidWebhookSignature = errors.New("invalid webhook signature")

	// ErrIgnoredWebhookEvent is returned for verified events that do not settle a payment
	ErrIgnoredWebhookEvent = errors.New("webhook event ignored")
)

type PaymentProvider string

const (
	ProviderStripe   PaymentProvider = "stripe"
	ProviderCoinbase PaymentProvider = "coinbase"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment is a checkout session opened with a payment provider for a booking.
// Amounts are in minor currency units (cents).
type Payment struct {
	ID         string
	BookingID  string
	Provider   PaymentProvider
	ExternalID string // provider session / charge id
	Amount     int64
	Currency   string
	Commission int64
	Payout     int64
	Status     PaymentStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsFinal returns true when the provider has already settled the payment
func (p *Payment) IsFinal() bool {
	return p.Status == PaymentPaid || p.Status == PaymentFailed
}

// PaymentNotification is a verified webhook outcome from a provider
type PaymentNotification struct {
	Provider   PaymentProvider
	ExternalID string
	Status     PaymentStatus
	EventType  string
}

// CommissionSplit splits an amount with the platform's flat percentage.
// The commission is rounded half away from zero; payout gets the remainder so both parts add up to amount.
func CommissionSplit(amount int64, percent float64) (commission int64, payout int64) {
	commission = int64(math.Round(float64(amount) * percent / 100))
	if commission < 0 {
		commission = 0
	}
	if commission > amount {
		commission = amount
	}
	return commission, amount - commission
}

// ToMinorUnits converts a decimal amount (12.34) to cents (1234)
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CheckoutRequest is what a provider needs to open a hosted checkout
type CheckoutRequest struct {
	PaymentID   string
	BookingID   string
	Amount      int64 // minor units
	Currency    string
	Description string
	Metadata    map[string]string
}

// CheckoutSession is the provider's answer: its id and the page the client pays on
type CheckoutSession struct {
	ExternalID string
	URL        string
}

// ProviderError carries the provider's own message so it can be shown to the caller as is
type ProviderError struct {
	Provider PaymentProvider
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
