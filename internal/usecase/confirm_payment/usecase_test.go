package confirm_payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	paymentRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/coinbase"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

const webhookSecret = "cb-secret"

type fakePayments struct {
	payments map[string]*domain.Payment
	updates  int
}

func (f *fakePayments) GetByExternalID(_ context.Context, provider domain.PaymentProvider, externalID string) (*domain.Payment, error) {
	for _, p := range f.payments {
		if p.Provider == provider && p.ExternalID == externalID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, paymentRepo.ErrPaymentNotFound
}

func (f *fakePayments) UpdateStatus(_ context.Context, id string, status domain.PaymentStatus) error {
	f.updates++
	f.payments[id].Status = status
	return nil
}

type fakeConfirmer struct {
	booking *domain.Booking
	calls   int
}

func (f *fakeConfirmer) ConfirmAfterPayment(_ context.Context, bookingID string) (*domain.Booking, bool, error) {
	f.calls++
	if f.booking.Status != domain.StatusPending {
		return f.booking, false, nil
	}
	f.booking.Status = domain.StatusConfirmed
	return f.booking, true, nil
}

type fakeOutbox struct {
	events []*domain.OutboxEvent
}

func (o *fakeOutbox) Add(_ context.Context, e *domain.OutboxEvent) error {
	o.events = append(o.events, e)
	return nil
}

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{}

func (fixedTime) Now() time.Time { return time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC) }

type fixture struct {
	uc        *UseCase
	payments  *fakePayments
	confirmer *fakeConfirmer
	outbox    *fakeOutbox
}

func newFixture(bookingStatus domain.BookingStatus, paymentStatus domain.PaymentStatus) *fixture {
	f := &fixture{
		payments: &fakePayments{payments: map[string]*domain.Payment{
			"p-1": {
				ID:         "p-1",
				BookingID:  "b-1",
				Provider:   domain.ProviderCoinbase,
				ExternalID: "charge-1",
				Amount:     5000,
				Currency:   "usd",
				Status:     paymentStatus,
			},
		}},
		confirmer: &fakeConfirmer{booking: &domain.Booking{ID: "b-1", ClientID: "client-1", EscortID: "escort-1", Status: bookingStatus}},
		outbox:    &fakeOutbox{},
	}
	parser := coinbase.NewClient(coinbase.Config{WebhookSecret: webhookSecret})
	f.uc = NewUseCase(f.payments, f.confirmer, f.outbox, []WebhookParser{parser}, fakeTx{}, fixedTime{}, logger.NewNop())
	return f
}

func webhook(eventType, chargeID string) *Request {
	payload := []byte(`{"event":{"id":"evt","type":"` + eventType + `","data":{"id":"` + chargeID + `"}}}`)
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(payload)
	header := http.Header{}
	header.Set("X-CC-Webhook-Signature", hex.EncodeToString(mac.Sum(nil)))
	return &Request{Provider: "coinbase", Payload: payload, Header: header}
}

func TestUseCase_Execute_PaidConfirmsPendingBooking(t *testing.T) {
	f := newFixture(domain.StatusPending, domain.PaymentPending)

	resp, err := f.uc.Execute(context.Background(), webhook("charge:confirmed", "charge-1"))

	require.NoError(t, err)
	assert.Equal(t, OutcomeProcessed, resp.Outcome)
	assert.True(t, resp.BookingConfirmed)
	assert.Equal(t, domain.PaymentPaid, f.payments.payments["p-1"].Status)
	assert.Equal(t, domain.StatusConfirmed, f.confirmer.booking.Status)

	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, domain.EventPaymentConfirmed, f.outbox.events[0].EventType)
	assert.Contains(t, string(f.outbox.events[0].Payload), `"escortId":"escort-1"`)
}

func TestUseCase_Execute_PaidLeavesCancelledBooking(t *testing.T) {
	f := newFixture(domain.StatusCancelled, domain.PaymentPending)

	resp, err := f.uc.Execute(context.Background(), webhook("charge:confirmed", "charge-1"))

	require.NoError(t, err)
	assert.False(t, resp.BookingConfirmed)
	assert.Equal(t, domain.StatusCancelled, f.confirmer.booking.Status)
	assert.Equal(t, domain.PaymentPaid, f.payments.payments["p-1"].Status)
}

func TestUseCase_Execute_Failed(t *testing.T) {
	f := newFixture(domain.StatusPending, domain.PaymentPending)

	resp, err := f.uc.Execute(context.Background(), webhook("charge:failed", "charge-1"))

	require.NoError(t, err)
	assert.Equal(t, OutcomeProcessed, resp.Outcome)
	assert.Equal(t, domain.PaymentFailed, f.payments.payments["p-1"].Status)
	assert.Zero(t, f.confirmer.calls)
	assert.Empty(t, f.outbox.events)
}

func TestUseCase_Execute_RedeliveryIsNoop(t *testing.T) {
	f := newFixture(domain.StatusConfirmed, domain.PaymentPaid)

	resp, err := f.uc.Execute(context.Background(), webhook("charge:confirmed", "charge-1"))

	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, resp.Outcome)
	assert.Zero(t, f.payments.updates)
	assert.Zero(t, f.confirmer.calls)
	assert.Empty(t, f.outbox.events)
}

func TestUseCase_Execute_Ignored(t *testing.T) {
	t.Run("unknown external id", func(t *testing.T) {
		f := newFixture(domain.StatusPending, domain.PaymentPending)

		resp, err := f.uc.Execute(context.Background(), webhook("charge:confirmed", "charge-404"))

		require.NoError(t, err)
		assert.Equal(t, OutcomeIgnored, resp.Outcome)
		assert.Zero(t, f.payments.updates)
	})

	t.Run("event that does not settle a payment", func(t *testing.T) {
		f := newFixture(domain.StatusPending, domain.PaymentPending)

		resp, err := f.uc.Execute(context.Background(), webhook("charge:created", "charge-1"))

		require.NoError(t, err)
		assert.Equal(t, OutcomeIgnored, resp.Outcome)
	})
}

func TestUseCase_Execute_Rejected(t *testing.T) {
	f := newFixture(domain.StatusPending, domain.PaymentPending)

	req := webhook("charge:confirmed", "charge-1")
	req.Header.Set("X-CC-Webhook-Signature", "00ff")
	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	req = webhook("charge:confirmed", "charge-1")
	req.Provider = "paypal"
	_, err = f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnknownProvider)

	assert.Zero(t, f.payments.updates)
}
