package stripepay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

const signatureHeader = "Stripe-Signature"

// Checkout session events
const (
	eventSessionCompleted    = "checkout.session.completed"
	eventAsyncPaymentSuccess = "checkout.session.async_payment_succeeded"
	eventAsyncPaymentFailed  = "checkout.session.async_payment_failed"
	eventSessionExpired      = "checkout.session.expired"
)

// Config параметры Stripe
// APIURL нужен только для тестов, пустое значение - боевой API
type Config struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	APIURL        string
}

// Client открывает Stripe Checkout Session и проверяет webhooks
type Client struct {
	api *client.API
	cfg Config
}

// NewClient создает новый экземпляр клиента Stripe
func NewClient(cfg Config) *Client {
	api := &client.API{}

	var backends *stripe.Backends
	if cfg.APIURL != "" {
		backends = &stripe.Backends{
			API: stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
				URL:               stripe.String(cfg.APIURL),
				MaxNetworkRetries: stripe.Int64(0),
			}),
		}
	}
	api.Init(cfg.SecretKey, backends)

	return &Client{api: api, cfg: cfg}
}

// Provider идентификатор провайдера
func (c *Client) Provider() domain.PaymentProvider {
	return domain.ProviderStripe
}

// CreateCheckout открывает Checkout Session на одну позицию с суммой бронирования
// Ошибка Stripe возвращается как domain.ProviderError с исходным сообщением
func (c *Client) CreateCheckout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	if c.cfg.SecretKey == "" {
		return nil, ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(c.cfg.SuccessURL),
		CancelURL:         stripe.String(c.cfg.CancelURL),
		ClientReferenceID: stripe.String(req.BookingID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(req.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.AddMetadata("booking_id", req.BookingID)
	params.AddMetadata("payment_id", req.PaymentID)

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, providerError(err)
	}

	return &domain.CheckoutSession{
		ExternalID: session.ID,
		URL:        session.URL,
	}, nil
}

// ParseWebhook проверяет подпись Stripe-Signature и переводит событие в исход платежа
// Без настроенного секрета подпись проверить нечем, такие запросы отклоняются
func (c *Client) ParseWebhook(payload []byte, header http.Header) (*domain.PaymentNotification, error) {
	if c.cfg.WebhookSecret == "" {
		return nil, fmt.Errorf("%w: stripe webhook secret is not configured", domain.ErrInvalidWebhookSignature)
	}

	event, err := webhook.ConstructEventWithOptions(payload, header.Get(signatureHeader), c.cfg.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidWebhookSignature, err)
	}

	eventType := string(event.Type)

	var status domain.PaymentStatus
	switch eventType {
	case eventSessionCompleted, eventAsyncPaymentSuccess:
		status = domain.PaymentPaid
	case eventAsyncPaymentFailed, eventSessionExpired:
		status = domain.PaymentFailed
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrIgnoredWebhookEvent, eventType)
	}

	if event.Data == nil {
		return nil, fmt.Errorf("%w: %s without data", ErrDecodeEvent, eventType)
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeEvent, err)
	}

	// Сессия завершена, но оплата ещё в процессе (отложенные методы оплаты) - ждём async события
	if eventType == eventSessionCompleted && session.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
		return nil, fmt.Errorf("%w: %s with payment_status=unpaid", domain.ErrIgnoredWebhookEvent, eventType)
	}

	return &domain.PaymentNotification{
		Provider:   domain.ProviderStripe,
		ExternalID: session.ID,
		Status:     status,
		EventType:  eventType,
	}, nil
}

func providerError(err error) error {
	message := err.Error()
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		message = stripeErr.Msg
	}
	return &domain.ProviderError{
		Provider: domain.ProviderStripe,
		Message:  message,
		Err:      err,
	}
}
