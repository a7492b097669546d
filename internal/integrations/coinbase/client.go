package coinbase

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

const (
	apiVersion      = "2018-03-22"
	signatureHeader = "X-CC-Webhook-Signature"
)

// Charge events
const (
	eventChargeConfirmed = "charge:confirmed"
	eventChargeResolved  = "charge:resolved"
	eventChargeFailed    = "charge:failed"
)

// Config параметры Coinbase Commerce
type Config struct {
	BaseURL       string
	APIKey        string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	Timeout       time.Duration
}

// Client создаёт charge в Coinbase Commerce и проверяет webhooks
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient создает новый экземпляр клиента Coinbase Commerce
func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Provider идентификатор провайдера
func (c *Client) Provider() domain.PaymentProvider {
	return domain.ProviderCoinbase
}

// CreateCheckout создаёт charge с фиксированной ценой
// Ошибка Coinbase возвращается как domain.ProviderError с исходным сообщением
func (c *Client) CreateCheckout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutSession, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	metadata := make(map[string]string, len(req.Metadata)+2)
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	metadata["booking_id"] = req.BookingID
	metadata["payment_id"] = req.PaymentID

	body, err := json.Marshal(createChargeRequest{
		Name:        req.Description,
		Description: req.Description,
		PricingType: "fixed_price",
		LocalPrice: money{
			Amount:   formatMinorUnits(req.Amount),
			Currency: strings.ToUpper(req.Currency),
		},
		Metadata:    metadata,
		RedirectURL: c.cfg.SuccessURL,
		CancelURL:   c.cfg.CancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-CC-Api-Key", c.cfg.APIKey)
	httpReq.Header.Set("X-CC-Version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &domain.ProviderError{Provider: domain.ProviderCoinbase, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ProviderError{Provider: domain.ProviderCoinbase, Message: err.Error(), Err: err}
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		message := fmt.Sprintf("unexpected status code %d", resp.StatusCode)
		var errResp ErrorResponse
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error.Message != "" {
			message = errResp.Error.Message
		}
		return nil, &domain.ProviderError{Provider: domain.ProviderCoinbase, Message: message}
	}

	var parsed chargeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInternal, err)
	}

	return &domain.CheckoutSession{
		ExternalID: parsed.Data.ID,
		URL:        parsed.Data.HostedURL,
	}, nil
}

// ParseWebhook проверяет X-CC-Webhook-Signature (hex HMAC-SHA256 тела) и переводит событие в исход платежа
func (c *Client) ParseWebhook(payload []byte, header http.Header) (*domain.PaymentNotification, error) {
	if !c.validSignature(payload, header.Get(signatureHeader)) {
		return nil, domain.ErrInvalidWebhookSignature
	}

	var body webhookBody
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeEvent, err)
	}

	var status domain.PaymentStatus
	switch body.Event.Type {
	case eventChargeConfirmed, eventChargeResolved:
		status = domain.PaymentPaid
	case eventChargeFailed:
		status = domain.PaymentFailed
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrIgnoredWebhookEvent, body.Event.Type)
	}

	return &domain.PaymentNotification{
		Provider:   domain.ProviderCoinbase,
		ExternalID: body.Event.Data.ID,
		Status:     status,
		EventType:  body.Event.Type,
	}, nil
}

func (c *Client) validSignature(payload []byte, signature string) bool {
	if c.cfg.WebhookSecret == "" || signature == "" {
		return false
	}
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.cfg.WebhookSecret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), expected)
}

// formatMinorUnits 12550 -> "125.50"
func formatMinorUnits(amount int64) string {
	return strconv.FormatFloat(float64(amount)/100, 'f', 2, 64)
}
