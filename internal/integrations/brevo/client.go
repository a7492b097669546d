package brevo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config параметры отправителя
type Config struct {
	BaseURL     string
	APIKey      string
	SenderName  string
	SenderEmail string
	SMSSender   string
	Timeout     time.Duration
}

// Client клиент транзакционных email/SMS Brevo
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient создает новый экземпляр клиента Brevo
func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SendEmail отправляет транзакционное письмо
func (c *Client) SendEmail(ctx context.Context, email Email) error {
	if strings.TrimSpace(email.ToEmail) == "" {
		return ErrNoRecipient
	}

	return c.post(ctx, "/smtp/email", emailRequest{
		Sender:      contact{Name: c.cfg.SenderName, Email: c.cfg.SenderEmail},
		To:          []contact{{Name: email.ToName, Email: email.ToEmail}},
		Subject:     email.Subject,
		TextContent: email.Text,
	})
}

// SendSMS отправляет транзакционное SMS
func (c *Client) SendSMS(ctx context.Context, sms SMS) error {
	if strings.TrimSpace(sms.Phone) == "" {
		return ErrNoRecipient
	}

	return c.post(ctx, "/transactionalSMS/sms", smsRequest{
		Sender:    c.cfg.SMSSender,
		Recipient: sms.Phone,
		Content:   sms.Content,
		Type:      "transactional",
	})
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	raw, _ := io.ReadAll(resp.Body)
	message := string(raw)
	var errResp ErrorResponse
	if json.Unmarshal(raw, &errResp) == nil && errResp.Message != "" {
		message = errResp.Code + ": " + errResp.Message
	}

	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, message)
	}
	return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, message)
}
