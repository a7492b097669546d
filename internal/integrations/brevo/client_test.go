package brevo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendEmail(t *testing.T) {
	var got emailRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/smtp/email", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<1@brevo>"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "secret", SenderName: "Res", SenderEmail: "no-reply@example.com", Timeout: time.Second})

	err := client.SendEmail(context.Background(), Email{ToName: "Bob", ToEmail: "bob@example.com", Subject: "Hi", Text: "Body"})

	require.NoError(t, err)
	assert.Equal(t, "no-reply@example.com", got.Sender.Email)
	require.Len(t, got.To, 1)
	assert.Equal(t, "bob@example.com", got.To[0].Email)
	assert.Equal(t, "Body", got.TextContent)
}

func TestClient_SendSMS(t *testing.T) {
	var got smsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactionalSMS/sms", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, SMSSender: "Reserve", Timeout: time.Second})

	require.NoError(t, client.SendSMS(context.Background(), SMS{Phone: "+15550001", Content: "Booked"}))
	assert.Equal(t, "transactional", got.Type)
	assert.Equal(t, "Reserve", got.Sender)
	assert.Equal(t, "+15550001", got.Recipient)
}

func TestClient_Errors(t *testing.T) {
	status := http.StatusBadRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"code":"invalid_parameter","message":"email is not valid"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second})

	err := client.SendEmail(context.Background(), Email{ToEmail: "x"})
	assert.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "email is not valid")

	status = http.StatusServiceUnavailable
	err = client.SendEmail(context.Background(), Email{ToEmail: "x"})
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.ErrorIs(t, client.SendSMS(context.Background(), SMS{}), ErrNoRecipient)
}
