package notifier

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/integrations/brevo"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/userservice"
)

type UserServiceClient interface {
	FindByID(ctx context.Context, userID string) (*userservice.User, error)
}

// Sender транзакционные email и SMS (Brevo)
type Sender interface {
	SendEmail(ctx context.Context, email brevo.Email) error
	SendSMS(ctx context.Context, sms brevo.SMS) error
}

type Metrics interface {
	IncNotification(channel string, ok bool)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type nopMetrics struct{}

func (nopMetrics) IncNotification(string, bool) {}
