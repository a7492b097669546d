package notifier

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/userservice"
)

const (
	channelEmail = "email"
	channelSMS   = "sms"
)

// message одно уведомление одному участнику
type message struct {
	channel   string
	recipient *userservice.User
	subject   string
	text      string
}

type participants struct {
	client *userservice.User
	escort *userservice.User
}

func bookingMessages(eventType string, p domain.BookingEventPayload, who participants) []message {
	when := fmt.Sprintf("%s %s-%s", p.Date, p.StartTime, p.EndTime)

	switch eventType {
	case domain.EventBookingCreated:
		return []message{
			{channel: channelEmail, recipient: who.escort, subject: "New booking request",
				text: fmt.Sprintf("%s requested a booking on %s. Open your dashboard to confirm it.", who.client.Name, when)},
			{channel: channelSMS, recipient: who.escort,
				text: fmt.Sprintf("New booking request for %s.", when)},
			{channel: channelEmail, recipient: who.client, subject: "Booking request sent",
				text: fmt.Sprintf("Your request for %s with %s was sent. We will let you know once it is confirmed.", when, who.escort.Name)},
		}

	case domain.EventBookingConfirmed:
		return []message{
			{channel: channelEmail, recipient: who.client, subject: "Booking confirmed",
				text: fmt.Sprintf("Your booking on %s with %s is confirmed.", when, who.escort.Name)},
			{channel: channelSMS, recipient: who.client,
				text: fmt.Sprintf("Booking on %s confirmed.", when)},
		}

	case domain.EventBookingCancelled:
		return []message{
			{channel: channelEmail, recipient: who.client, subject: "Booking cancelled",
				text: fmt.Sprintf("The booking on %s with %s was cancelled.", when, who.escort.Name)},
			{channel: channelEmail, recipient: who.escort, subject: "Booking cancelled",
				text: fmt.Sprintf("The booking on %s with %s was cancelled.", when, who.client.Name)},
		}

	case domain.EventBookingCompleted:
		return []message{
			{channel: channelEmail, recipient: who.client, subject: "Booking completed",
				text: fmt.Sprintf("Your booking on %s with %s is completed. Thank you!", when, who.escort.Name)},
		}
	}

	return nil
}

func paymentMessages(p domain.PaymentEventPayload, who participants) []message {
	amount := fmt.Sprintf("%d.%02d %s", p.Amount/100, p.Amount%100, p.Currency)

	return []message{
		{channel: channelEmail, recipient: who.client, subject: "Payment received",
			text: fmt.Sprintf("We received your payment of %s for booking %s.", amount, p.BookingID)},
		{channel: channelEmail, recipient: who.escort, subject: "Booking paid",
			text: fmt.Sprintf("%s paid %s for booking %s.", who.client.Name, amount, p.BookingID)},
		{channel: channelSMS, recipient: who.escort,
			text: fmt.Sprintf("Booking %s paid: %s.", p.BookingID, amount)},
	}
}
