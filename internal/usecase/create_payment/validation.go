package create_payment

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/validation"
)

var currencyPattern = regexp.MustCompile(`^[a-z]{3}$`)

// validateRequest валидирует запрос и нормализует валюту
func (uc *UseCase) validateRequest(req *Request) (string, PaymentGateway, error) {
	inputErr := validation.NewInputError()

	if strings.TrimSpace(req.BookingID) == "" {
		inputErr.Add("bookingId", "is required")
	}

	switch {
	case math.IsNaN(req.Amount) || req.Amount <= 0:
		inputErr.Add("amount", "must be greater than 0")
	case req.Amount > domain.MaxPaymentAmount:
		inputErr.Add("amount", fmt.Sprintf("must not exceed %d", domain.MaxPaymentAmount))
	case domain.ToMinorUnits(req.Amount) == 0:
		inputErr.Add("amount", "is below the smallest currency unit")
	}

	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	if !currencyPattern.MatchString(currency) {
		inputErr.Add("currency", "must be a 3-letter ISO code")
	}

	gateway, ok := uc.gateways[domain.PaymentProvider(strings.ToLower(req.Provider))]
	if !ok {
		inputErr.Add("provider", fmt.Sprintf("must be one of %s", strings.Join(uc.providerNames(), ", ")))
	}

	if len(req.Metadata) > domain.MaxMetadataItems {
		inputErr.Add("metadata", fmt.Sprintf("must contain at most %d keys", domain.MaxMetadataItems))
	}

	if err := inputErr.OrNil(); err != nil {
		return "", nil, err
	}
	return currency, gateway, nil
}

// validateAmount сверяет сумму платежа с суммой бронирования в минимальных единицах
func validateAmount(amount int64, booking *domain.Booking) error {
	if amount == domain.ToMinorUnits(booking.TotalAmount) {
		return nil
	}
	inputErr := validation.NewInputError()
	inputErr.Add("amount", fmt.Sprintf("must equal the booking total %.2f", booking.TotalAmount))
	return inputErr
}
