package create_payment

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
)

// UseCase use case для открытия платежа по бронированию
type UseCase struct {
	bookingRepo       BookingRepository
	paymentRepo       PaymentRepository
	gateways          map[domain.PaymentProvider]PaymentGateway
	commissionPercent float64
	logger            Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	gateways []PaymentGateway,
	commissionPercent float64,
	logger Logger,
) *UseCase {
	byName := make(map[domain.PaymentProvider]PaymentGateway, len(gateways))
	for _, g := range gateways {
		byName[g.Provider()] = g
	}

	return &UseCase{
		bookingRepo:       bookingRepo,
		paymentRepo:       paymentRepo,
		gateways:          byName,
		commissionPercent: commissionPercent,
		logger:            logger,
	}
}

// Execute выполняет use case открытия платежа
// Провайдер вызывается один раз, без повторов; его ошибка возвращается вызывающему как есть
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreatePayment: booking=%s, provider=%s, amount=%.2f %s", req.BookingID, req.Provider, req.Amount, req.Currency)

	// 1. Валидация входных данных
	currency, gateway, err := uc.validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreatePayment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бронирование
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CreatePayment: booking id=%s not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CreatePayment: failed to get booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 3. Платит только клиент бронирования
	if booking.ClientID != req.CallerID {
		uc.logger.Warn("CreatePayment: user=%s is not the client of booking id=%s", req.CallerID, booking.ID)
		return nil, ErrAccessDenied
	}

	// 4. Оплатить можно только активное бронирование
	if !booking.IsActive() {
		uc.logger.Warn("CreatePayment: booking id=%s is %s", booking.ID, booking.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrBookingNotPayable, booking.Status)
	}

	// 5. Сумма платежа - ровно сумма бронирования
	amount := domain.ToMinorUnits(req.Amount)
	if err := validateAmount(amount, booking); err != nil {
		uc.logger.Warn("CreatePayment: amount %d does not match booking id=%s total %.2f", amount, booking.ID, booking.TotalAmount)
		return nil, err
	}

	// 6. Считаем комиссию площадки
	commission, payout := domain.CommissionSplit(amount, uc.commissionPercent)
	paymentID := uuid.NewString()

	// 7. Открываем сессию у провайдера
	session, err := gateway.CreateCheckout(ctx, domain.CheckoutRequest{
		PaymentID:   paymentID,
		BookingID:   booking.ID,
		Amount:      amount,
		Currency:    currency,
		Description: fmt.Sprintf("Booking %s on %s %s-%s", booking.ID, booking.BookingDate.Format(domain.DateFormat), booking.StartTime, booking.EndTime),
		Metadata:    req.Metadata,
	})
	if err != nil {
		var providerErr *domain.ProviderError
		if errors.As(err, &providerErr) {
			uc.logger.Warn("CreatePayment: provider %s rejected booking id=%s: %s", providerErr.Provider, booking.ID, providerErr.Message)
			return nil, providerErr
		}
		uc.logger.Error("CreatePayment: provider %s failed for booking id=%s: %v", gateway.Provider(), booking.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	// 8. Сохраняем платёж в статусе pending
	payment, err := uc.paymentRepo.Create(ctx, &domain.Payment{
		ID:         paymentID,
		BookingID:  booking.ID,
		Provider:   gateway.Provider(),
		ExternalID: session.ExternalID,
		Amount:     amount,
		Currency:   currency,
		Commission: commission,
		Payout:     payout,
		Status:     domain.PaymentPending,
	})
	if err != nil {
		uc.logger.Error("CreatePayment: session %s opened but payment was not saved: %v", session.ExternalID, err)
		return nil, fmt.Errorf("%w: failed to save payment: %v", ErrInternal, err)
	}

	uc.logger.Info("CreatePayment: payment id=%s opened with %s session=%s", payment.ID, payment.Provider, payment.ExternalID)

	return &Response{
		PaymentID:  payment.ID,
		Provider:   string(payment.Provider),
		SessionID:  session.ExternalID,
		URL:        session.URL,
		Amount:     payment.Amount,
		Commission: payment.Commission,
		Payout:     payment.Payout,
		Currency:   payment.Currency,
	}, nil
}

func (uc *UseCase) providerNames() []string {
	names := make([]string, 0, len(uc.gateways))
	for name := range uc.gateways {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}
