package confirm_payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	paymentRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/payment"
)

// UseCase use case обработки webhook провайдера оплаты
type UseCase struct {
	paymentRepo  PaymentRepository
	confirmer    BookingConfirmer
	outboxRepo   OutboxRepository
	parsers      map[domain.PaymentProvider]WebhookParser
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	paymentRepo PaymentRepository,
	confirmer BookingConfirmer,
	outboxRepo OutboxRepository,
	parsers []WebhookParser,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	byName := make(map[domain.PaymentProvider]WebhookParser, len(parsers))
	for _, p := range parsers {
		byName[p.Provider()] = p
	}

	return &UseCase{
		paymentRepo:  paymentRepo,
		confirmer:    confirmer,
		outboxRepo:   outboxRepo,
		parsers:      byName,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет use case обработки webhook
// Повторная доставка того же события ничего не меняет: финальный статус платежа не перезаписывается
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Выбираем провайдера
	parser, ok := uc.parsers[domain.PaymentProvider(strings.ToLower(req.Provider))]
	if !ok {
		uc.logger.Warn("ConfirmPayment: webhook for unknown provider=%s", req.Provider)
		return nil, ErrUnknownProvider
	}

	// 2. Проверяем подпись и разбираем событие
	notification, err := parser.ParseWebhook(req.Payload, req.Header)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrIgnoredWebhookEvent):
			uc.logger.Info("ConfirmPayment: %s event ignored: %v", parser.Provider(), err)
			return &Response{Outcome: OutcomeIgnored}, nil
		case errors.Is(err, domain.ErrInvalidWebhookSignature):
			uc.logger.Warn("ConfirmPayment: %s webhook signature rejected: %v", parser.Provider(), err)
			return nil, ErrInvalidSignature
		default:
			uc.logger.Warn("ConfirmPayment: %s webhook payload rejected: %v", parser.Provider(), err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	}

	uc.logger.Info("ConfirmPayment: %s event=%s external_id=%s status=%s",
		notification.Provider, notification.EventType, notification.ExternalID, notification.Status)

	resp := &Response{Outcome: OutcomeIgnored}

	// 3. Статус платежа, бронирование и событие меняются в одной транзакции
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3.1. Ищем платёж с блокировкой строки
		payment, err := uc.paymentRepo.GetByExternalID(txCtx, notification.Provider, notification.ExternalID)
		if err != nil {
			if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
				uc.logger.Warn("ConfirmPayment: no payment for %s external_id=%s", notification.Provider, notification.ExternalID)
				return nil
			}
			return fmt.Errorf("%w: failed to get payment: %v", ErrInternal, err)
		}

		resp.PaymentID = payment.ID
		resp.BookingID = payment.BookingID

		// 3.2. Финальный статус не меняется
		if payment.IsFinal() {
			uc.logger.Info("ConfirmPayment: payment id=%s is already %s", payment.ID, payment.Status)
			resp.Outcome = OutcomeDuplicate
			resp.PaymentStatus = string(payment.Status)
			return nil
		}

		// 3.3. Обновляем статус платежа
		if err := uc.paymentRepo.UpdateStatus(txCtx, payment.ID, notification.Status); err != nil {
			return fmt.Errorf("%w: failed to update payment: %v", ErrInternal, err)
		}
		resp.Outcome = OutcomeProcessed
		resp.PaymentStatus = string(notification.Status)

		if notification.Status != domain.PaymentPaid {
			return nil
		}

		// 3.4. Подтверждаем бронирование, если оно ещё ждёт
		booking, confirmed, err := uc.confirmer.ConfirmAfterPayment(txCtx, payment.BookingID)
		if err != nil {
			return fmt.Errorf("%w: failed to confirm booking: %v", ErrInternal, err)
		}
		resp.BookingConfirmed = confirmed

		// 3.5. Событие об оплате для уведомлений
		event, err := domain.NewOutboxEvent(payment.ID, domain.EventPaymentConfirmed, domain.PaymentEventPayload{
			PaymentID: payment.ID,
			BookingID: payment.BookingID,
			EscortID:  booking.EscortID,
			ClientID:  booking.ClientID,
			Provider:  string(payment.Provider),
			Amount:    payment.Amount,
			Currency:  payment.Currency,
		}, uc.timeProvider.Now())
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		if err := uc.outboxRepo.Add(txCtx, event); err != nil {
			return fmt.Errorf("%w: failed to add outbox event: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		uc.logger.Error("ConfirmPayment: %s external_id=%s: %v", notification.Provider, notification.ExternalID, err)
		return nil, err
	}

	uc.logger.Info("ConfirmPayment: outcome=%s payment id=%s booking confirmed=%t", resp.Outcome, resp.PaymentID, resp.BookingConfirmed)
	return resp, nil
}
