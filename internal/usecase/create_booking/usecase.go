package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	userClient "github.com/m04kA/SMC-ReservationService/internal/integrations/userservice"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	outboxRepo   OutboxRepository
	userClient   UserServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	outboxRepo OutboxRepository,
	userClient UserServiceClient,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		outboxRepo:   outboxRepo,
		userClient:   userClient,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка пересечений и запись идут в сериализуемой транзакции вместе с событием outbox
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%s, escort=%s, date=%s, time=%s-%s",
		req.ClientID, req.EscortID, req.Date, req.StartTime, req.EndTime)

	// 1. Получаем текущее время
	now := uc.timeProvider.Now()

	// 2. Валидация входных данных
	input, err := validateRequest(req, now)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 3. Бронировать можно только от своего имени
	if req.CallerID != req.ClientID {
		uc.logger.Warn("CreateBooking: user=%s tried to book for client=%s", req.CallerID, req.ClientID)
		return nil, ErrAccessDenied
	}

	// 4. Проверяем клиента
	if _, err := uc.findUser(ctx, req.ClientID, ErrClientNotFound); err != nil {
		return nil, err
	}

	// 5. Проверяем эскорта и его роль
	escort, err := uc.findUser(ctx, req.EscortID, ErrEscortNotFound)
	if err != nil {
		return nil, err
	}
	if escort.Role != domain.RoleEscort {
		uc.logger.Warn("CreateBooking: user=%s has role=%s, not an escort", req.EscortID, escort.Role)
		return nil, ErrEscortNotFound
	}

	var result *domain.Booking

	// 6. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Ищем активные бронирования эскорта, пересекающиеся с запрошенным интервалом (FOR UPDATE)
		overlapping, err := uc.bookingRepo.FindOverlapping(txCtx, req.EscortID, input.date, input.start, input.end)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to check overlapping bookings: %v", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			uc.logger.Warn("CreateBooking: escort=%s already has %d bookings at %s %s-%s",
				req.EscortID, len(overlapping), req.Date, input.start, input.end)
			return ErrTimeRangeTaken
		}

		// 6.2. Создаем бронирование в статусе PENDING
		booking := &domain.Booking{
			ID:              uuid.NewString(),
			EscortID:        req.EscortID,
			ClientID:        req.ClientID,
			BookingDate:     input.date,
			StartTime:       input.start,
			EndTime:         input.end,
			DurationMinutes: domain.DurationMinutesBetween(input.start, input.end),
			Status:          domain.StatusPending,
			TotalAmount:     req.TotalAmount,
			Notes:           req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 6.3. Событие для уведомлений фиксируется в той же транзакции
		event, err := domain.NewOutboxEvent(created.ID, domain.EventBookingCreated, domain.NewBookingEventPayload(created), now)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		if err := uc.outboxRepo.Add(txCtx, event); err != nil {
			uc.logger.Error("CreateBooking: failed to add outbox event: %v", err)
			return fmt.Errorf("%w: failed to add outbox event: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s", result.ID)

	return &Response{
		ID:              result.ID,
		EscortID:        result.EscortID,
		ClientID:        result.ClientID,
		BookingDate:     result.BookingDate,
		StartTime:       result.StartTime,
		EndTime:         result.EndTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		TotalAmount:     result.TotalAmount,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

func (uc *UseCase) findUser(ctx context.Context, userID string, notFound error) (*userClient.User, error) {
	user, err := uc.userClient.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("CreateBooking: user id=%s not found", userID)
			return nil, notFound
		}
		uc.logger.Error("CreateBooking: failed to get user id=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}
	return user, nil
}
