package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ReservationService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

// Role values accepted by List
const (
	RoleClient = "client"
	RoleEscort = "escort"
)

// actorCheck проверяет, может ли пользователь выполнить переход над бронированием
type actorCheck func(booking *domain.Booking) error

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	outboxRepo   OutboxRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	outboxRepo OutboxRepository,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		outboxRepo:   outboxRepo,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Бронирование видят только его клиент и эскорт
func (s *Service) GetByID(ctx context.Context, id string, userID string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !booking.IsParticipant(userID) {
		s.logger.Warn("GetByID: access denied for user=%s to booking id=%s", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return models.FromDomainBooking(booking), nil
}

// List получает бронирования пользователя в роли клиента или эскорта
// Опционально фильтрует по статусу
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("List: fetching bookings for user=%s, role=%s, status=%q", req.UserID, req.Role, ptr.Value(req.Status))

	if req.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	if req.UserID != req.CallerID {
		s.logger.Warn("List: user=%s tried to list bookings of user=%s", req.CallerID, req.UserID)
		return nil, ErrAccessDenied
	}

	var filter domain.BookingsFilter
	switch req.Role {
	case RoleClient:
		filter.ClientID = &req.UserID
	case RoleEscort:
		filter.EscortID = &req.UserID
	default:
		return nil, fmt.Errorf("%w: role must be %q or %q", ErrInvalidInput, RoleClient, RoleEscort)
	}

	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("List: invalid status=%s for user=%s", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: %v", ErrUnknownStatus, err)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d bookings for user=%s", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus переводит бронирование в запрошенный статус
// userId в теле должен совпадать с аутентифицированным пользователем
func (s *Service) UpdateStatus(ctx context.Context, bookingID string, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: booking id=%s to status=%s by user=%s", bookingID, req.Status, req.UserID)

	if req.UserID == "" || req.UserID != req.CallerID {
		s.logger.Warn("UpdateStatus: userId=%s does not match caller=%s", req.UserID, req.CallerID)
		return nil, ErrAccessDenied
	}

	status, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: unknown status=%s for booking id=%s", req.Status, bookingID)
		return nil, fmt.Errorf("%w: %v", ErrUnknownStatus, err)
	}

	// Роль в токене, если она есть, должна совпадать с ролью, которой разрешён переход
	if (status == domain.StatusConfirmed || status == domain.StatusCompleted) &&
		req.CallerRole != "" && req.CallerRole != domain.RoleEscort {
		s.logger.Warn("UpdateStatus: role=%s cannot move booking id=%s to %s", req.CallerRole, bookingID, status)
		return nil, ErrAccessDenied
	}

	var booking *domain.Booking
	switch status {
	case domain.StatusConfirmed:
		booking, err = s.Confirm(ctx, bookingID, req.UserID)
	case domain.StatusCancelled:
		booking, err = s.Cancel(ctx, bookingID, req.UserID)
	case domain.StatusCompleted:
		booking, err = s.Complete(ctx, bookingID, req.UserID)
	default:
		// PENDING - начальный статус, в него не переходят
		s.logger.Warn("UpdateStatus: transition to %s requested for booking id=%s", status, bookingID)
		return nil, fmt.Errorf("%w: cannot move a booking back to %s", ErrInvalidTransition, status)
	}
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// Confirm подтверждает бронирование (только эскорт)
func (s *Service) Confirm(ctx context.Context, bookingID, actorID string) (*domain.Booking, error) {
	return s.transition(ctx, bookingID, domain.StatusConfirmed, s.onlyEscort(actorID))
}

// Cancel отменяет бронирование (клиент или эскорт)
func (s *Service) Cancel(ctx context.Context, bookingID, actorID string) (*domain.Booking, error) {
	return s.transition(ctx, bookingID, domain.StatusCancelled, func(b *domain.Booking) error {
		if !b.IsParticipant(actorID) {
			s.logger.Warn("Cancel: user=%s is not a participant of booking id=%s", actorID, b.ID)
			return ErrAccessDenied
		}
		return nil
	})
}

// Complete завершает бронирование (только эскорт)
func (s *Service) Complete(ctx context.Context, bookingID, actorID string) (*domain.Booking, error) {
	return s.transition(ctx, bookingID, domain.StatusCompleted, s.onlyEscort(actorID))
}

// ConfirmAfterPayment подтверждает бронирование от имени системы после оплаты
// Подтверждается только PENDING бронирование; для остальных статусов возвращается confirmed=false без ошибки
// Вызывается внутри транзакции обработки webhook и присоединяется к ней
func (s *Service) ConfirmAfterPayment(ctx context.Context, bookingID string) (*domain.Booking, bool, error) {
	var booking *domain.Booking
	confirmed := false

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.getBooking(txCtx, "ConfirmAfterPayment", bookingID)
		if err != nil {
			return err
		}

		if current.Status != domain.StatusPending {
			s.logger.Info("ConfirmAfterPayment: booking id=%s is %s, leaving as is", bookingID, current.Status)
			booking = current
			return nil
		}

		booking, err = s.applyTransition(txCtx, current, domain.StatusConfirmed)
		if err != nil {
			return err
		}
		confirmed = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return booking, confirmed, nil
}

// transition выполняет переход в транзакции: блокировка строки, проверка прав, проверка таблицы переходов,
// условное обновление и событие outbox
func (s *Service) transition(ctx context.Context, bookingID string, next domain.BookingStatus, check actorCheck) (*domain.Booking, error) {
	var updated *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, "transition", bookingID)
		if err != nil {
			return err
		}

		if err := check(booking); err != nil {
			return err
		}

		updated, err = s.applyTransition(txCtx, booking, next)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transition: booking id=%s is now %s", bookingID, updated.Status)
	return updated, nil
}

func (s *Service) applyTransition(ctx context.Context, booking *domain.Booking, next domain.BookingStatus) (*domain.Booking, error) {
	if booking.Status.IsTerminal() {
		s.logger.Warn("transition: booking id=%s is already %s", booking.ID, booking.Status)
		return nil, fmt.Errorf("%w: booking is already %s", ErrInvalidTransition, booking.Status)
	}
	if _, err := booking.Status.Transition(next); err != nil {
		s.logger.Warn("transition: booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, next)
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, booking.ID, booking.Status, next)
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrStatusConflict):
			s.logger.Warn("transition: booking id=%s changed concurrently", booking.ID)
			return nil, fmt.Errorf("%w: booking status changed concurrently", ErrInvalidTransition)
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			return nil, ErrBookingNotFound
		default:
			s.logger.Error("transition: repository error for booking id=%s: %v", booking.ID, err)
			return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}
	}

	event, err := domain.NewOutboxEvent(updated.ID, domain.StatusEventType(next), domain.NewBookingEventPayload(updated), s.timeProvider.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if err := s.outboxRepo.Add(ctx, event); err != nil {
		s.logger.Error("transition: failed to add outbox event for booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: outbox - repository error: %v", ErrInternal, err)
	}

	return updated, nil
}

func (s *Service) onlyEscort(actorID string) actorCheck {
	return func(b *domain.Booking) error {
		if b.EscortID != actorID {
			s.logger.Warn("transition: user=%s is not the escort of booking id=%s", actorID, b.ID)
			return ErrAccessDenied
		}
		return nil
	}
}

func (s *Service) getBooking(ctx context.Context, op, id string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}
