package get_time_slots

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// UseCase use case для получения сетки временных слотов на дату
type UseCase struct {
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(timeProvider TimeProvider, logger Logger) *UseCase {
	return &UseCase{
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(_ context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if req == nil || req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	uc.logger.Info("GetTimeSlots: date=%s", req.Date.Format(domain.DateFormat))

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Для прошедших дат слотов нет
	if isDateInPast(req.Date, now) {
		uc.logger.Info("GetTimeSlots: date=%s is in the past", req.Date.Format(domain.DateFormat))
		return &Response{Date: req.Date, Slots: []types.TimeString{}}, nil
	}

	// 4. Для сегодняшней даты сетка начинается от текущего времени
	slots := GenerateTimeSlots(req.Date, now, isSameDay(req.Date, now))

	uc.logger.Info("GetTimeSlots: generated %d slots for date=%s", len(slots), req.Date.Format(domain.DateFormat))

	return &Response{
		Date:  req.Date,
		Slots: slots,
	}, nil
}
