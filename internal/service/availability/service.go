package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/availability/models"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
	"github.com/m04kA/SMC-ReservationService/pkg/validation"
)

// Service сервис доступности исполнителей
type Service struct {
	repo   AvailabilityRepository
	cache  Cache
	logger Logger
}

// NewService создает новый экземпляр сервиса доступности
// cache может быть nil - тогда все чтения идут в БД
func NewService(repo AvailabilityRepository, cache Cache, logger Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// List возвращает записи о доступности по фильтру
// Сначала смотрит в кэш; ошибки Redis не ломают запрос, чтение уходит в БД
func (s *Service) List(ctx context.Context, req *models.ListRequest) ([]models.AvailabilityResponse, error) {
	filter, err := parseFilter(req)
	if err != nil {
		return nil, err
	}

	// Поколение запоминается до чтения из БД; Set под ним не перекроет запись, случившуюся между ними
	cacheable := false
	var gen int64
	if s.cache != nil {
		cached, cachedGen, found, err := s.cache.Get(ctx, filter)
		switch {
		case err != nil:
			s.logger.Warn("List: cache read failed, falling back to database: %v", err)
		case found:
			return models.FromDomainAvailabilityList(cached), nil
		default:
			cacheable, gen = true, cachedGen
		}
	}

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	if cacheable {
		if err := s.cache.Set(ctx, filter, gen, list); err != nil {
			s.logger.Warn("List: cache write failed: %v", err)
		}
	}

	s.logger.Info("List: fetched %d availability records", len(list))
	return models.FromDomainAvailabilityList(list), nil
}

// Upsert создаёт или полностью заменяет доступность исполнителя на дату
func (s *Service) Upsert(ctx context.Context, req *models.UpsertRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("Upsert: provider=%s, date=%s, slots=%d", req.ProviderID, req.Date, len(req.TimeSlots))

	availability, err := buildAvailability(req)
	if err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	if req.CallerID != req.ProviderID {
		s.logger.Warn("Upsert: user=%s tried to change availability of provider=%s", req.CallerID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	saved, err := s.repo.Upsert(ctx, availability)
	if err != nil {
		s.logger.Error("Upsert: repository error for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.invalidate(ctx, "Upsert")

	s.logger.Info("Upsert: stored availability id=%d for provider=%s", saved.ID, saved.ProviderID)
	return models.FromDomainAvailability(saved), nil
}

// Delete удаляет доступность исполнителя на дату
// Если записи нет, запрос всё равно успешен с deleted=0
func (s *Service) Delete(ctx context.Context, req *models.DeleteRequest) (*models.DeleteResponse, error) {
	s.logger.Info("Delete: provider=%s, date=%s", req.ProviderID, req.Date)

	inputErr := validation.NewInputError()
	if req.ProviderID == "" {
		inputErr.Add("providerId", "is required")
	}
	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		inputErr.Add("date", "must be in YYYY-MM-DD format")
	}
	if err := inputErr.OrNil(); err != nil {
		return nil, err
	}

	if req.CallerID != req.ProviderID {
		s.logger.Warn("Delete: user=%s tried to delete availability of provider=%s", req.CallerID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	deleted, err := s.repo.Delete(ctx, req.ProviderID, date)
	if err != nil {
		s.logger.Error("Delete: repository error for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	if deleted > 0 {
		s.invalidate(ctx, "Delete")
	}

	s.logger.Info("Delete: removed %d records for provider=%s, date=%s", deleted, req.ProviderID, req.Date)
	return &models.DeleteResponse{Success: true, Deleted: deleted}, nil
}

func (s *Service) invalidate(ctx context.Context, op string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("%s: cache invalidation failed: %v", op, err)
	}
}

func parseFilter(req *models.ListRequest) (domain.AvailabilityFilter, error) {
	var filter domain.AvailabilityFilter
	if req == nil {
		return filter, nil
	}

	if req.ProviderID != nil && *req.ProviderID != "" {
		filter.ProviderID = req.ProviderID
	}
	if req.Date != nil && *req.Date != "" {
		date, err := time.Parse(domain.DateFormat, *req.Date)
		if err != nil {
			inputErr := validation.NewInputError()
			inputErr.Add("date", "must be in YYYY-MM-DD format")
			return filter, inputErr
		}
		filter.Date = &date
	}

	return filter, nil
}

// buildAvailability валидирует запрос и собирает domain модель; все ошибки собираются в одну InputError
func buildAvailability(req *models.UpsertRequest) (*domain.Availability, error) {
	inputErr := validation.NewInputError()

	if req.ProviderID == "" {
		inputErr.Add("providerId", "is required")
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		inputErr.Add("date", "must be in YYYY-MM-DD format")
	}

	if len(req.TimeSlots) > domain.MaxTimeSlots {
		inputErr.Add("timeSlots", fmt.Sprintf("must contain at most %d slots", domain.MaxTimeSlots))
	}

	slots := make([]domain.TimeSlot, 0, len(req.TimeSlots))
	for i, dto := range req.TimeSlots {
		field := fmt.Sprintf("timeSlots[%d]", i)

		start, startErr := types.NewTimeStringFromString(dto.StartTime)
		if startErr != nil {
			inputErr.Add(field+".startTime", "must be in HH:MM format")
		}
		end, endErr := types.NewTimeStringFromString(dto.EndTime)
		if endErr != nil {
			inputErr.Add(field+".endTime", "must be in HH:MM format")
		}
		if startErr == nil && endErr == nil && !start.IsBefore(end) {
			inputErr.Add(field, "startTime must be before endTime")
		}

		id := dto.ID
		if id == "" {
			id = uuid.NewString()
		}

		slots = append(slots, domain.TimeSlot{
			ID:          id,
			StartTime:   start,
			EndTime:     end,
			IsAvailable: dto.IsAvailable,
		})
	}

	if err := inputErr.OrNil(); err != nil {
		return nil, err
	}

	return &domain.Availability{
		ProviderID: req.ProviderID,
		Date:       date,
		TimeSlots:  slots,
	}, nil
}
