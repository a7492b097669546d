package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модели

// ListRequest фильтр выборки; пустые поля не фильтруют
type ListRequest struct {
	ProviderID *string
	Date       *string // YYYY-MM-DD
}

// TimeSlotDTO слот в запросе и ответе
type TimeSlotDTO struct {
	ID          string `json:"id,omitempty"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
}

// UpsertRequest запрос на создание/замену доступности на дату
type UpsertRequest struct {
	CallerID   string        `json:"-"` // субъект JWT
	ProviderID string        `json:"providerId"`
	Date       string        `json:"date"`
	TimeSlots  []TimeSlotDTO `json:"timeSlots"`
}

// DeleteRequest запрос на удаление доступности на дату
type DeleteRequest struct {
	CallerID   string
	ProviderID string
	Date       string
}

// Response модели

// AvailabilityResponse запись о доступности
type AvailabilityResponse struct {
	ID         int64         `json:"id"`
	ProviderID string        `json:"providerId"`
	Date       string        `json:"date"`
	TimeSlots  []TimeSlotDTO `json:"timeSlots"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// DeleteResponse результат удаления
type DeleteResponse struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}

// FromDomainAvailability конвертирует domain модель в DTO
func FromDomainAvailability(a *domain.Availability) *AvailabilityResponse {
	if a == nil {
		return nil
	}

	slots := make([]TimeSlotDTO, 0, len(a.TimeSlots))
	for _, s := range a.TimeSlots {
		slots = append(slots, TimeSlotDTO{
			ID:          s.ID,
			StartTime:   s.StartTime.String(),
			EndTime:     s.EndTime.String(),
			IsAvailable: s.IsAvailable,
		})
	}

	return &AvailabilityResponse{
		ID:         a.ID,
		ProviderID: a.ProviderID,
		Date:       a.Date.Format(domain.DateFormat),
		TimeSlots:  slots,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// FromDomainAvailabilityList конвертирует список domain моделей в DTO
func FromDomainAvailabilityList(list []*domain.Availability) []AvailabilityResponse {
	resp := make([]AvailabilityResponse, 0, len(list))
	for _, a := range list {
		resp = append(resp, *FromDomainAvailability(a))
	}
	return resp
}
