package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модели

// ListBookingsRequest запрос на получение своих бронирований
type ListBookingsRequest struct {
	CallerID string  `json:"-"` // субъект JWT
	UserID   string  `json:"userId"`
	Role     string  `json:"role"` // client | escort
	Status   *string `json:"status,omitempty"`
}

// UpdateStatusRequest запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	CallerID   string `json:"-"` // субъект JWT
	CallerRole string `json:"-"` // роль из JWT, может быть пустой
	UserID     string `json:"userId"`
	Status     string `json:"status"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              string    `json:"id"`
	EscortID        string    `json:"escortId"`
	ClientID        string    `json:"clientId"`
	Date            string    `json:"date"`      // "2025-10-15"
	StartTime       string    `json:"startTime"` // "10:00"
	EndTime         string    `json:"endTime"`   // "12:00"
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	TotalAmount     float64   `json:"totalAmount"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:              b.ID,
		EscortID:        b.EscortID,
		ClientID:        b.ClientID,
		Date:            b.BookingDate.Format(domain.DateFormat),
		StartTime:       b.StartTime.String(),
		EndTime:         b.EndTime.String(),
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		TotalAmount:     b.TotalAmount,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}

	return resp
}
