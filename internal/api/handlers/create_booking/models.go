package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createBooking "github.com/m04kA/SMC-ReservationService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	EscortID    string  `json:"escortId"`
	ClientID    string  `json:"clientId"`
	Date        string  `json:"date"`      // "2025-10-15"
	StartTime   string  `json:"startTime"` // "10:00"
	EndTime     string  `json:"endTime"`   // "12:00"
	TotalAmount float64 `json:"totalAmount"`
	Notes       *string `json:"notes,omitempty"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Success bool            `json:"success"`
	Booking BookingResponse `json:"booking"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              string  `json:"id"`
	EscortID        string  `json:"escortId"`
	ClientID        string  `json:"clientId"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	TotalAmount     float64 `json:"totalAmount"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Форматы даты и времени проверяет use case, чтобы вернуть все ошибки полей разом
func (r *CreateBookingRequest) ToUseCaseRequest(callerID string) *createBooking.Request {
	return &createBooking.Request{
		CallerID:    callerID,
		EscortID:    r.EscortID,
		ClientID:    r.ClientID,
		Date:        r.Date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		TotalAmount: r.TotalAmount,
		Notes:       r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		Success: true,
		Booking: BookingResponse{
			ID:              resp.ID,
			EscortID:        resp.EscortID,
			ClientID:        resp.ClientID,
			Date:            resp.BookingDate.Format(domain.DateFormat),
			StartTime:       resp.StartTime.String(),
			EndTime:         resp.EndTime.String(),
			DurationMinutes: resp.DurationMinutes,
			Status:          resp.Status,
			TotalAmount:     resp.TotalAmount,
			Notes:           resp.Notes,
			CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
			UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
		},
	}
}
