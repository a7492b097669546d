package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на создание бронирования
// Поля приходят строками из JSON и валидируются в usecase
type Request struct {
	CallerID    string  // ID аутентифицированного пользователя
	EscortID    string  // ID эскорта
	ClientID    string  // ID клиента
	Date        string  // Дата бронирования "YYYY-MM-DD"
	StartTime   string  // Время начала "HH:MM"
	EndTime     string  // Время окончания "HH:MM"
	TotalAmount float64 // Стоимость
	Notes       *string // Заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              string
	EscortID        string
	ClientID        string
	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          string
	TotalAmount     float64
	Notes           *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// validated нормализованные данные запроса
type validated struct {
	date  time.Time
	start types.TimeString
	end   types.TimeString
}
