package get_time_slots

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на получение сетки слотов
type Request struct {
	Date time.Time // Дата без времени
}

// Response модель ответа со списком слотов
type Response struct {
	Date  time.Time          // Дата, на которую запрашивались слоты
	Slots []types.TimeString // Начала 30-минутных слотов
}
