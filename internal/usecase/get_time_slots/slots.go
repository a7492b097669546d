package get_time_slots

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

const minutesPerDay = 24 * 60

// GenerateTimeSlots генерирует начала слотов с шагом SlotStepMinutes
// fromCurrentTime=false: вся сетка дня 00:00 ... 23:30
// fromCurrentTime=true: первый слот = now + MinLeadTimeMinutes, минуты округляются вверх до шага;
// если округление уходит на 24:00 и дальше, слотов нет (на следующие сутки не переносим)
func GenerateTimeSlots(date, now time.Time, fromCurrentTime bool) []types.TimeString {
	start := 0
	if fromCurrentTime {
		start = firstSlotMinutes(now)
	}
	if start >= minutesPerDay {
		return []types.TimeString{}
	}

	slots := make([]types.TimeString, 0, (minutesPerDay-start)/domain.SlotStepMinutes+1)
	for minutes := start; minutes < minutesPerDay; minutes += domain.SlotStepMinutes {
		slot, err := types.NewTimeStringFromMinutes(minutes)
		if err != nil {
			break
		}
		slots = append(slots, slot)
	}

	return slots
}

// firstSlotMinutes минута суток первого слота для "сегодня"
// :00 остаётся, :01-:30 -> :30, :31-:59 -> следующий час
func firstSlotMinutes(now time.Time) int {
	earliest := now.Hour()*60 + now.Minute() + domain.MinLeadTimeMinutes

	rem := earliest % domain.SlotStepMinutes
	if rem == 0 {
		return earliest
	}
	return earliest + domain.SlotStepMinutes - rem
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}
