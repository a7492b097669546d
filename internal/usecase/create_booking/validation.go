package create_booking

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
	"github.com/m04kA/SMC-ReservationService/pkg/validation"
)

// validateRequest валидирует входные данные запроса
// Все ошибки собираются в одну InputError, чтобы клиент увидел весь список полей
func validateRequest(req *Request, now time.Time) (*validated, error) {
	inputErr := validation.NewInputError()
	result := &validated{}

	if strings.TrimSpace(req.EscortID) == "" {
		inputErr.Add("escortId", "is required")
	}
	if strings.TrimSpace(req.ClientID) == "" {
		inputErr.Add("clientId", "is required")
	}
	if req.EscortID != "" && req.EscortID == req.ClientID {
		inputErr.Add("escortId", "must differ from clientId")
	}

	dateOK := false
	if req.Date == "" {
		inputErr.Add("date", "is required")
	} else if date, err := time.Parse(domain.DateFormat, req.Date); err != nil {
		inputErr.Add("date", "must be in YYYY-MM-DD format")
	} else if isDateInPast(date, now) {
		inputErr.Add("date", "must not be in the past")
	} else {
		result.date = date
		dateOK = true
	}

	startOK := parseTime(inputErr, "startTime", req.StartTime, &result.start)
	endOK := parseTime(inputErr, "endTime", req.EndTime, &result.end)
	if startOK && endOK && !result.start.IsBefore(result.end) {
		inputErr.Add("endTime", "must be after startTime")
	}
	if dateOK && startOK && hasStarted(result.date, result.start, now) {
		inputErr.Add("startTime", "must be in the future")
	}

	if req.TotalAmount <= 0 {
		inputErr.Add("totalAmount", "must be greater than 0")
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		inputErr.Add("notes", fmt.Sprintf("must be at most %d characters", domain.MaxNotesLength))
	}

	if err := inputErr.OrNil(); err != nil {
		return nil, err
	}
	return result, nil
}

func parseTime(inputErr *validation.InputError, field, value string, dst *types.TimeString) bool {
	if value == "" {
		inputErr.Add(field, "is required")
		return false
	}
	ts, err := types.NewTimeStringFromString(value)
	if err != nil {
		inputErr.Add(field, "must be in HH:MM format")
		return false
	}
	*dst = ts
	return true
}

// hasStarted проверяет, что начало бронирования на сегодня уже наступило
// Дата без часового пояса трактуется в часовом поясе сервера (now)
func hasStarted(date time.Time, start types.TimeString, now time.Time) bool {
	local := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	return !start.OnDate(local).After(now)
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(nowOnly)
}
