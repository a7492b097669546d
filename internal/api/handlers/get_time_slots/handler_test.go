package get_time_slots

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getTimeSlots "github.com/m04kA/SMC-ReservationService/internal/usecase/get_time_slots"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func newHandler() *Handler {
	now := time.Date(2026, 5, 10, 21, 10, 0, 0, time.UTC)
	return NewHandler(getTimeSlots.NewUseCase(fixedTime{t: now}, logger.NewNop()), logger.NewNop())
}

func get(h *Handler, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/time-slots"+query, nil)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_Slots(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		wantFirst string
		wantCount int
	}{
		{name: "today starts an hour from now", date: "2026-05-10", wantFirst: "22:30", wantCount: 3},
		{name: "future date is a full day", date: "2026-05-11", wantFirst: "00:00", wantCount: 48},
		{name: "past date is empty", date: "2026-05-09", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(newHandler(), "?date="+tt.date)

			require.Equal(t, http.StatusOK, rec.Code)
			var resp TimeSlotsResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.date, resp.Date)
			require.Len(t, resp.Slots, tt.wantCount)
			if tt.wantCount > 0 {
				assert.Equal(t, tt.wantFirst, resp.Slots[0])
			}
		})
	}
}

func TestHandler_BadDate(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, get(newHandler(), "").Code)
	assert.Equal(t, http.StatusBadRequest, get(newHandler(), "?date=10.05.2026").Code)
	assert.Equal(t, http.StatusBadRequest, get(newHandler(), "?date=2026-02-30").Code)
}

func TestHandler_EmptyListIsArray(t *testing.T) {
	rec := get(newHandler(), "?date=2020-01-01")

	assert.JSONEq(t, `{"date":"2020-01-01","slots":[]}`, rec.Body.String())
}
