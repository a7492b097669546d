package get_time_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 14, hour, minute, 0, 0, time.UTC)
}

func TestGenerateTimeSlots_FullDay(t *testing.T) {
	slots := GenerateTimeSlots(at(0, 0), at(14, 5), false)

	require.Len(t, slots, 48)
	assert.Equal(t, types.TimeString("00:00"), slots[0])
	assert.Equal(t, types.TimeString("00:30"), slots[1])
	assert.Equal(t, types.TimeString("23:30"), slots[47])
}

func TestGenerateTimeSlots_FromCurrentTime(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantFirst types.TimeString
		wantLen   int
	}{
		{name: "on the hour", now: at(14, 0), wantFirst: "15:00", wantLen: 18},
		{name: "first half hour rounds to half", now: at(14, 5), wantFirst: "15:30", wantLen: 17},
		{name: "exactly half past", now: at(14, 30), wantFirst: "15:30", wantLen: 17},
		{name: "second half hour rounds to next hour", now: at(14, 31), wantFirst: "16:00", wantLen: 16},
		{name: "last slot of the day", now: at(22, 30), wantFirst: "23:30", wantLen: 1},
		{name: "early morning", now: at(0, 10), wantFirst: "01:30", wantLen: 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := GenerateTimeSlots(tt.now, tt.now, true)

			require.Len(t, slots, tt.wantLen)
			assert.Equal(t, tt.wantFirst, slots[0])
			assert.Equal(t, types.TimeString("23:30"), slots[len(slots)-1])
		})
	}
}

func TestGenerateTimeSlots_DoesNotWrapToNextDay(t *testing.T) {
	assert.Empty(t, GenerateTimeSlots(at(22, 45), at(22, 45), true))
	assert.Empty(t, GenerateTimeSlots(at(23, 0), at(23, 0), true))
	assert.Empty(t, GenerateTimeSlots(at(23, 59), at(23, 59), true))
}

func TestUseCase_Execute(t *testing.T) {
	uc := NewUseCase(fixedTime{t: at(14, 5)}, logger.NewNop())
	ctx := context.Background()

	t.Run("today starts from current time", func(t *testing.T) {
		resp, err := uc.Execute(ctx, &Request{Date: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)})

		require.NoError(t, err)
		require.NotEmpty(t, resp.Slots)
		assert.Equal(t, types.TimeString("15:30"), resp.Slots[0])
	})

	t.Run("future date returns the full grid", func(t *testing.T) {
		resp, err := uc.Execute(ctx, &Request{Date: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)})

		require.NoError(t, err)
		assert.Len(t, resp.Slots, 48)
	})

	t.Run("past date returns nothing", func(t *testing.T) {
		resp, err := uc.Execute(ctx, &Request{Date: time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)})

		require.NoError(t, err)
		assert.Empty(t, resp.Slots)
	})

	t.Run("date is required", func(t *testing.T) {
		_, err := uc.Execute(ctx, &Request{})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
