package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Availability is a provider's set of time slots for one calendar date.
// (ProviderID, Date) is unique.
type Availability struct {
	ID         int64
	ProviderID string
	Date       time.Time
	TimeSlots  []TimeSlot
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TimeSlot is an interval inside an availability record that can be marked available/unavailable
type TimeSlot struct {
	ID          string           `json:"id"`
	StartTime   types.TimeString `json:"startTime"`
	EndTime     types.TimeString `json:"endTime"`
	IsAvailable bool             `json:"isAvailable"`
}

// AvailableSlots returns the slots currently open for booking
func (a *Availability) AvailableSlots() []TimeSlot {
	result := make([]TimeSlot, 0, len(a.TimeSlots))
	for _, slot := range a.TimeSlots {
		if slot.IsAvailable {
			result = append(result, slot)
		}
	}
	return result
}

// AvailabilityFilter filters availability records; nil fields match everything
type AvailabilityFilter struct {
	ProviderID *string
	Date       *time.Time
}
