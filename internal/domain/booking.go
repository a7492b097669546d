package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusCompleted BookingStatus = "COMPLETED"
)

// Booking represents a reservation of an escort by a client for a time range on one date
type Booking struct {
	ID              string
	EscortID        string
	ClientID        string
	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int // derived from StartTime/EndTime
	Status          BookingStatus
	TotalAmount     float64
	Notes           *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still holds its time range
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsParticipant returns true if the user is the client or the escort of the booking
func (b *Booking) IsParticipant(userID string) bool {
	return userID != "" && (b.ClientID == userID || b.EscortID == userID)
}

// Overlaps returns true if [start, end) intersects the booking's range.
// Touching ranges (one ends exactly where the other starts) do not overlap.
func (b *Booking) Overlaps(start, end types.TimeString) bool {
	return b.StartTime.IsBefore(end) && b.EndTime.IsAfter(start)
}

// DurationMinutesBetween derives a booking duration from its start and end time
func DurationMinutesBetween(start, end types.TimeString) int {
	return start.MinutesUntil(end)
}

// BookingsFilter filters bookings in the repository.
// Nil fields are not applied.
type BookingsFilter struct {
	EscortID   *string
	ClientID   *string
	Date       *time.Time
	Status     *BookingStatus
	ActiveOnly bool // only PENDING and CONFIRMED
}
