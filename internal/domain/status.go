package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownStatus is returned when a string is not a booking status
	ErrUnknownStatus = errors.New("unknown booking status")

	// ErrInvalidTransition is returned when the status table has no edge from -> to
	ErrInvalidTransition = errors.New("invalid booking status transition")
)

// allowedTransitions is the booking life-cycle.
// CANCELLED and COMPLETED are terminal.
var allowedTransitions = map[BookingStatus]map[BookingStatus]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusCompleted: true, StatusCancelled: true},
	StatusCancelled: {},
	StatusCompleted: {},
}

// ParseBookingStatus validates a status coming from a request
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if _, ok := allowedTransitions[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

// CanTransitionTo reports whether the status table has an edge to next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return allowedTransitions[s][next]
}

// IsTerminal returns true for statuses without outgoing edges
func (s BookingStatus) IsTerminal() bool {
	edges, ok := allowedTransitions[s]
	return ok && len(edges) == 0
}

// Transition validates the edge and returns the new status
func (s BookingStatus) Transition(next BookingStatus) (BookingStatus, error) {
	if !s.CanTransitionTo(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return next, nil
}
