package domain

// Time-slot generation
const (
	SlotStepMinutes    = 30
	MinLeadTimeMinutes = 60 // "today" slots start no earlier than now + 1h
)

// Business validation constants
const (
	MaxNotesLength   = 500
	MaxTimeSlots     = 96
	DefaultCurrency  = "usd"
	MaxMetadataItems = 20

	// MaxPaymentAmount bounds a single payment in major units; amount*100 stays far below int64
	MaxPaymentAmount = 1_000_000
)

// User roles returned by the user service
const (
	RoleClient = "CLIENT"
	RoleEscort = "ESCORT"
	RoleAdmin  = "ADMIN"
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses bookings that still hold their time range
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
