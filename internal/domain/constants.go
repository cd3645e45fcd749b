package domain

import "github.com/m04kA/SMC-SlotScheduler/pkg/types"

// Default configuration values
const (
	DefaultSlotStepMinutes         = 30
	DefaultAdvanceBookingDays      = 0  // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 60 // 1 hour

	DefaultMorningEndsAt   types.TimeString = "12:00"
	DefaultAfternoonEndsAt types.TimeString = "17:00"
)

// Business validation constants
const (
	MinSlotStepMinutes          = 5
	MaxSlotStepMinutes          = 240
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MinBookingNoticeMinutes     = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxCustomerNameLength       = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// AnyStaff is the staff selector meaning "whoever is free"
const AnyStaff = "any"

// OccupyingStatuses statuses that block staff time
// Используется при расчете слотов и в ограничении исключения в БД
var OccupyingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// InactiveStatuses statuses that do not block staff time
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusNoShow,
}
