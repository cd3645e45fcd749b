package domain

import (
	"time"

	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// IsValid returns true if the status is one of the known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsOccupying returns true if a booking with this status blocks staff time
func (s BookingStatus) IsOccupying() bool {
	for _, occupying := range OccupyingStatuses {
		if s == occupying {
			return true
		}
	}
	return false
}

// CancelledBy tells who cancelled a booking
type CancelledBy string

const (
	CancelledByCustomer CancelledBy = "customer"
	CancelledByBusiness CancelledBy = "business"
	CancelledBySystem   CancelledBy = "system"
)

// Booking represents an appointment of a customer with a staff member
type Booking struct {
	ID              int64
	BusinessID      int64
	StaffID         int64
	ServiceID       int64
	CustomerID      int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	BufferMinutes   int
	Status          BookingStatus

	// Denormalized data for history
	CustomerName  string
	CustomerPhone *string
	ServiceName   string
	ServicePrice  float64
	Notes         *string

	CancellationReason *string
	CancelledBy        *CancelledBy
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOccupying returns true if the booking blocks staff time
func (b *Booking) IsOccupying() bool {
	return b.Status.IsOccupying()
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanTransitionTo reports whether a manager may move the booking to the given status
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch b.Status {
	case StatusPending:
		return next == StatusConfirmed
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusNoShow
	}
	return false
}

// OccupiedInterval returns the half-open interval [start, end) in minutes since midnight
// that the booking blocks: duration plus the buffer stored with the booking.
func (b *Booking) OccupiedInterval() (Interval, error) {
	start, err := b.StartTime.Minutes()
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: start + b.DurationMinutes + b.BufferMinutes}, nil
}

// BookingsFilter фильтр для получения бронирований бизнеса
type BookingsFilter struct {
	BusinessID      int64          // Обязательный параметр
	StaffIDs        []int64        // Фильтр по мастерам (пустой - все)
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные и no-show
}
