package domain

import "time"

// StaffAvailability is one staff member's working window and occupied intervals on a day
type StaffAvailability struct {
	StaffID int64
	Window  Interval
	Busy    []Interval
}

// NewStaffAvailability builds the availability of a staff member for one day.
// The working window is the intersection of the business day and the staff day
// (nil staffDay means the staff member follows business hours). Only occupying
// bookings of this staff member are taken into account. The second return value
// is false when the staff member does not work that day.
func NewStaffAvailability(staffID int64, businessDay DaySchedule, staffDay *DaySchedule, bookings []*Booking) (StaffAvailability, bool, error) {
	window, ok, err := businessDay.Window()
	if err != nil || !ok {
		return StaffAvailability{}, false, err
	}

	if staffDay != nil {
		own, ok, err := staffDay.Window()
		if err != nil || !ok {
			return StaffAvailability{}, false, err
		}
		if window, ok = window.Intersect(own); !ok {
			return StaffAvailability{}, false, nil
		}
	}

	busy := make([]Interval, 0)
	for _, b := range bookings {
		if b.StaffID != staffID || !b.IsOccupying() {
			continue
		}
		occupied, err := b.OccupiedInterval()
		if err != nil {
			return StaffAvailability{}, false, err
		}
		busy = append(busy, occupied)
	}

	return StaffAvailability{StaffID: staffID, Window: window, Busy: busy}, true, nil
}

// Fits reports whether an appointment of the given duration starting at start
// lies within the working window. The buffer may run past closing time.
func (s StaffAvailability) Fits(start, duration int) bool {
	return s.Window.Contains(Interval{Start: start, End: start + duration})
}

// IsFree reports whether [start, start+duration+buffer) overlaps no occupied interval
func (s StaffAvailability) IsFree(start, duration, buffer int) bool {
	candidate := Interval{Start: start, End: start + duration + buffer}
	for _, busy := range s.Busy {
		if candidate.Overlaps(busy) {
			return false
		}
	}
	return true
}

// LocalDay returns midnight of the calendar day of date in loc
func LocalDay(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// WithinBookingWindow reports whether day lies in [today, today+advanceDays].
// Both are taken in now's location; advanceDays 0 means no upper bound.
func WithinBookingWindow(day, now time.Time, advanceDays int) bool {
	today := LocalDay(now, now.Location())
	day = LocalDay(day, now.Location())

	if day.Before(today) {
		return false
	}
	if advanceDays > 0 && day.After(today.AddDate(0, 0, advanceDays)) {
		return false
	}
	return true
}

// MeetsNotice reports whether the slot starting at minute of day is at or after now + notice
func MeetsNotice(day time.Time, minute int, now time.Time, noticeMinutes int) bool {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, minute, 0, 0, day.Location())
	cutoff := now.Add(time.Duration(noticeMinutes) * time.Minute)
	return !start.Before(cutoff)
}

// OnGrid reports whether minute equals anchor + k*step for some k >= 0
func OnGrid(minute, anchor, step int) bool {
	if step <= 0 || minute < anchor {
		return false
	}
	return (minute-anchor)%step == 0
}

// BookingOverlap is a pair of occupying bookings of one staff member that overlap
type BookingOverlap struct {
	First  *Booking
	Second *Booking
}

// FindOverlaps returns overlapping pairs of occupying bookings of the same staff member.
// Such pairs must never exist in storage; callers report them and carry on.
func FindOverlaps(bookings []*Booking) []BookingOverlap {
	overlaps := make([]BookingOverlap, 0)
	for i := 0; i < len(bookings); i++ {
		a := bookings[i]
		if !a.IsOccupying() {
			continue
		}
		ai, err := a.OccupiedInterval()
		if err != nil {
			continue
		}
		for j := i + 1; j < len(bookings); j++ {
			b := bookings[j]
			if !b.IsOccupying() || b.StaffID != a.StaffID || !sameDate(a.BookingDate, b.BookingDate) {
				continue
			}
			bi, err := b.OccupiedInterval()
			if err != nil {
				continue
			}
			if ai.Overlaps(bi) {
				overlaps = append(overlaps, BookingOverlap{First: a, Second: b})
			}
		}
	}
	return overlaps
}

func sameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
