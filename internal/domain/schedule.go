package domain

import (
	"time"

	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// DaySchedule is the working window of one weekday
type DaySchedule struct {
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// Window returns the working interval in minutes since midnight.
// A closed day, or one whose close is not after open, has no window.
func (d DaySchedule) Window() (Interval, bool, error) {
	if !d.IsOpen || d.OpenTime.IsZero() || d.CloseTime.IsZero() {
		return Interval{}, false, nil
	}
	open, err := d.OpenTime.Minutes()
	if err != nil {
		return Interval{}, false, err
	}
	closeAt, err := d.CloseTime.Minutes()
	if err != nil {
		return Interval{}, false, err
	}
	if closeAt <= open {
		return Interval{}, false, nil
	}
	return Interval{Start: open, End: closeAt}, true, nil
}

// WeeklySchedule holds working hours for every day of the week
type WeeklySchedule struct {
	Monday    DaySchedule
	Tuesday   DaySchedule
	Wednesday DaySchedule
	Thursday  DaySchedule
	Friday    DaySchedule
	Saturday  DaySchedule
	Sunday    DaySchedule
}

// ForWeekday returns the schedule for the given weekday
func (w WeeklySchedule) ForWeekday(day time.Weekday) DaySchedule {
	switch day {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DaySchedule{}
	}
}
