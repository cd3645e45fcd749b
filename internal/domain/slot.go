package domain

import "github.com/m04kA/SMC-SlotScheduler/pkg/types"

// Period is a part of the day slots are grouped into
type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
	PeriodEvening   Period = "evening"
)

// TimeSlot is a candidate start time for an appointment
type TimeSlot struct {
	Time      types.TimeString
	Label     string
	Available bool
}

// SlotsByPeriod groups slots of one day by period, each ordered by time
type SlotsByPeriod struct {
	Morning   []TimeSlot
	Afternoon []TimeSlot
	Evening   []TimeSlot
}

// NewSlotsByPeriod returns empty, non-nil buckets
func NewSlotsByPeriod() SlotsByPeriod {
	return SlotsByPeriod{
		Morning:   []TimeSlot{},
		Afternoon: []TimeSlot{},
		Evening:   []TimeSlot{},
	}
}

// Add appends a slot to the bucket of the given period
func (s *SlotsByPeriod) Add(period Period, slot TimeSlot) {
	switch period {
	case PeriodMorning:
		s.Morning = append(s.Morning, slot)
	case PeriodAfternoon:
		s.Afternoon = append(s.Afternoon, slot)
	default:
		s.Evening = append(s.Evening, slot)
	}
}

// PeriodCounts holds the number of available slots per period
type PeriodCounts struct {
	Morning   int
	Afternoon int
	Evening   int
}

// Total returns the number of available slots of the day
func (c PeriodCounts) Total() int {
	return c.Morning + c.Afternoon + c.Evening
}

// Counts returns the number of available slots in each period
func (s SlotsByPeriod) Counts() PeriodCounts {
	return PeriodCounts{
		Morning:   countAvailable(s.Morning),
		Afternoon: countAvailable(s.Afternoon),
		Evening:   countAvailable(s.Evening),
	}
}

// Len returns the number of listed slots, available or not
func (s SlotsByPeriod) Len() int {
	return len(s.Morning) + len(s.Afternoon) + len(s.Evening)
}

// All returns every slot of the day in time order
func (s SlotsByPeriod) All() []TimeSlot {
	all := make([]TimeSlot, 0, s.Len())
	all = append(all, s.Morning...)
	all = append(all, s.Afternoon...)
	return append(all, s.Evening...)
}

func countAvailable(slots []TimeSlot) int {
	n := 0
	for _, slot := range slots {
		if slot.Available {
			n++
		}
	}
	return n
}
