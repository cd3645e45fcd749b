package domain

// Interval is a half-open range [Start, End) in minutes since local midnight
type Interval struct {
	Start int
	End   int
}

// Overlaps returns true if the two intervals share at least one minute.
// Intervals that only touch at a boundary do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Contains returns true if other lies entirely within i
func (i Interval) Contains(other Interval) bool {
	return other.Start >= i.Start && other.End <= i.End
}

// Intersect returns the common part of two intervals and false if it is empty
func (i Interval) Intersect(other Interval) (Interval, bool) {
	res := Interval{Start: max(i.Start, other.Start), End: min(i.End, other.End)}
	if res.Start >= res.End {
		return Interval{}, false
	}
	return res, true
}
