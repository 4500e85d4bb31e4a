package media

// Range is a single contiguous time interval, in seconds.
type Range struct {
	Start float64
	End   float64
}

// TimeRanges is an ordered list of non-overlapping time intervals, mirroring the
// buffered/seekable ranges reported by a playback engine.
type TimeRanges []Range

// End returns the end of the last range, or 0 when empty.
func (tr TimeRanges) End() float64 {
	if len(tr) == 0 {
		return 0
	}
	return tr[len(tr)-1].End
}

// Contains reports whether the given position falls inside any range.
func (tr TimeRanges) Contains(seconds float64) bool {
	for _, r := range tr {
		if seconds >= r.Start && seconds <= r.End {
			return true
		}
	}
	return false
}

// Equal reports whether two range lists are identical.
func (tr TimeRanges) Equal(other TimeRanges) bool {
	if len(tr) != len(other) {
		return false
	}
	for i, r := range tr {
		if r != other[i] {
			return false
		}
	}
	return true
}
