package dateutil

// Range is an inclusive span of calendar days.
type Range struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

func NewRange(start, end Date) (Range, error) {
	if start.IsZero() || end.IsZero() {
		return Range{}, ErrInvalidDate
	}
	if end.Before(start) {
		return Range{}, ErrInvalidRange
	}
	return Range{Start: start, End: end}, nil
}

// ParseRange parses two YYYY-MM-DD strings into a Range.
func ParseRange(start, end string) (Range, error) {
	s, err := Parse(start)
	if err != nil {
		return Range{}, err
	}
	e, err := Parse(end)
	if err != nil {
		return Range{}, err
	}
	return NewRange(s, e)
}

// Year returns Jan 1 through Dec 31 of the given year.
func Year(year int) Range {
	return Range{Start: StartOfYear(year), End: EndOfYear(year)}
}

func (r Range) Contains(d Date) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days counts calendar days in r, both ends included.
func (r Range) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return r.Start.DaysUntil(r.End) + 1
}

// Overlap returns the intersection of r and o. ok is false when they are disjoint.
func (r Range) Overlap(o Range) (Range, bool) {
	start := Max(r.Start, o.Start)
	end := Min(r.End, o.End)
	if end.Before(start) {
		return Range{}, false
	}
	return Range{Start: start, End: end}, true
}

// OverlapDays is the number of days r and o have in common.
func (r Range) OverlapDays(o Range) int {
	ov, ok := r.Overlap(o)
	if !ok {
		return 0
	}
	return ov.Days()
}

func (r Range) String() string {
	return r.Start.String() + ".." + r.End.String()
}
