package valueobject

import "time"

// BoundaryWindow is an operating day or week. End is the last millisecond
// inside the window; the window covers [Start, End+1ms).
type BoundaryWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewBoundaryWindow builds the inclusive-end window of the given length starting at start
func NewBoundaryWindow(start time.Time, length time.Duration) BoundaryWindow {
	start = start.UTC()
	return BoundaryWindow{
		Start: start,
		End:   start.Add(length - time.Millisecond),
	}
}

// ExclusiveEnd returns the first instant after the window, i.e. the next boundary
func (w BoundaryWindow) ExclusiveEnd() time.Time {
	return w.End.Add(time.Millisecond)
}

// Length returns the span between Start and the next boundary
func (w BoundaryWindow) Length() time.Duration {
	return w.ExclusiveEnd().Sub(w.Start)
}

// Contains reports whether t falls in [Start, ExclusiveEnd)
func (w BoundaryWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.ExclusiveEnd())
}
