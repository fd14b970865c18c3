package service

import (
	"time"

	"github.com/ca-srg/opday/domain"
	"github.com/ca-srg/opday/domain/valueobject"
)

const (
	// DayLength is the span of one operating day
	DayLength = 24 * time.Hour

	// DayKeyLayout is the layout of canonical day keys
	DayKeyLayout = "2006-01-02"
)

// DayBoundaryResolver computes operating-day boundaries for a cutover offset.
// All methods are pure and work in UTC regardless of the location of their inputs.
type DayBoundaryResolver struct{}

// NewDayBoundaryResolver creates a new DayBoundaryResolver
func NewDayBoundaryResolver() DayBoundaryResolver {
	return DayBoundaryResolver{}
}

// DayStartContaining returns the most recent cutover at or before t
func (DayBoundaryResolver) DayStartContaining(t time.Time, off valueobject.Offset) time.Time {
	t = t.UTC()
	year, month, day := t.Date()

	candidate := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Add(off.Duration())
	if t.Before(candidate) {
		// today's cutover has not happened yet
		return candidate.AddDate(0, 0, -1)
	}
	return candidate
}

// DayWindowContaining returns the operating day containing t with an inclusive end
func (r DayBoundaryResolver) DayWindowContaining(t time.Time, off valueobject.Offset) valueobject.BoundaryWindow {
	return valueobject.NewBoundaryWindow(r.DayStartContaining(t, off), DayLength)
}

// DayKey returns the YYYY-MM-DD key of the operating day containing t
func (r DayBoundaryResolver) DayKey(t time.Time, off valueobject.Offset) string {
	return r.DayStartContaining(t, off).Format(DayKeyLayout)
}

// SameOperatingDay reports whether a and b fall in the same operating day
func (r DayBoundaryResolver) SameOperatingDay(a, b time.Time, off valueobject.Offset) bool {
	return r.DayStartContaining(a, off).Equal(r.DayStartContaining(b, off))
}

// DayWindowForKey is the inverse of DayKey
func (DayBoundaryResolver) DayWindowForKey(key string, off valueobject.Offset) (valueobject.BoundaryWindow, error) {
	date, err := time.ParseInLocation(DayKeyLayout, key, time.UTC)
	if err != nil {
		return valueobject.BoundaryWindow{}, domain.ErrInvalidInput("day key", "expected YYYY-MM-DD").
			WithDetails("key", key)
	}
	return valueobject.NewBoundaryWindow(date.Add(off.Duration()), DayLength), nil
}

// NextResetInstant returns the first cutover strictly after ref
func (r DayBoundaryResolver) NextResetInstant(off valueobject.Offset, ref time.Time) time.Time {
	return r.DayWindowContaining(ref, off).ExclusiveEnd()
}

// MillisUntilReset returns the whole milliseconds from ref to the next cutover
func (r DayBoundaryResolver) MillisUntilReset(off valueobject.Offset, ref time.Time) int64 {
	return r.NextResetInstant(off, ref).Sub(ref).Milliseconds()
}
