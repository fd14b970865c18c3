package usecase

import (
	"context"
	"time"

	"github.com/ca-srg/opday/domain/valueobject"
)

// DaySnapshot describes the operating day containing an instant
type DaySnapshot struct {
	At               time.Time                  `json:"at"`
	Offset           valueobject.Offset         `json:"cutover"`
	Key              string                     `json:"key"`
	Window           valueobject.BoundaryWindow `json:"window"`
	NextReset        time.Time                  `json:"next_reset"`
	MillisUntilReset int64                      `json:"millis_until_reset"`
	Countdown        string                     `json:"countdown"`
}

// WeekSnapshot describes the operating week containing an instant
type WeekSnapshot struct {
	At        time.Time                  `json:"at"`
	Offset    valueobject.Offset         `json:"cutover"`
	Key       string                     `json:"key"`
	Window    valueobject.BoundaryWindow `json:"window"`
	Alignment string                     `json:"alignment"`
}

// BoundaryService answers operating-day and operating-week questions using
// the current cutover
type BoundaryService interface {
	CurrentOffset(ctx context.Context) valueobject.Offset

	// Today returns the operating day containing the clock's current instant
	Today(ctx context.Context) (*DaySnapshot, error)
	DayAt(ctx context.Context, t time.Time) (*DaySnapshot, error)

	// DayForKey returns the operating day named by a YYYY-MM-DD key. The
	// countdown runs from the clock's current instant to the day's end.
	DayForKey(ctx context.Context, key string) (*DaySnapshot, error)

	ThisWeek(ctx context.Context) (*WeekSnapshot, error)
	WeekAt(ctx context.Context, t time.Time) (*WeekSnapshot, error)

	IsSameOperatingDay(ctx context.Context, a, b time.Time) (bool, error)

	// Invalidate forces the next lookup to re-read the cutover from its source
	Invalidate(ctx context.Context)

	// SetCutover writes a new cutover to a writable source and invalidates the cache
	SetCutover(ctx context.Context, raw string) error

	CacheStatus() CacheStatus
	CacheStats() CacheStats
}
