package impl

import (
	"context"
	"time"

	"github.com/ca-srg/opday/domain"
	"github.com/ca-srg/opday/domain/repository"
	"github.com/ca-srg/opday/domain/service"
	"github.com/ca-srg/opday/domain/valueobject"
	usecase "github.com/ca-srg/opday/usecase/interface"
)

// BoundaryServiceImpl implements the BoundaryService interface
type BoundaryServiceImpl struct {
	cache  usecase.OffsetCache
	source repository.OffsetSourceRepository
	clock  domain.Clock
	day    service.DayBoundaryResolver
	week   service.WeekBoundaryResolver
	logger domain.Logger
}

// NewBoundaryService creates a new BoundaryServiceImpl instance
func NewBoundaryService(
	cache usecase.OffsetCache,
	source repository.OffsetSourceRepository,
	clock domain.Clock,
	alignment service.WeekAlignment,
	logger domain.Logger,
) *BoundaryServiceImpl {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &BoundaryServiceImpl{
		cache:  cache,
		source: source,
		clock:  clock,
		day:    service.NewDayBoundaryResolver(),
		week:   service.NewWeekBoundaryResolver(alignment),
		logger: logger,
	}
}

// CurrentOffset returns the cutover currently in effect
func (s *BoundaryServiceImpl) CurrentOffset(ctx context.Context) valueobject.Offset {
	return s.cache.GetCurrentOffset(ctx)
}

// Today returns the operating day containing now
func (s *BoundaryServiceImpl) Today(ctx context.Context) (*usecase.DaySnapshot, error) {
	return s.DayAt(ctx, s.clock.Now())
}

// DayAt returns the operating day containing t. The countdown is measured from t.
func (s *BoundaryServiceImpl) DayAt(ctx context.Context, t time.Time) (*usecase.DaySnapshot, error) {
	if err := checkInstant(t); err != nil {
		return nil, err
	}
	t = t.UTC()
	off := s.cache.GetCurrentOffset(ctx)

	millis := s.day.MillisUntilReset(off, t)
	return &usecase.DaySnapshot{
		At:               t,
		Offset:           off,
		Key:              s.day.DayKey(t, off),
		Window:           s.day.DayWindowContaining(t, off),
		NextReset:        s.day.NextResetInstant(off, t),
		MillisUntilReset: millis,
		Countdown:        service.FormatDuration(millis),
	}, nil
}

// DayForKey returns the operating day with the given key
func (s *BoundaryServiceImpl) DayForKey(ctx context.Context, key string) (*usecase.DaySnapshot, error) {
	off := s.cache.GetCurrentOffset(ctx)
	window, err := s.day.DayWindowForKey(key, off)
	if err != nil {
		return nil, err
	}

	next := window.ExclusiveEnd()
	millis := next.Sub(s.clock.Now()).Milliseconds()
	if millis < 0 {
		millis = 0
	}
	return &usecase.DaySnapshot{
		At:               window.Start,
		Offset:           off,
		Key:              s.day.DayKey(window.Start, off),
		Window:           window,
		NextReset:        next,
		MillisUntilReset: millis,
		Countdown:        service.FormatDuration(millis),
	}, nil
}

// ThisWeek returns the operating week containing now
func (s *BoundaryServiceImpl) ThisWeek(ctx context.Context) (*usecase.WeekSnapshot, error) {
	return s.WeekAt(ctx, s.clock.Now())
}

// WeekAt returns the operating week containing t
func (s *BoundaryServiceImpl) WeekAt(ctx context.Context, t time.Time) (*usecase.WeekSnapshot, error) {
	if err := checkInstant(t); err != nil {
		return nil, err
	}
	t = t.UTC()
	off := s.cache.GetCurrentOffset(ctx)

	return &usecase.WeekSnapshot{
		At:        t,
		Offset:    off,
		Key:       s.week.WeekKey(t, off),
		Window:    s.week.WeekWindowContaining(t, off),
		Alignment: string(s.week.Alignment()),
	}, nil
}

// IsSameOperatingDay reports whether a and b fall in the same operating day
func (s *BoundaryServiceImpl) IsSameOperatingDay(ctx context.Context, a, b time.Time) (bool, error) {
	if err := checkInstant(a); err != nil {
		return false, err
	}
	if err := checkInstant(b); err != nil {
		return false, err
	}
	return s.day.SameOperatingDay(a, b, s.cache.GetCurrentOffset(ctx)), nil
}

// Invalidate drops the cached cutover
func (s *BoundaryServiceImpl) Invalidate(ctx context.Context) {
	s.logger.Info(ctx, "Cutover invalidation requested")
	s.cache.Invalidate()
}

// SetCutover stores a new cutover in the source and invalidates the cache
func (s *BoundaryServiceImpl) SetCutover(ctx context.Context, raw string) error {
	off, err := valueobject.ParseOffset(raw)
	if err != nil {
		return err
	}

	store, ok := s.source.(repository.OffsetStoreRepository)
	if !ok {
		return domain.ErrUnsupportedOperation("set-cutover", s.source.Name())
	}

	if err := store.StoreOffset(ctx, off.String()); err != nil {
		return err
	}

	s.logger.Info(ctx, "Cutover updated",
		domain.NewField("cutover", off.String()),
		domain.NewField("source", s.source.Name()))
	s.cache.Invalidate()
	return nil
}

// CacheStatus returns the cache state
func (s *BoundaryServiceImpl) CacheStatus() usecase.CacheStatus {
	return s.cache.Status()
}

// CacheStats returns the cache counters
func (s *BoundaryServiceImpl) CacheStats() usecase.CacheStats {
	return s.cache.Stats()
}

func checkInstant(t time.Time) error {
	if t.IsZero() {
		return domain.ErrInvalidInstant(t.String(), "instant is unset")
	}
	return nil
}
