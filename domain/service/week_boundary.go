package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/ca-srg/opday/domain"
	"github.com/ca-srg/opday/domain/valueobject"
)

// WeekLength is the span of one operating week
const WeekLength = 7 * DayLength

// WeekAlignment selects how the Monday of an operating week is found
type WeekAlignment string

const (
	// WeekAlignmentOperatingDay takes the Monday of the operating day containing the instant
	WeekAlignmentOperatingDay WeekAlignment = "operating-day"

	// WeekAlignmentCalendar takes the Monday of the instant's raw UTC calendar date.
	// An instant on Monday before the cutover resolves to a week that starts after it.
	WeekAlignmentCalendar WeekAlignment = "calendar"
)

// ParseWeekAlignment validates a configured alignment name; empty means operating-day
func ParseWeekAlignment(s string) (WeekAlignment, error) {
	switch WeekAlignment(strings.ToLower(strings.TrimSpace(s))) {
	case "", WeekAlignmentOperatingDay:
		return WeekAlignmentOperatingDay, nil
	case WeekAlignmentCalendar:
		return WeekAlignmentCalendar, nil
	default:
		return "", domain.ErrInvalidInput("week alignment", fmt.Sprintf("%q is not one of operating-day, calendar", s))
	}
}

// WeekBoundaryResolver computes Monday-aligned operating weeks
type WeekBoundaryResolver struct {
	day       DayBoundaryResolver
	alignment WeekAlignment
}

// NewWeekBoundaryResolver creates a resolver; an unknown alignment falls back to operating-day
func NewWeekBoundaryResolver(alignment WeekAlignment) WeekBoundaryResolver {
	if alignment != WeekAlignmentCalendar {
		alignment = WeekAlignmentOperatingDay
	}
	return WeekBoundaryResolver{
		day:       NewDayBoundaryResolver(),
		alignment: alignment,
	}
}

// Alignment returns the configured alignment mode
func (r WeekBoundaryResolver) Alignment() WeekAlignment {
	return r.alignment
}

// WeekStartContaining returns the Monday cutover that starts the operating week of t
func (r WeekBoundaryResolver) WeekStartContaining(t time.Time, off valueobject.Offset) time.Time {
	if r.alignment == WeekAlignmentCalendar {
		t = t.UTC()
		monday := t.AddDate(0, 0, -daysSinceMonday(t.Weekday()))
		year, month, day := monday.Date()
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Add(off.Duration())
	}

	dayStart := r.day.DayStartContaining(t, off)
	return dayStart.AddDate(0, 0, -daysSinceMonday(dayStart.Weekday()))
}

// WeekWindowContaining returns the operating week containing t with an inclusive end
func (r WeekBoundaryResolver) WeekWindowContaining(t time.Time, off valueobject.Offset) valueobject.BoundaryWindow {
	return valueobject.NewBoundaryWindow(r.WeekStartContaining(t, off), WeekLength)
}

// WeekKey returns the ISO week label (YYYY-Www) of the week start
func (r WeekBoundaryResolver) WeekKey(t time.Time, off valueobject.Offset) string {
	year, week := r.WeekStartContaining(t, off).ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// daysSinceMonday maps Monday to 0 and Sunday to 6
func daysSinceMonday(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
