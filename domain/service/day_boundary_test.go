package service

import (
	"math/rand"
	"testing"
	"time"

	"github.com/ca-srg/opday/domain"
	"github.com/ca-srg/opday/domain/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339Nano, s)
	require.NoError(t, err)
	return parsed
}

// sampleInstants returns deterministic instants spread over several years
// plus the interesting edges around midnight and month/year ends.
func sampleInstants(t *testing.T) []time.Time {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	instants := []time.Time{
		mustTime(t, "2024-02-29T00:00:00Z"),
		mustTime(t, "2024-12-31T23:59:59.999Z"),
		mustTime(t, "2025-01-01T00:00:00Z"),
		mustTime(t, "2025-03-01T02:59:59.999Z"),
		mustTime(t, "2025-06-08T01:00:00Z"),
	}
	for i := 0; i < 500; i++ {
		instants = append(instants, base.Add(time.Duration(rng.Int63n(int64(3*365*24*time.Hour)))))
	}
	return instants
}

func sampleOffsets() []valueobject.Offset {
	offsets := []valueobject.Offset{}
	for _, s := range []int{0, 1, 3 * 3600, 12 * 3600, 23*3600 + 59*60 + 59} {
		off, _ := valueobject.NewOffsetFromSeconds(s)
		offsets = append(offsets, off)
	}
	return offsets
}

func TestDayStartContaining_Scenarios(t *testing.T) {
	r := NewDayBoundaryResolver()

	tests := []struct {
		name     string
		offset   string
		instant  string
		expected string
	}{
		{
			name:     "before cutover resolves to yesterday",
			offset:   "03:00:00",
			instant:  "2025-06-10T02:00:00Z",
			expected: "2025-06-09T03:00:00Z",
		},
		{
			name:     "after cutover resolves to today",
			offset:   "03:00:00",
			instant:  "2025-06-10T04:00:00Z",
			expected: "2025-06-10T03:00:00Z",
		},
		{
			name:     "sunday before cutover resolves to saturday",
			offset:   "03:00:00",
			instant:  "2025-06-08T01:00:00Z",
			expected: "2025-06-07T03:00:00Z",
		},
		{
			name:     "exactly at cutover belongs to the new day",
			offset:   "03:00:00",
			instant:  "2025-06-10T03:00:00Z",
			expected: "2025-06-10T03:00:00Z",
		},
		{
			name:     "one millisecond before cutover",
			offset:   "03:00:00",
			instant:  "2025-06-10T02:59:59.999Z",
			expected: "2025-06-09T03:00:00Z",
		},
		{
			name:     "midnight offset",
			offset:   "00:00:00",
			instant:  "2025-06-11T15:00:00Z",
			expected: "2025-06-11T00:00:00Z",
		},
		{
			name:     "crosses year boundary",
			offset:   "06:00:00",
			instant:  "2025-01-01T05:00:00Z",
			expected: "2024-12-31T06:00:00Z",
		},
		{
			name:     "crosses leap day",
			offset:   "23:59:59",
			instant:  "2024-03-01T12:00:00Z",
			expected: "2024-02-29T23:59:59Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off := valueobject.MustParseOffset(tt.offset)
			got := r.DayStartContaining(mustTime(t, tt.instant), off)
			assert.Equal(t, mustTime(t, tt.expected), got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestDayStartContaining_IgnoresInputLocation(t *testing.T) {
	r := NewDayBoundaryResolver()
	off := valueobject.MustParseOffset("03:00:00")

	tokyo := time.FixedZone("JST", 9*3600)
	// 2025-06-10T02:00:00Z expressed in JST
	local := time.Date(2025, 6, 10, 11, 0, 0, 0, tokyo)

	assert.Equal(t, mustTime(t, "2025-06-09T03:00:00Z"), r.DayStartContaining(local, off))
}

func TestDayStartContaining_Containment(t *testing.T) {
	r := NewDayBoundaryResolver()
	for _, off := range sampleOffsets() {
		for _, instant := range sampleInstants(t) {
			start := r.DayStartContaining(instant, off)
			require.False(t, start.After(instant), "offset=%s instant=%s start=%s", off, instant, start)
			require.True(t, instant.Before(start.Add(DayLength)), "offset=%s instant=%s start=%s", off, instant, start)
			require.Equal(t, off.Seconds(), start.Hour()*3600+start.Minute()*60+start.Second())
		}
	}
}

func TestDayWindowContaining(t *testing.T) {
	r := NewDayBoundaryResolver()
	off := valueobject.MustParseOffset("03:00:00")

	window := r.DayWindowContaining(mustTime(t, "2025-06-10T02:00:00Z"), off)

	assert.Equal(t, mustTime(t, "2025-06-09T03:00:00Z"), window.Start)
	assert.Equal(t, mustTime(t, "2025-06-10T02:59:59.999Z"), window.End)
	assert.Equal(t, DayLength, window.Length())
}

func TestDayKey_IdempotentWithinWindow(t *testing.T) {
	r := NewDayBoundaryResolver()
	rng := rand.New(rand.NewSource(7))

	for _, off := range sampleOffsets() {
		for _, instant := range sampleInstants(t)[:100] {
			window := r.DayWindowContaining(instant, off)
			key := r.DayKey(instant, off)

			require.Equal(t, key, r.DayKey(window.Start, off))
			require.Equal(t, key, r.DayKey(window.End, off))

			inside := window.Start.Add(time.Duration(rng.Int63n(int64(DayLength))))
			require.Equal(t, key, r.DayKey(inside, off))
			require.True(t, r.SameOperatingDay(instant, inside, off))
		}
	}
}

func TestDayKey_FlipsAtBoundary(t *testing.T) {
	r := NewDayBoundaryResolver()

	for _, off := range sampleOffsets() {
		for _, instant := range sampleInstants(t)[:100] {
			window := r.DayWindowContaining(instant, off)
			before := r.DayKey(window.End, off)
			after := r.DayKey(window.End.Add(2*time.Millisecond), off)

			require.NotEqual(t, before, after)
			require.False(t, r.SameOperatingDay(window.End, window.End.Add(2*time.Millisecond), off))
		}
	}
}

func TestDayKey_Examples(t *testing.T) {
	r := NewDayBoundaryResolver()
	off := valueobject.MustParseOffset("03:00:00")

	assert.Equal(t, "2025-06-09", r.DayKey(mustTime(t, "2025-06-10T02:00:00Z"), off))
	assert.Equal(t, "2025-06-10", r.DayKey(mustTime(t, "2025-06-10T04:00:00Z"), off))
}

func TestDayWindowForKey(t *testing.T) {
	r := NewDayBoundaryResolver()
	off := valueobject.MustParseOffset("03:00:00")

	window, err := r.DayWindowForKey("2025-06-09", off)
	require.NoError(t, err)
	assert.Equal(t, mustTime(t, "2025-06-09T03:00:00Z"), window.Start)
	assert.Equal(t, "2025-06-09", r.DayKey(window.Start, off))
	assert.Equal(t, "2025-06-09", r.DayKey(window.End, off))

	_, err = r.DayWindowForKey("2025-13-40", off)
	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidInput))
}

func TestNextResetInstant(t *testing.T) {
	r := NewDayBoundaryResolver()
	off := valueobject.MustParseOffset("03:00:00")

	tests := []struct {
		name      string
		ref       string
		expected  string
		remaining int64
	}{
		{
			name:      "before today's cutover",
			ref:       "2025-06-10T02:00:00Z",
			expected:  "2025-06-10T03:00:00Z",
			remaining: int64(time.Hour / time.Millisecond),
		},
		{
			name:      "after today's cutover",
			ref:       "2025-06-10T04:00:00Z",
			expected:  "2025-06-11T03:00:00Z",
			remaining: int64(23 * time.Hour / time.Millisecond),
		},
		{
			name:      "exactly at cutover waits a full day",
			ref:       "2025-06-10T03:00:00Z",
			expected:  "2025-06-11T03:00:00Z",
			remaining: int64(DayLength / time.Millisecond),
		},
		{
			name:      "last millisecond of the day",
			ref:       "2025-06-10T02:59:59.999Z",
			expected:  "2025-06-10T03:00:00Z",
			remaining: 1,
		},
		{
			name:      "sub-millisecond remainder truncates",
			ref:       "2025-06-10T02:59:59.9995Z",
			expected:  "2025-06-10T03:00:00Z",
			remaining: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := mustTime(t, tt.ref)
			assert.Equal(t, mustTime(t, tt.expected), r.NextResetInstant(off, ref))
			assert.Equal(t, tt.remaining, r.MillisUntilReset(off, ref))
		})
	}
}

func TestMillisUntilReset_NeverNegative(t *testing.T) {
	r := NewDayBoundaryResolver()
	for _, off := range sampleOffsets() {
		for _, instant := range sampleInstants(t) {
			ms := r.MillisUntilReset(off, instant)
			require.GreaterOrEqual(t, ms, int64(0))
			require.LessOrEqual(t, ms, int64(DayLength/time.Millisecond))
		}
	}
}
