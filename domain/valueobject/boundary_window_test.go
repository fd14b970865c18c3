package valueobject

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBoundaryWindow(t *testing.T) {
	start := time.Date(2025, 6, 9, 3, 0, 0, 0, time.UTC)
	w := NewBoundaryWindow(start, 24*time.Hour)

	assert.Equal(t, start, w.Start)
	assert.Equal(t, time.Date(2025, 6, 10, 2, 59, 59, int(999*time.Millisecond), time.UTC), w.End)
	assert.Equal(t, time.Date(2025, 6, 10, 3, 0, 0, 0, time.UTC), w.ExclusiveEnd())
	assert.Equal(t, 24*time.Hour, w.Length())

	assert.True(t, w.Contains(start))
	assert.True(t, w.Contains(w.End))
	assert.True(t, w.Contains(w.End.Add(500*time.Microsecond)))
	assert.False(t, w.Contains(w.ExclusiveEnd()))
	assert.False(t, w.Contains(start.Add(-time.Nanosecond)))
}

func TestNewBoundaryWindow_NormalizesToUTC(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)
	w := NewBoundaryWindow(time.Date(2025, 6, 9, 12, 0, 0, 0, jst), time.Hour)

	assert.Equal(t, time.UTC, w.Start.Location())
	assert.Equal(t, 3, w.Start.Hour())
}
