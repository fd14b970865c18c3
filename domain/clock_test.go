package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClocks(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	local := time.Date(2026, 3, 10, 12, 0, 0, 0, tokyo)
	want := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)

	t.Run("SystemClock", func(t *testing.T) {
		before := time.Now()
		got := SystemClock{}.Now()
		assert.Equal(t, time.UTC, got.Location())
		assert.False(t, got.Before(before.Truncate(time.Second)))
	})

	t.Run("FixedClock", func(t *testing.T) {
		clock := FixedClock{At: local}
		assert.Equal(t, want, clock.Now())
		assert.Equal(t, clock.Now(), clock.Now())
	})

	t.Run("ClockFunc", func(t *testing.T) {
		calls := 0
		var clock Clock = ClockFunc(func() time.Time {
			calls++
			return local.Add(time.Duration(calls) * time.Minute)
		})

		assert.Equal(t, want.Add(time.Minute), clock.Now())
		assert.Equal(t, want.Add(2*time.Minute), clock.Now())
		assert.Equal(t, time.UTC, clock.Now().Location())
	})
}
