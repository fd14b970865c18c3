package domain

import "time"

// Clock abstracts the current instant so boundary lookups can be pinned in tests
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC
type SystemClock struct{}

// Now returns the current wall-clock instant in UTC
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant
type FixedClock struct {
	At time.Time
}

// Now returns At in UTC
func (c FixedClock) Now() time.Time { return c.At.UTC() }

// ClockFunc adapts a function to the Clock interface
type ClockFunc func() time.Time

// Now calls f and converts the result to UTC
func (f ClockFunc) Now() time.Time { return f().UTC() }
