package impl

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// manualClock is a controllable domain.Clock
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock(at time.Time) *manualClock {
	return &manualClock{now: at.UTC()}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *manualClock) Set(at time.Time) {
	c.mu.Lock()
	c.now = at.UTC()
	c.mu.Unlock()
}

// mockOffsetSource is a mock.Mock based repository.OffsetSourceRepository
type mockOffsetSource struct {
	mock.Mock
}

func (m *mockOffsetSource) FetchOffset(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockOffsetSource) Name() string {
	return "mock"
}

// mockOffsetStore adds StoreOffset to mockOffsetSource
type mockOffsetStore struct {
	mockOffsetSource
}

func (m *mockOffsetStore) StoreOffset(ctx context.Context, raw string) error {
	args := m.Called(ctx, raw)
	return args.Error(0)
}
