package impl

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ca-srg/opday/domain"
	"github.com/ca-srg/opday/domain/repository"
	"github.com/ca-srg/opday/domain/valueobject"
	usecase "github.com/ca-srg/opday/usecase/interface"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultOffsetCacheTTL is how long a fetched cutover is served without re-fetching
	DefaultOffsetCacheTTL = 5 * time.Minute

	// DefaultOffsetFetchTimeout bounds a single backend read
	DefaultOffsetFetchTimeout = 10 * time.Second

	refreshKey = "offset"
)

// OffsetCacheConfig holds the tunables of OffsetCacheImpl
type OffsetCacheConfig struct {
	TTL           time.Duration
	FetchTimeout  time.Duration
	DefaultOffset valueobject.Offset
}

// OffsetCacheImpl implements the OffsetCache interface
type OffsetCacheImpl struct {
	source repository.OffsetSourceRepository
	clock  domain.Clock
	logger domain.Logger

	ttl           time.Duration
	fetchTimeout  time.Duration
	defaultOffset valueobject.Offset

	// Cache fields
	mu          sync.RWMutex
	value       *valueobject.Offset
	fetchedAt   time.Time
	lastOutcome usecase.CacheOutcome
	lastError   string

	group singleflight.Group

	hits          atomic.Uint64
	fetches       atomic.Uint64
	failures      atomic.Uint64
	fallbacks     atomic.Uint64
	invalidations atomic.Uint64
}

// NewOffsetCache creates a new OffsetCacheImpl instance
func NewOffsetCache(
	source repository.OffsetSourceRepository,
	clock domain.Clock,
	cfg OffsetCacheConfig,
	logger domain.Logger,
) *OffsetCacheImpl {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultOffsetCacheTTL
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultOffsetFetchTimeout
	}
	if clock == nil {
		clock = domain.SystemClock{}
	}

	return &OffsetCacheImpl{
		source:        source,
		clock:         clock,
		logger:        logger.WithFields(domain.NewField("source", source.Name())),
		ttl:           cfg.TTL,
		fetchTimeout:  cfg.FetchTimeout,
		defaultOffset: cfg.DefaultOffset,
		lastOutcome:   usecase.CacheOutcomeNone,
	}
}

// GetCurrentOffset returns the cached cutover while fresh and otherwise
// refreshes it from the source. Concurrent stale readers share one fetch.
func (c *OffsetCacheImpl) GetCurrentOffset(ctx context.Context) valueobject.Offset {
	if off, ok := c.freshValue(); ok {
		c.hits.Add(1)
		return off
	}

	v, _, _ := c.group.Do(refreshKey, func() (interface{}, error) {
		return c.refresh(ctx), nil
	})
	return v.(valueobject.Offset)
}

// Invalidate clears the cached value and timestamp
func (c *OffsetCacheImpl) Invalidate() {
	c.mu.Lock()
	c.value = nil
	c.fetchedAt = time.Time{}
	c.lastOutcome = usecase.CacheOutcomeNone
	c.lastError = ""
	c.mu.Unlock()

	c.invalidations.Add(1)
	c.logger.Info(context.Background(), "Offset cache invalidated")
}

// Status returns a snapshot of the cache state
func (c *OffsetCacheImpl) Status() usecase.CacheStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := usecase.CacheStatus{
		FetchedAt:   c.fetchedAt,
		TTL:         c.ttl,
		Source:      c.source.Name(),
		LastOutcome: c.lastOutcome,
		LastError:   c.lastError,
	}
	if c.value != nil {
		off := *c.value
		status.Offset = &off
		status.Fresh = c.isFreshLocked(c.clock.Now())
	}
	return status
}

// Stats returns the cache counters
func (c *OffsetCacheImpl) Stats() usecase.CacheStats {
	return usecase.CacheStats{
		Hits:          c.hits.Load(),
		Fetches:       c.fetches.Load(),
		Failures:      c.failures.Load(),
		Fallbacks:     c.fallbacks.Load(),
		Invalidations: c.invalidations.Load(),
	}
}

func (c *OffsetCacheImpl) freshValue() (valueobject.Offset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.value == nil || !c.isFreshLocked(c.clock.Now()) {
		return valueobject.Offset{}, false
	}
	return *c.value, true
}

func (c *OffsetCacheImpl) isFreshLocked(now time.Time) bool {
	return c.value != nil && now.Sub(c.fetchedAt) < c.ttl
}

func (c *OffsetCacheImpl) refresh(ctx context.Context) valueobject.Offset {
	// A flight that finished just before this one may already have refreshed
	if off, ok := c.freshValue(); ok {
		c.hits.Add(1)
		return off
	}

	c.fetches.Add(1)

	// The fetch is shared by every waiting caller, so one caller's cancellation must not fail it
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
	raw, err := c.source.FetchOffset(fetchCtx)
	cancel()

	if err == nil {
		off, parseErr := valueobject.ParseOffset(raw)
		if parseErr == nil {
			c.store(off)
			c.logger.Debug(ctx, "Fetched cutover", domain.NewField("cutover", off.String()))
			return off
		}
		err = parseErr
	} else if domain.GetErrorCode(err) == "" {
		err = domain.ErrConfigFetchFailedWithCause(c.source.Name(), err)
	}

	return c.fallback(ctx, err)
}

func (c *OffsetCacheImpl) store(off valueobject.Offset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = &off
	c.fetchedAt = c.clock.Now()
	c.lastOutcome = usecase.CacheOutcomeFetched
	c.lastError = ""
}

// fallback keeps the previous value with its old timestamp, so the next read
// retries. With nothing cached the default is stored as if freshly fetched.
func (c *OffsetCacheImpl) fallback(ctx context.Context, cause error) valueobject.Offset {
	c.failures.Add(1)
	c.fallbacks.Add(1)

	c.mu.Lock()
	var (
		off     valueobject.Offset
		outcome usecase.CacheOutcome
	)
	if c.value != nil {
		off = *c.value
		outcome = usecase.CacheOutcomeKeptPrevious
	} else {
		off = c.defaultOffset
		c.value = &off
		c.fetchedAt = c.clock.Now()
		outcome = usecase.CacheOutcomeDefaulted
	}
	c.lastOutcome = outcome
	c.lastError = cause.Error()
	c.mu.Unlock()

	c.logger.Warn(ctx, "Failed to refresh cutover, using fallback",
		domain.NewField("error", cause.Error()),
		domain.NewField("error_code", string(domain.GetErrorCode(cause))),
		domain.NewField("outcome", string(outcome)),
		domain.NewField("cutover", off.String()))

	return off
}
