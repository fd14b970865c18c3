package usecase

import (
	"context"
	"time"

	"github.com/ca-srg/opday/domain/valueobject"
)

// CacheOutcome describes how the most recent refresh attempt ended
type CacheOutcome string

const (
	// CacheOutcomeNone means no refresh has happened since creation or the last invalidation
	CacheOutcomeNone CacheOutcome = "none"

	// CacheOutcomeFetched means the backend value was fetched and parsed
	CacheOutcomeFetched CacheOutcome = "fetched"

	// CacheOutcomeKeptPrevious means the refresh failed and the previous value was kept
	CacheOutcomeKeptPrevious CacheOutcome = "kept-previous"

	// CacheOutcomeDefaulted means the refresh failed with nothing cached, so the default was stored
	CacheOutcomeDefaulted CacheOutcome = "defaulted"
)

// CacheStatus is a point-in-time view of the cutover cache
type CacheStatus struct {
	Offset      *valueobject.Offset `json:"offset,omitempty"`
	FetchedAt   time.Time           `json:"fetched_at"`
	Fresh       bool                `json:"fresh"`
	TTL         time.Duration       `json:"ttl"`
	Source      string              `json:"source"`
	LastOutcome CacheOutcome        `json:"last_outcome"`
	LastError   string              `json:"last_error,omitempty"`
}

// CacheStats are monotonically increasing counters kept by the cache
type CacheStats struct {
	Hits          uint64 `json:"hits"`
	Fetches       uint64 `json:"fetches"`
	Failures      uint64 `json:"failures"`
	Fallbacks     uint64 `json:"fallbacks"`
	Invalidations uint64 `json:"invalidations"`
}

// OffsetCache serves the daily cutover with bounded staleness.
// GetCurrentOffset never fails: backend errors degrade to the last known
// value, or to the configured default when nothing was ever fetched.
type OffsetCache interface {
	GetCurrentOffset(ctx context.Context) valueobject.Offset

	// Invalidate drops the cached value so the next read goes to the backend
	Invalidate()

	Status() CacheStatus
	Stats() CacheStats
}
