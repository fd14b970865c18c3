package repository

import "context"

// OffsetSourceRepository reads the raw daily cutover ("HH:MM:SS") from a
// configuration backend. Implementations report every failure, including
// non-2xx responses and missing keys, as an ErrCodeConfigFetchFailed error.
type OffsetSourceRepository interface {
	// FetchOffset returns the cutover string exactly as stored in the backend
	FetchOffset(ctx context.Context) (string, error)

	// Name identifies the backend in logs and metrics
	Name() string
}

// OffsetStoreRepository is implemented by sources that can also be written to,
// for administrative cutover changes
type OffsetStoreRepository interface {
	OffsetSourceRepository

	// StoreOffset persists a new cutover string
	StoreOffset(ctx context.Context, raw string) error
}
