package repository

import (
	"context"
)

// StaticOffsetSourceRepository serves a cutover pinned in configuration
type StaticOffsetSourceRepository struct {
	value string
}

// NewStaticOffsetSourceRepository creates a source that always returns value
func NewStaticOffsetSourceRepository(value string) *StaticOffsetSourceRepository {
	return &StaticOffsetSourceRepository{value: value}
}

func (r *StaticOffsetSourceRepository) Name() string {
	return "static"
}

func (r *StaticOffsetSourceRepository) FetchOffset(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return r.value, nil
}
