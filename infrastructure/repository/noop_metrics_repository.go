package repository

import (
	"context"

	"github.com/ca-srg/opday/domain/repository"
)

// NoOpMetricsRepository is a no-op implementation of MetricsRepository
// Used when Prometheus is not configured
type NoOpMetricsRepository struct{}

// NewNoOpMetricsRepository creates a new no-op metrics repository
func NewNoOpMetricsRepository() repository.MetricsRepository {
	return &NoOpMetricsRepository{}
}

// SendGauges does nothing
func (r *NoOpMetricsRepository) SendGauges(ctx context.Context, gauges []repository.Gauge) error {
	return nil
}

// Close does nothing
func (r *NoOpMetricsRepository) Close() error {
	return nil
}
