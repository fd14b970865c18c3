package repository

import "context"

// Gauge is a single named sample pushed to a metrics backend
type Gauge struct {
	Name   string
	Value  float64
	Labels map[string]string
}

// MetricsRepository defines the interface for sending metrics to external systems
type MetricsRepository interface {
	// SendGauges pushes a batch of gauge samples taken at the same instant
	SendGauges(ctx context.Context, gauges []Gauge) error

	// Close cleans up any resources used by the metrics repository
	Close() error
}

// MetricsRepositoryError represents errors from the metrics repository
type MetricsRepositoryError struct {
	Operation string
	Err       error
}

func (e *MetricsRepositoryError) Error() string {
	if e.Err != nil {
		return "metrics repository error in " + e.Operation + ": " + e.Err.Error()
	}
	return "metrics repository error in " + e.Operation
}

func (e *MetricsRepositoryError) Unwrap() error {
	return e.Err
}

// NewMetricsRepositoryError creates a new metrics repository error
func NewMetricsRepositoryError(operation string, err error) error {
	return &MetricsRepositoryError{
		Operation: operation,
		Err:       err,
	}
}
