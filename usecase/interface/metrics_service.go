package usecase

import "context"

// MetricsService defines the interface for boundary metrics reporting
type MetricsService interface {
	// StartPeriodicMetrics starts the periodic metrics push
	StartPeriodicMetrics() error

	// StopPeriodicMetrics stops the periodic metrics push
	StopPeriodicMetrics() error

	// SendCurrentMetrics sends the current metrics immediately
	SendCurrentMetrics(ctx context.Context) error
}

// MetricsServiceError represents an error from metrics service operations
type MetricsServiceError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

func (e *MetricsServiceError) Error() string {
	return e.Message
}

// NewMetricsServiceError creates a new metrics service error
func NewMetricsServiceError(code, message string) *MetricsServiceError {
	return &MetricsServiceError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WithDetail adds a detail to the error
func (e *MetricsServiceError) WithDetail(key string, value interface{}) *MetricsServiceError {
	e.Details[key] = value
	return e
}
