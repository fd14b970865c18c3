package impl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ca-srg/opday/domain"
	"github.com/ca-srg/opday/domain/repository"
	"github.com/ca-srg/opday/infrastructure/config"
	usecase "github.com/ca-srg/opday/usecase/interface"
)

// Gauge names pushed by the metrics service
const (
	MetricCutoverOffsetSeconds = "opday_cutover_offset_seconds"
	MetricMillisUntilReset     = "opday_millis_until_reset"
	MetricOffsetCacheFresh     = "opday_offset_cache_fresh"
	MetricOffsetFetches        = "opday_offset_fetches_total"
	MetricOffsetFetchFailures  = "opday_offset_fetch_failures_total"
	MetricOffsetCacheFallbacks = "opday_offset_cache_fallbacks_total"
)

// MetricsServiceImpl implements the MetricsService interface
type MetricsServiceImpl struct {
	boundaryService usecase.BoundaryService
	metricsRepo     repository.MetricsRepository
	config          *config.PrometheusConfig
	ticker          *time.Ticker
	stopChan        chan struct{}
	wg              sync.WaitGroup
	mu              sync.Mutex
	isRunning       bool
	logger          domain.Logger
}

// NewMetricsServiceImpl creates a new metrics service implementation
func NewMetricsServiceImpl(
	boundaryService usecase.BoundaryService,
	metricsRepo repository.MetricsRepository,
	config *config.PrometheusConfig,
	logger domain.Logger,
) usecase.MetricsService {
	return &MetricsServiceImpl{
		boundaryService: boundaryService,
		metricsRepo:     metricsRepo,
		config:          config,
		stopChan:        make(chan struct{}),
		isRunning:       false,
		logger:          logger,
	}
}

// StartPeriodicMetrics starts the periodic metrics push
func (s *MetricsServiceImpl) StartPeriodicMetrics() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return usecase.NewMetricsServiceError("already_running", "metrics service is already running")
	}

	if s.config == nil {
		return usecase.NewMetricsServiceError("invalid_config", "prometheus config is nil")
	}
	if s.config.IntervalSec <= 0 {
		return usecase.NewMetricsServiceError("invalid_config", "metrics interval must be positive").
			WithDetail("interval_sec", s.config.IntervalSec)
	}

	ctx := context.Background()

	// Send initial metrics
	if err := s.sendMetrics(ctx); err != nil {
		s.logger.Warn(ctx, "Failed to send initial metrics", domain.NewField("error", err.Error()))
	}

	s.ticker = time.NewTicker(time.Duration(s.config.IntervalSec) * time.Second)
	s.isRunning = true

	s.wg.Add(1)
	go s.runPeriodicMetrics()

	return nil
}

// StopPeriodicMetrics stops the periodic metrics push and sends a final sample
func (s *MetricsServiceImpl) StopPeriodicMetrics() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	if s.ticker != nil {
		s.ticker.Stop()
	}

	close(s.stopChan)
	s.wg.Wait()

	ctx := context.Background()
	if err := s.sendMetrics(ctx); err != nil {
		s.logger.Warn(ctx, "Failed to send final metrics", domain.NewField("error", err.Error()))
	}

	s.isRunning = false
	s.stopChan = make(chan struct{}) // Reset for potential restart

	return nil
}

// SendCurrentMetrics sends the current metrics immediately
func (s *MetricsServiceImpl) SendCurrentMetrics(ctx context.Context) error {
	return s.sendMetrics(ctx)
}

func (s *MetricsServiceImpl) runPeriodicMetrics() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ticker.C:
			ctx := context.Background()
			if err := s.sendMetrics(ctx); err != nil {
				s.logger.Warn(ctx, "Failed to send periodic metrics", domain.NewField("error", err.Error()))
			}
		case <-s.stopChan:
			return
		}
	}
}

// sendMetrics samples the boundary service and pushes one gauge batch
func (s *MetricsServiceImpl) sendMetrics(ctx context.Context) error {
	gauges, err := s.collectGauges(ctx)
	if err != nil {
		return err
	}

	if err := s.metricsRepo.SendGauges(ctx, gauges); err != nil {
		return fmt.Errorf("failed to send boundary metrics: %w", err)
	}

	s.logger.Debug(ctx, "Sent boundary metrics", domain.NewField("gauges", len(gauges)))
	return nil
}

func (s *MetricsServiceImpl) collectGauges(ctx context.Context) ([]repository.Gauge, error) {
	today, err := s.boundaryService.Today(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve operating day: %w", err)
	}

	status := s.boundaryService.CacheStatus()
	stats := s.boundaryService.CacheStats()
	labels := map[string]string{"source": status.Source}

	fresh := 0.0
	if status.Fresh {
		fresh = 1
	}

	return []repository.Gauge{
		{Name: MetricCutoverOffsetSeconds, Value: float64(today.Offset.Seconds()), Labels: labels},
		{Name: MetricMillisUntilReset, Value: float64(today.MillisUntilReset), Labels: labels},
		{Name: MetricOffsetCacheFresh, Value: fresh, Labels: labels},
		{Name: MetricOffsetFetches, Value: float64(stats.Fetches), Labels: labels},
		{Name: MetricOffsetFetchFailures, Value: float64(stats.Failures), Labels: labels},
		{Name: MetricOffsetCacheFallbacks, Value: float64(stats.Fallbacks), Labels: labels},
	}, nil
}
