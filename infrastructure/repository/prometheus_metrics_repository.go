package repository

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ca-srg/opday/domain/repository"
	"github.com/ca-srg/opday/infrastructure/config"
)

// PrometheusMetricsRepository implements MetricsRepository using Prometheus Remote Write
type PrometheusMetricsRepository struct {
	config    *config.PrometheusConfig
	rwClient  *RemoteWriteClient
	hostLabel string
}

// NewPrometheusMetricsRepository creates a new Prometheus metrics repository
func NewPrometheusMetricsRepository(cfg *config.PrometheusConfig) (*PrometheusMetricsRepository, error) {
	if cfg == nil {
		return nil, repository.NewMetricsRepositoryError("initialize", fmt.Errorf("prometheus config is nil"))
	}

	if cfg.RemoteWriteURL == "" {
		return nil, repository.NewMetricsRepositoryError("initialize", fmt.Errorf("remote write url is empty"))
	}

	// Use hostname if HostLabel is not specified
	hostLabel := cfg.HostLabel
	if hostLabel == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostLabel = "unknown"
		} else {
			hostLabel = hostname
		}
	}

	var authConfig *AuthConfig
	if cfg.RemoteWriteUsername != "" && cfg.RemoteWritePassword != "" {
		authConfig = &AuthConfig{
			Username: cfg.RemoteWriteUsername,
			Password: cfg.RemoteWritePassword,
		}
	}

	rwClient, err := NewRemoteWriteClient(
		cfg.RemoteWriteURL,
		time.Duration(cfg.TimeoutSec)*time.Second,
		authConfig,
	)
	if err != nil {
		return nil, repository.NewMetricsRepositoryError("initialize", err)
	}

	return &PrometheusMetricsRepository{
		config:    cfg,
		rwClient:  rwClient,
		hostLabel: hostLabel,
	}, nil
}

// SendGauges pushes all gauges in one write request stamped with the same timestamp.
// Every series gets the host label unless the gauge sets its own.
func (r *PrometheusMetricsRepository) SendGauges(ctx context.Context, gauges []repository.Gauge) error {
	if len(gauges) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.config.TimeoutSec)*time.Second)
	defer cancel()

	ts := r.rwClient.now().UnixMilli()
	series := make([]remoteWriteSeries, 0, len(gauges))
	for _, g := range gauges {
		labels := map[string]string{"host": r.hostLabel}
		for k, v := range g.Labels {
			labels[k] = v
		}
		series = append(series, remoteWriteSeries{
			Name:        g.Name,
			Labels:      labels,
			Value:       g.Value,
			TimestampMs: ts,
		})
	}

	if err := r.rwClient.Send(ctx, series); err != nil {
		if ctx.Err() != nil {
			return repository.NewMetricsRepositoryError("send", fmt.Errorf("timeout: %w", err))
		}
		return repository.NewMetricsRepositoryError("send", err)
	}

	return nil
}

// HostLabel returns the host label attached to every series
func (r *PrometheusMetricsRepository) HostLabel() string {
	return r.hostLabel
}

// Close cleans up resources
func (r *PrometheusMetricsRepository) Close() error {
	// Remote Write client doesn't require explicit cleanup
	return nil
}
