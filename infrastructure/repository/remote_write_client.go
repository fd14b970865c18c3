package repository

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/golang/snappy"
)

// RemoteWriteClient handles sending metrics to Prometheus Remote Write endpoint
type RemoteWriteClient struct {
	url         string
	client      *http.Client
	authConfig  *AuthConfig
	retryConfig *RetryConfig
	now         func() time.Time
}

// AuthConfig holds authentication configuration (basic auth only)
type AuthConfig struct {
	Username string
	Password string
}

// NewRemoteWriteClient creates a new Remote Write client
func NewRemoteWriteClient(url string, timeout time.Duration, authConfig *AuthConfig) (*RemoteWriteClient, error) {
	if url == "" {
		return nil, fmt.Errorf("remote write URL is required")
	}

	return &RemoteWriteClient{
		url:         url,
		client:      &http.Client{Timeout: timeout},
		authConfig:  authConfig,
		retryConfig: DefaultRetryConfig(),
		now:         time.Now,
	}, nil
}

// RetryConfig holds retry configuration
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryConfig returns default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// statusError is a non-2xx response from the endpoint
type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("remote write failed with status %d: %s", e.StatusCode, e.Body)
}

// Send pushes a batch of series with retry and exponential backoff
func (c *RemoteWriteClient) Send(ctx context.Context, series []remoteWriteSeries) error {
	if len(series) == 0 {
		return nil
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryConfig.BaseDelay << uint(attempt-1)
			if delay > c.retryConfig.MaxDelay {
				delay = c.retryConfig.MaxDelay
			}

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
			}
		}

		err := c.sendOnce(ctx, series)
		if err == nil {
			return nil
		}

		lastErr = err
		if !isRetryableError(err) {
			return err
		}
	}

	return fmt.Errorf("failed after %d retries: %w", c.retryConfig.MaxRetries, lastErr)
}

// SendGaugeMetric sends a single gauge sample
func (c *RemoteWriteClient) SendGaugeMetric(ctx context.Context, metricName string, value float64, labels map[string]string) error {
	return c.Send(ctx, []remoteWriteSeries{{
		Name:        metricName,
		Labels:      labels,
		Value:       value,
		TimestampMs: c.now().UnixMilli(),
	}})
}

// sendOnce sends the batch once (without retry)
func (c *RemoteWriteClient) sendOnce(ctx context.Context, series []remoteWriteSeries) error {
	compressed := snappy.Encode(nil, encodeWriteRequest(series))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(compressed))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/x-protobuf")
	httpReq.Header.Set("Content-Encoding", "snappy")
	httpReq.Header.Set("X-Prometheus-Remote-Write-Version", "0.1.0")

	if err := c.addAuthentication(httpReq); err != nil {
		return fmt.Errorf("failed to add authentication: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &statusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return nil
}

// addAuthentication adds authentication headers to the request
func (c *RemoteWriteClient) addAuthentication(req *http.Request) error {
	if c.authConfig == nil {
		return nil
	}

	if c.authConfig.Username == "" || c.authConfig.Password == "" {
		return fmt.Errorf("basic auth requires username and password")
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.authConfig.Username + ":" + c.authConfig.Password))
	req.Header.Set("Authorization", "Basic "+auth)

	return nil
}

// isRetryableError reports whether a failed push may succeed on retry:
// 5xx and 429 responses, timeouts and network errors
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var se *statusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500 || se.StatusCode == http.StatusTooManyRequests
	}

	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
