package logging

import (
	"context"
	"testing"

	"github.com/ca-srg/opday/domain"
	"github.com/ca-srg/opday/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPromtailLogger_RequiresURL(t *testing.T) {
	_, err := NewPromtailLogger(nil, "test")
	assert.Error(t, err)

	_, err = NewPromtailLogger(&config.PromtailConfig{}, "test")
	assert.Error(t, err)
}

func TestPromtailLogger_LogMethods(t *testing.T) {
	// Entries are batched and shipped in the background, so an unreachable
	// endpoint only has to not block or panic
	logger, err := NewPromtailLogger(&config.PromtailConfig{
		URL:              "http://127.0.0.1:1/loki/api/v1/push",
		BatchWaitSeconds: 1,
	}, "test-component")
	if err != nil {
		t.Skip("Promtail client not available, skipping")
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			t.Logf("Failed to shutdown logger: %v", err)
		}
	}()

	ctx := context.Background()
	logger.Debug(ctx, "Debug message", domain.NewField("source", "http"))
	logger.Info(ctx, "Info message")
	logger.Warn(ctx, "Warning message", domain.NewField("attempt", 1))
	logger.Error(ctx, "Error message", domain.NewField("error", "test error"))
}

func TestPromtailLogger_WithFields(t *testing.T) {
	logger := &PromtailLogger{
		component: "test",
		fields:    []domain.Field{},
	}

	baseLogger := logger.WithFields(
		domain.NewField("source", "launchdarkly"),
		domain.NewField("version", "1.0.0"),
	)
	childLogger := baseLogger.WithFields(
		domain.NewField("module", "cache"),
	)

	assert.NotSame(t, logger, baseLogger)

	childLoggerImpl, ok := childLogger.(*PromtailLogger)
	require.True(t, ok)
	assert.Len(t, childLoggerImpl.fields, 3)
	assert.Len(t, logger.fields, 0)

	// Logging without a client is a no-op
	childLogger.Info(context.Background(), "dropped")
}

func TestPromtailLogger_Labels(t *testing.T) {
	logger := &PromtailLogger{
		component: "test",
		fields:    []domain.Field{domain.NewField("source", "ssm")},
	}

	labels := logger.labelsFor(domain.LogLevelWarn, []domain.Field{domain.NewField("attempt", 3)})

	assert.Equal(t, map[string]string{
		"level":   "WARN",
		"source":  "ssm",
		"attempt": "3",
	}, labels)
}
