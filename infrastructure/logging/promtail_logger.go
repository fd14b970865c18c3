package logging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ca-srg/opday/domain"
	"github.com/ca-srg/opday/infrastructure/config"
	"github.com/ic2hrmk/promtail"
)

type PromtailLogger struct {
	client    promtail.Client
	component string
	fields    []domain.Field
	mu        sync.RWMutex
}

func NewPromtailLogger(cfg *config.PromtailConfig, component string) (*PromtailLogger, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("promtail URL is not configured")
	}

	// Default labels for all logs
	defaultLabels := map[string]string{
		"app":       "opday",
		"component": component,
	}

	batchWait := time.Duration(cfg.BatchWaitSeconds) * time.Second
	if batchWait <= 0 {
		batchWait = time.Second
	}

	client, err := promtail.NewJSONv1Client(
		cfg.URL,
		defaultLabels,
		promtail.WithSendBatchSize(100),
		promtail.WithSendBatchTimeout(batchWait),
		promtail.WithBasicAuth(cfg.Username, cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create promtail client: %w", err)
	}

	return &PromtailLogger{
		client:    client,
		component: component,
		fields:    []domain.Field{},
	}, nil
}

func (p *PromtailLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	p.log(ctx, domain.LogLevelDebug, msg, fields...)
}

func (p *PromtailLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	p.log(ctx, domain.LogLevelInfo, msg, fields...)
}

func (p *PromtailLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	p.log(ctx, domain.LogLevelWarn, msg, fields...)
}

func (p *PromtailLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	p.log(ctx, domain.LogLevelError, msg, fields...)
}

func (p *PromtailLogger) WithFields(fields ...domain.Field) domain.Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()

	newFields := make([]domain.Field, len(p.fields)+len(fields))
	copy(newFields, p.fields)
	copy(newFields[len(p.fields):], fields)

	return &PromtailLogger{
		client:    p.client,
		component: p.component,
		fields:    newFields,
	}
}

// labelsFor builds the stream labels for one entry
func (p *PromtailLogger) labelsFor(level domain.LogLevel, fields []domain.Field) map[string]string {
	labels := map[string]string{
		"level": level.String(),
	}
	for _, field := range p.fields {
		labels[field.Key] = fmt.Sprintf("%v", field.Value)
	}
	for _, field := range fields {
		labels[field.Key] = fmt.Sprintf("%v", field.Value)
	}
	return labels
}

func (p *PromtailLogger) log(ctx context.Context, level domain.LogLevel, msg string, fields ...domain.Field) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.client == nil {
		return
	}

	labels := p.labelsFor(level, fields)

	var promtailLevel promtail.Level
	switch level {
	case domain.LogLevelDebug:
		promtailLevel = promtail.Debug
	case domain.LogLevelInfo:
		promtailLevel = promtail.Info
	case domain.LogLevelWarn:
		promtailLevel = promtail.Warn
	case domain.LogLevelError:
		promtailLevel = promtail.Error
	default:
		promtailLevel = promtail.Info
	}

	p.client.LogfWithLabels(promtailLevel, labels, "%s", msg)
}

func (p *PromtailLogger) Shutdown() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}
