package logging

import (
	"context"
	"errors"
	"sync"

	"github.com/ca-srg/opday/domain"
	"github.com/ca-srg/opday/infrastructure/config"
)

type LoggerFactoryImpl struct {
	config *config.LoggingConfig

	mu         sync.Mutex
	shippers   []*PromtailLogger
	forceDebug bool
}

func NewLoggerFactory(config *config.LoggingConfig) *LoggerFactoryImpl {
	return &LoggerFactoryImpl{
		config: config,
	}
}

// NewDebugLoggerFactory creates a factory that logs at debug level and tees to the console
func NewDebugLoggerFactory(config *config.LoggingConfig) *LoggerFactoryImpl {
	f := NewLoggerFactory(config)
	f.forceDebug = true
	return f
}

func (f *LoggerFactoryImpl) CreateLogger(component string) domain.Logger {
	level := domain.LogLevelInfo
	debug := f.forceDebug
	var promtailConfig *config.PromtailConfig
	if f.config != nil {
		level = domain.ParseLogLevel(f.config.Level)
		debug = debug || f.config.Debug
		promtailConfig = f.config.Promtail
	}
	if f.forceDebug {
		level = domain.LogLevelDebug
	}

	promtailLogger, err := NewPromtailLogger(promtailConfig, component)
	if err != nil {
		// Fall back to the console when log shipping is not available
		return NewConsoleLogger(component, level)
	}

	f.mu.Lock()
	f.shippers = append(f.shippers, promtailLogger)
	f.mu.Unlock()

	// Apply log level filtering
	var logger domain.Logger = promtailLogger
	logger = NewLevelFilterLogger(logger, level)

	// Wrap with debug logger if debug mode is enabled
	if debug {
		logger = NewDebugLogger(logger, component)
	}

	return logger
}

// Shutdown flushes and closes every shipping client created by this factory
func (f *LoggerFactoryImpl) Shutdown() error {
	f.mu.Lock()
	shippers := f.shippers
	f.shippers = nil
	f.mu.Unlock()

	var errs []error
	for _, s := range shippers {
		if err := s.Shutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LevelFilterLogger filters log messages based on minimum level
type LevelFilterLogger struct {
	wrapped  domain.Logger
	minLevel domain.LogLevel
}

func NewLevelFilterLogger(wrapped domain.Logger, minLevel domain.LogLevel) *LevelFilterLogger {
	return &LevelFilterLogger{
		wrapped:  wrapped,
		minLevel: minLevel,
	}
}

func (l *LevelFilterLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelDebug >= l.minLevel {
		l.wrapped.Debug(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelInfo >= l.minLevel {
		l.wrapped.Info(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelWarn >= l.minLevel {
		l.wrapped.Warn(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelError >= l.minLevel {
		l.wrapped.Error(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) WithFields(fields ...domain.Field) domain.Logger {
	return &LevelFilterLogger{
		wrapped:  l.wrapped.WithFields(fields...),
		minLevel: l.minLevel,
	}
}

// NoOpLogger is a logger that does nothing
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {}
func (n *NoOpLogger) Info(ctx context.Context, msg string, fields ...domain.Field)  {}
func (n *NoOpLogger) Warn(ctx context.Context, msg string, fields ...domain.Field)  {}
func (n *NoOpLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {}
func (n *NoOpLogger) WithFields(fields ...domain.Field) domain.Logger {
	return n
}
