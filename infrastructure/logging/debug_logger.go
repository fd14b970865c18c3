package logging

import (
	"context"

	"github.com/ca-srg/opday/domain"
)

// DebugLogger tees non-debug entries from a shipping logger to the console
type DebugLogger struct {
	wrapped domain.Logger
	console domain.Logger
}

func NewDebugLogger(wrapped domain.Logger, component string) *DebugLogger {
	return NewDebugLoggerWithConsole(wrapped, NewConsoleLogger(component, domain.LogLevelInfo))
}

func NewDebugLoggerWithConsole(wrapped, console domain.Logger) *DebugLogger {
	return &DebugLogger{
		wrapped: wrapped,
		console: console,
	}
}

func (d *DebugLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	// Debug entries are only shipped
	d.wrapped.Debug(ctx, msg, fields...)
}

func (d *DebugLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	d.wrapped.Info(ctx, msg, fields...)
	d.console.Info(ctx, msg, fields...)
}

func (d *DebugLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	d.wrapped.Warn(ctx, msg, fields...)
	d.console.Warn(ctx, msg, fields...)
}

func (d *DebugLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	d.wrapped.Error(ctx, msg, fields...)
	d.console.Error(ctx, msg, fields...)
}

func (d *DebugLogger) WithFields(fields ...domain.Field) domain.Logger {
	return &DebugLogger{
		wrapped: d.wrapped.WithFields(fields...),
		console: d.console.WithFields(fields...),
	}
}

func (d *DebugLogger) Shutdown() error {
	if shutdowner, ok := d.wrapped.(interface{ Shutdown() error }); ok {
		return shutdowner.Shutdown()
	}
	return nil
}
