package logging

import (
	"context"
	"io"
	"os"

	"github.com/ca-srg/opday/domain"
	"github.com/sirupsen/logrus"
)

// componentHook prefixes every message with the component name
type componentHook struct {
	component string
}

// Levels implements logrus.Hook interface.
func (h *componentHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook interface.
func (h *componentHook) Fire(entry *logrus.Entry) error {
	entry.Message = "[" + h.component + "] " + entry.Message
	return nil
}

// ConsoleLogger writes human-readable log lines through logrus. It is used
// when no log shipping endpoint is configured and as the tee target of DebugLogger.
type ConsoleLogger struct {
	entry *logrus.Entry
}

// NewConsoleLogger creates a logger writing to stderr, keeping stdout free for command output
func NewConsoleLogger(component string, level domain.LogLevel) *ConsoleLogger {
	return NewConsoleLoggerWithWriter(os.Stderr, component, level)
}

func NewConsoleLoggerWithWriter(out io.Writer, component string, level domain.LogLevel) *ConsoleLogger {
	base := logrus.New()
	base.SetOutput(out)
	base.SetLevel(toLogrusLevel(level))
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	base.AddHook(&componentHook{component: component})

	return &ConsoleLogger{entry: logrus.NewEntry(base)}
}

func toLogrusLevel(level domain.LogLevel) logrus.Level {
	switch level {
	case domain.LogLevelDebug:
		return logrus.DebugLevel
	case domain.LogLevelWarn:
		return logrus.WarnLevel
	case domain.LogLevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func (c *ConsoleLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	c.with(ctx, fields).Debug(msg)
}

func (c *ConsoleLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	c.with(ctx, fields).Info(msg)
}

func (c *ConsoleLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	c.with(ctx, fields).Warn(msg)
}

func (c *ConsoleLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	c.with(ctx, fields).Error(msg)
}

func (c *ConsoleLogger) WithFields(fields ...domain.Field) domain.Logger {
	return &ConsoleLogger{entry: c.entry.WithFields(toLogrusFields(fields))}
}

func (c *ConsoleLogger) with(ctx context.Context, fields []domain.Field) *logrus.Entry {
	entry := c.entry
	if ctx != nil {
		entry = entry.WithContext(ctx)
	}
	if len(fields) == 0 {
		return entry
	}
	return entry.WithFields(toLogrusFields(fields))
}

func toLogrusFields(fields []domain.Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, field := range fields {
		out[field.Key] = field.Value
	}
	return out
}
