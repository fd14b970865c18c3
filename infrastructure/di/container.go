package di

import (
	"context"
	"errors"
	"fmt"

	"github.com/ca-srg/opday/domain"
	"github.com/ca-srg/opday/domain/repository"
	"github.com/ca-srg/opday/domain/service"
	"github.com/ca-srg/opday/domain/valueobject"
	"github.com/ca-srg/opday/infrastructure/config"
	"github.com/ca-srg/opday/infrastructure/logging"
	infraRepo "github.com/ca-srg/opday/infrastructure/repository"
	"github.com/ca-srg/opday/interface/cli"
	"github.com/ca-srg/opday/interface/presenter"
	"github.com/ca-srg/opday/usecase/impl"
	usecase "github.com/ca-srg/opday/usecase/interface"
)

// Container is the dependency injection container
type Container struct {
	// Configuration
	config        *config.AppConfig
	configRepo    repository.ConfigRepository
	configService usecase.ConfigService

	// Repositories
	offsetSource repository.OffsetSourceRepository
	metricsRepo  repository.MetricsRepository

	clock domain.Clock

	// Use Cases
	offsetCache     usecase.OffsetCache
	boundaryService usecase.BoundaryService
	metricsService  usecase.MetricsService

	// Presenters
	consolePresenter presenter.ConsolePresenter
	jsonPresenter    presenter.JSONPresenter

	// Controllers
	cliController *cli.CLIController

	// Logging
	loggerFactory domain.LoggerFactory
	logger        domain.Logger

	// Options
	debugMode bool
	version   string
}

// ContainerOption is a function that configures the container
type ContainerOption func(*Container)

// WithDebugMode sets the debug mode
func WithDebugMode(debug bool) ContainerOption {
	return func(c *Container) {
		c.debugMode = debug
	}
}

// WithClock replaces the system clock
func WithClock(clock domain.Clock) ContainerOption {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithOffsetSource replaces the configured offset source
func WithOffsetSource(source repository.OffsetSourceRepository) ContainerOption {
	return func(c *Container) {
		c.offsetSource = source
	}
}

// WithConfigRepository replaces the default ~/.config/opday/config.json repository
func WithConfigRepository(repo repository.ConfigRepository) ContainerOption {
	return func(c *Container) {
		c.configRepo = repo
	}
}

// WithVersion sets the version reported by the CLI
func WithVersion(version string) ContainerOption {
	return func(c *Container) {
		c.version = version
	}
}

// NewContainer creates a new DI container
func NewContainer(opts ...ContainerOption) (*Container, error) {
	container := &Container{
		version: "dev",
	}

	for _, opt := range opts {
		opt(container)
	}

	if err := container.initConfig(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	if err := container.initLogging(); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	if err := container.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	if err := container.initUseCases(); err != nil {
		return nil, fmt.Errorf("failed to initialize use cases: %w", err)
	}

	if err := container.initPresenters(); err != nil {
		return nil, fmt.Errorf("failed to initialize presenters: %w", err)
	}

	if err := container.initControllers(); err != nil {
		return nil, fmt.Errorf("failed to initialize controllers: %w", err)
	}

	return container, nil
}

// initConfig initializes configuration
func (c *Container) initConfig() error {
	if c.configRepo == nil {
		c.configRepo = infraRepo.NewJSONConfigRepository()
	}

	// Logging is configured from the config, so loading uses a NoOpLogger
	configService, err := impl.NewConfigService(c.configRepo, &logging.NoOpLogger{})
	if err != nil {
		return fmt.Errorf("failed to create config service: %w", err)
	}
	c.configService = configService

	cfg := configService.GetConfig()

	// Override debug mode if set via command line
	if c.debugMode {
		if cfg.Logging == nil {
			cfg.Logging = &config.LoggingConfig{Level: "debug"}
		}
		cfg.Logging.Debug = true
	}

	c.config = cfg
	return nil
}

// initLogging initializes logging components
func (c *Container) initLogging() error {
	if c.config.Logging == nil {
		c.config.Logging = &config.LoggingConfig{
			Level:    "info",
			Promtail: &config.PromtailConfig{BatchWaitSeconds: 1},
		}
	}

	if c.debugMode {
		c.loggerFactory = logging.NewDebugLoggerFactory(c.config.Logging)
	} else {
		c.loggerFactory = logging.NewLoggerFactory(c.config.Logging)
	}

	c.logger = c.loggerFactory.CreateLogger("opday")
	return nil
}

// initRepositories initializes repository implementations
func (c *Container) initRepositories() error {
	if c.offsetSource == nil {
		source, err := c.newOffsetSource()
		if err != nil {
			return fmt.Errorf("failed to create %s offset source: %w", c.config.Offset.Source, err)
		}
		c.offsetSource = source
	}

	if c.config.Prometheus != nil && c.config.Prometheus.RemoteWriteURL != "" {
		metricsRepo, err := infraRepo.NewPrometheusMetricsRepository(c.config.Prometheus)
		if err != nil {
			return fmt.Errorf("failed to create metrics repository: %w", err)
		}
		c.metricsRepo = metricsRepo
	} else {
		c.metricsRepo = infraRepo.NewNoOpMetricsRepository()
	}

	return nil
}

// newOffsetSource builds the offset source selected by offset.source
func (c *Container) newOffsetSource() (repository.OffsetSourceRepository, error) {
	cfg := c.config

	switch cfg.Offset.Source {
	case config.SourceTypeHTTP:
		if cfg.HTTP == nil || cfg.HTTP.URL == "" {
			// Not configured yet: serve the default cutover
			c.logger.Warn(context.Background(), "HTTP offset source has no URL, serving the default cutover",
				domain.NewField("default", cfg.Offset.Default))
			return infraRepo.NewStaticOffsetSourceRepository(cfg.Offset.Default), nil
		}
		return infraRepo.NewHTTPOffsetSourceRepository(cfg.HTTP, cfg.Offset.FetchTimeout())
	case config.SourceTypeLaunchDarkly:
		return infraRepo.NewLaunchDarklyOffsetSourceRepository(cfg.LaunchDarkly)
	case config.SourceTypeSSM:
		return infraRepo.NewSSMOffsetSourceRepository(cfg.SSM)
	case config.SourceTypeSQLite:
		return infraRepo.NewSQLiteOffsetSourceRepository(cfg.SQLite), nil
	case config.SourceTypeStatic:
		value := cfg.Offset.Default
		if cfg.Static != nil {
			value = cfg.Static.Offset
		}
		return infraRepo.NewStaticOffsetSourceRepository(value), nil
	default:
		return nil, domain.ErrInvalidInput("offset.source", "unknown offset source "+cfg.Offset.Source)
	}
}

// initUseCases initializes use case implementations
func (c *Container) initUseCases() error {
	defaultOffset, err := valueobject.ParseOffset(c.config.Offset.Default)
	if err != nil {
		return fmt.Errorf("invalid default offset: %w", err)
	}

	alignment, err := service.ParseWeekAlignment(c.config.Offset.WeekAlignment)
	if err != nil {
		return fmt.Errorf("invalid week alignment: %w", err)
	}

	c.offsetCache = impl.NewOffsetCache(c.offsetSource, c.clock, impl.OffsetCacheConfig{
		TTL:           c.config.Offset.CacheTTL(),
		FetchTimeout:  c.config.Offset.FetchTimeout(),
		DefaultOffset: defaultOffset,
	}, c.CreateLogger("offset-cache"))

	c.boundaryService = impl.NewBoundaryService(
		c.offsetCache,
		c.offsetSource,
		c.clock,
		alignment,
		c.CreateLogger("boundary"),
	)

	c.metricsService = impl.NewMetricsServiceImpl(
		c.boundaryService,
		c.metricsRepo,
		c.config.Prometheus,
		c.CreateLogger("metrics"),
	)

	return nil
}

// initPresenters initializes presenter implementations
func (c *Container) initPresenters() error {
	c.consolePresenter = presenter.NewConsolePresenter()
	c.jsonPresenter = presenter.NewJSONPresenter()
	return nil
}

// initControllers initializes controller implementations
func (c *Container) initControllers() error {
	c.cliController = newCLIController(c)
	return nil
}

// GetConfig returns the application configuration
func (c *Container) GetConfig() *config.AppConfig {
	return c.config
}

// GetConfigService returns the config service
func (c *Container) GetConfigService() usecase.ConfigService {
	return c.configService
}

// GetOffsetSource returns the offset source in use
func (c *Container) GetOffsetSource() repository.OffsetSourceRepository {
	return c.offsetSource
}

// GetMetricsRepository returns the metrics repository
func (c *Container) GetMetricsRepository() repository.MetricsRepository {
	return c.metricsRepo
}

// GetOffsetCache returns the cutover cache
func (c *Container) GetOffsetCache() usecase.OffsetCache {
	return c.offsetCache
}

// GetBoundaryService returns the boundary service
func (c *Container) GetBoundaryService() usecase.BoundaryService {
	return c.boundaryService
}

// GetMetricsService returns the metrics service
func (c *Container) GetMetricsService() usecase.MetricsService {
	return c.metricsService
}

// GetCLIController returns the CLI controller
func (c *Container) GetCLIController() *cli.CLIController {
	return c.cliController
}

// GetLogger returns the main logger
func (c *Container) GetLogger() domain.Logger {
	return c.logger
}

// CreateLogger creates a new logger for a specific component
func (c *Container) CreateLogger(component string) domain.Logger {
	if c.loggerFactory == nil {
		return &logging.NoOpLogger{}
	}
	return c.loggerFactory.CreateLogger(component)
}

// Close releases clients held by the container and flushes log shipping
func (c *Container) Close() error {
	var errs []error

	if c.metricsRepo != nil {
		errs = append(errs, c.metricsRepo.Close())
	}
	if closer, ok := c.offsetSource.(interface{ Close() error }); ok {
		errs = append(errs, closer.Close())
	}
	if c.loggerFactory != nil {
		errs = append(errs, c.loggerFactory.Shutdown())
	}

	return errors.Join(errs...)
}
