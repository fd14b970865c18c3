package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ca-srg/opday/domain"
	"github.com/ca-srg/opday/interface/presenter"
	usecase "github.com/ca-srg/opday/usecase/interface"
)

// ErrUsage is returned for an unknown command or bad arguments
var ErrUsage = errors.New("usage error")

const usageText = `Usage: opday [--json] [--debug] <command> [args]

Commands:
  now                     operating day containing the current instant (default)
  day [--at TIME|--key D] operating day containing TIME, or with key D (YYYY-MM-DD)
  week [--at TIME]        operating week containing TIME
  same-day A B            whether A and B fall in the same operating day
  status                  cutover cache state and counters
  invalidate              drop the cached cutover and re-fetch it
  set-cutover HH:MM:SS    write a new cutover to a writable source
  push-metrics            push boundary gauges once
  serve                   push boundary gauges periodically until interrupted
  config show|init|path   inspect or create the configuration file
  version                 print the version

TIME is RFC 3339 (2026-03-10T02:00:00Z) or Unix epoch milliseconds.
`

// CLIController handles command-line interface operations
type CLIController struct {
	boundaryService  usecase.BoundaryService
	metricsService   usecase.MetricsService
	configService    usecase.ConfigService
	consolePresenter presenter.ConsolePresenter
	jsonPresenter    presenter.JSONPresenter
	logger           domain.Logger
	version          string
	jsonOutput       bool
}

// NewCLIController creates a new CLI controller
func NewCLIController(
	boundaryService usecase.BoundaryService,
	metricsService usecase.MetricsService,
	configService usecase.ConfigService,
	consolePresenter presenter.ConsolePresenter,
	jsonPresenter presenter.JSONPresenter,
	logger domain.Logger,
	version string,
) *CLIController {
	return &CLIController{
		boundaryService:  boundaryService,
		metricsService:   metricsService,
		configService:    configService,
		consolePresenter: consolePresenter,
		jsonPresenter:    jsonPresenter,
		logger:           logger,
		version:          version,
	}
}

// SetJSONOutput selects the JSON presenter
func (c *CLIController) SetJSONOutput(enabled bool) {
	c.jsonOutput = enabled
}

// Usage writes the command summary
func Usage(w io.Writer) {
	_, _ = fmt.Fprint(w, usageText)
}

// Run dispatches a command. args excludes global flags.
func (c *CLIController) Run(ctx context.Context, args []string) error {
	command := "now"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "now":
		return c.runNow(ctx)
	case "day":
		return c.runDay(ctx, args)
	case "week":
		return c.runWeek(ctx, args)
	case "same-day":
		return c.runSameDay(ctx, args)
	case "status":
		return c.runStatus(ctx)
	case "invalidate":
		return c.runInvalidate(ctx)
	case "set-cutover":
		return c.runSetCutover(ctx, args)
	case "push-metrics":
		return c.runPushMetrics(ctx)
	case "serve":
		return c.runServe(ctx)
	case "config":
		return c.runConfig(args)
	case "version":
		c.consolePresenter.PrintVersion(c.version)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, command)
	}
}

// PrintError reports err through the active presenter
func (c *CLIController) PrintError(err error) {
	if c.jsonOutput {
		_ = c.jsonPresenter.PrintError(err)
		return
	}
	c.consolePresenter.PrintError(err)
}

func (c *CLIController) output() presenter.BoundaryPresenter {
	if c.jsonOutput {
		return c.jsonPresenter
	}
	return c.consolePresenter
}

func (c *CLIController) runNow(ctx context.Context) error {
	day, err := c.boundaryService.Today(ctx)
	if err != nil {
		return err
	}
	return c.output().PrintDay(day)
}

func (c *CLIController) runDay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("day", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	atRaw := fs.String("at", "", "instant to resolve (RFC 3339 or epoch milliseconds)")
	key := fs.String("key", "", "day key to resolve (YYYY-MM-DD)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var (
		day *usecase.DaySnapshot
		err error
	)
	switch {
	case *atRaw != "" && *key != "":
		return fmt.Errorf("%w: --at and --key are mutually exclusive", ErrUsage)
	case *key != "":
		day, err = c.boundaryService.DayForKey(ctx, *key)
	case *atRaw != "":
		at, parseErr := ParseInstant(*atRaw)
		if parseErr != nil {
			return parseErr
		}
		day, err = c.boundaryService.DayAt(ctx, at)
	default:
		return c.runNow(ctx)
	}
	if err != nil {
		return err
	}
	return c.output().PrintDay(day)
}

func (c *CLIController) runWeek(ctx context.Context, args []string) error {
	at, err := parseAtFlag("week", args)
	if err != nil {
		return err
	}

	var week *usecase.WeekSnapshot
	if at == nil {
		week, err = c.boundaryService.ThisWeek(ctx)
	} else {
		week, err = c.boundaryService.WeekAt(ctx, *at)
	}
	if err != nil {
		return err
	}
	return c.output().PrintWeek(week)
}

func (c *CLIController) runSameDay(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: same-day takes exactly two instants", ErrUsage)
	}

	a, err := ParseInstant(args[0])
	if err != nil {
		return err
	}
	b, err := ParseInstant(args[1])
	if err != nil {
		return err
	}

	same, err := c.boundaryService.IsSameOperatingDay(ctx, a, b)
	if err != nil {
		return err
	}
	dayA, err := c.boundaryService.DayAt(ctx, a)
	if err != nil {
		return err
	}
	dayB, err := c.boundaryService.DayAt(ctx, b)
	if err != nil {
		return err
	}

	return c.output().PrintSameDay(&presenter.SameDayResult{
		A:    a.UTC(),
		B:    b.UTC(),
		KeyA: dayA.Key,
		KeyB: dayB.Key,
		Same: same,
	})
}

func (c *CLIController) runStatus(ctx context.Context) error {
	// Resolve once so the status reflects a real lookup
	_ = c.boundaryService.CurrentOffset(ctx)
	return c.output().PrintCacheStatus(c.boundaryService.CacheStatus(), c.boundaryService.CacheStats())
}

func (c *CLIController) runInvalidate(ctx context.Context) error {
	c.boundaryService.Invalidate(ctx)
	off := c.boundaryService.CurrentOffset(ctx)

	status := c.boundaryService.CacheStatus()
	return c.output().PrintMessage("invalidate",
		fmt.Sprintf("cutover is %s (%s from %s)", off, status.LastOutcome, status.Source))
}

func (c *CLIController) runSetCutover(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: set-cutover takes one HH:MM:SS value", ErrUsage)
	}

	if err := c.boundaryService.SetCutover(ctx, args[0]); err != nil {
		return err
	}
	return c.output().PrintMessage("set-cutover",
		fmt.Sprintf("cutover is now %s", c.boundaryService.CurrentOffset(ctx)))
}

func (c *CLIController) runPushMetrics(ctx context.Context) error {
	if err := c.metricsService.SendCurrentMetrics(ctx); err != nil {
		return err
	}
	return c.output().PrintMessage("push-metrics", "boundary gauges sent")
}

// runServe pushes metrics periodically until ctx is cancelled
func (c *CLIController) runServe(ctx context.Context) error {
	if err := c.metricsService.StartPeriodicMetrics(); err != nil {
		return fmt.Errorf("failed to start metrics service: %w", err)
	}
	c.logger.Info(ctx, "Serving boundary metrics")

	<-ctx.Done()

	c.logger.Info(context.Background(), "Shutting down metrics service...")
	if err := c.metricsService.StopPeriodicMetrics(); err != nil {
		return fmt.Errorf("failed to stop metrics service: %w", err)
	}
	return nil
}

func (c *CLIController) runConfig(args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "show":
		return c.output().PrintConfig(c.configService.ExportConfig())
	case "path":
		return c.output().PrintMessage("config", c.configService.GetConfigPath())
	case "init":
		created, err := c.configService.EnsureConfigExists()
		if err != nil {
			return err
		}
		msg := "already exists at " + c.configService.GetConfigPath()
		if created {
			msg = "created " + c.configService.GetConfigPath()
		}
		return c.output().PrintMessage("config", msg)
	default:
		return fmt.Errorf("%w: unknown config subcommand %q", ErrUsage, sub)
	}
}

// parseAtFlag parses the --at flag of a subcommand; nil means "now"
func parseAtFlag(command string, args []string) (*time.Time, error) {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	at := fs.String("at", "", "instant to resolve (RFC 3339 or epoch milliseconds)")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	if *at == "" {
		return nil, nil
	}

	t, err := ParseInstant(*at)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseFlags parses a subcommand's flags and rejects positional arguments
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return nil
}

// ParseInstant accepts RFC 3339 timestamps or Unix epoch milliseconds
func ParseInstant(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, domain.ErrInvalidInstant(raw, "instant is empty")
	}

	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}

	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, domain.ErrInvalidInstant(raw, "expected RFC 3339 or epoch milliseconds")
	}
	return t.UTC(), nil
}
