package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ca-srg/opday/infrastructure/di"
	"github.com/ca-srg/opday/interface/cli"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// run parses global flags, wires the container and executes one command.
// It returns the process exit code.
func run(ctx context.Context, args []string, stderr io.Writer, extra ...di.ContainerOption) int {
	fs := flag.NewFlagSet("opday", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { cli.Usage(stderr) }

	var (
		jsonOutput  = fs.Bool("json", false, "Write results as JSON")
		debugMode   = fs.Bool("debug", false, "Enable debug logging to stderr")
		showVersion = fs.Bool("version", false, "Print the version and exit")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	rest := fs.Args()
	if *showVersion {
		rest = []string{"version"}
	}

	// Create DI container with options
	opts := []di.ContainerOption{di.WithVersion(version)}
	if *debugMode {
		opts = append(opts, di.WithDebugMode(true))
	}
	opts = append(opts, extra...)

	container, err := di.NewContainer(opts...)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Failed to initialize application: %v\n", err)
		return 1
	}
	defer func() {
		if err := container.Close(); err != nil {
			_, _ = fmt.Fprintf(stderr, "Failed to shut down cleanly: %v\n", err)
		}
	}()

	controller := container.GetCLIController()
	controller.SetJSONOutput(*jsonOutput)

	if err := controller.Run(ctx, rest); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			_, _ = fmt.Fprintf(stderr, "%v\n\n", err)
			cli.Usage(stderr)
			return 2
		}
		controller.PrintError(err)
		return 1
	}
	return 0
}
