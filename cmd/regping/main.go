package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tkjaer/regping/internal/config"
	"github.com/tkjaer/regping/internal/endpoints"
	"github.com/tkjaer/regping/internal/output"
	"github.com/tkjaer/regping/internal/probe"
)

func main() {
	args, err := config.ParseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Setup logging
	logFile, err := config.SetupLogging(args, config.NewRunID())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logging: %v\n", err)
		os.Exit(1)
	}

	code := execute(args)
	if logFile != nil {
		logFile.Close()
	}
	os.Exit(code)
}

// execute runs one probe cycle and returns the process exit code
func execute(args config.Args) int {
	slog.Debug("Starting regping",
		"pings_per_region", args.PingsPerRegion,
		"port", args.Port,
		"timeout", args.Timeout,
		"estimate", args.Estimate,
	)

	om, err := createOutputs(args)
	if err != nil {
		slog.Error("Failed to create outputs", "error", err)
		return 1
	}
	defer om.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Run in a goroutine so we can handle signals
	done := make(chan error)
	go func() {
		done <- run(ctx, args, newSource(ctx, args), probe.NewProbeManager(args), om)
	}()

	// Wait for either completion or interrupt
	select {
	case err = <-done:
		if err != nil {
			slog.Error("regping failed", "error", err)
			return 1
		}
	case <-sigChan:
		// User pressed Ctrl+C; no partial results are printed
		slog.Debug("Received interrupt signal, stopping...")
		cancel()
		<-done
		fmt.Fprintln(os.Stderr, "Interrupted")
		return 1
	}

	slog.Debug("regping completed")
	return 0
}

// run fetches the endpoint list, probes every endpoint and writes the summaries
func run(ctx context.Context, args config.Args, src endpoints.Source, pm *probe.ProbeManager, om *output.OutputManager) error {
	sourceCtx, cancelSource := context.WithTimeout(ctx, args.SourceTimeout)
	eps, err := src.Endpoints(sourceCtx)
	cancelSource()
	if err != nil {
		return fmt.Errorf("fetching endpoints: %w", err)
	}
	eps, err = endpoints.Filter(eps, args.Include)
	if err != nil {
		return err
	}

	slog.Info("Pinging endpoints", "endpoints", len(eps), "pings_per_region", args.PingsPerRegion)
	table, err := pm.Run(ctx, eps)
	if err != nil {
		// Remaining endpoints are still reported
		slog.Warn("Some endpoints are missing from the results", "error", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	summaries := probe.SummarizeAll(table, args.EstimateMode())
	if err := om.WriteSummaries(summaries); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// newSource picks the live EC2 region list with the built-in list as fallback
func newSource(ctx context.Context, args config.Args) endpoints.Source {
	static := endpoints.NewStaticSource()
	if args.Static {
		return static
	}

	cfgCtx, cancel := context.WithTimeout(ctx, args.SourceTimeout)
	defer cancel()
	live, err := endpoints.NewEC2Source(cfgCtx, args.AWSRegion, args.AllRegions)
	if err != nil {
		slog.Warn("AWS configuration unavailable, using built-in list", "error", err)
		return static
	}
	return endpoints.FallbackSource{Primary: live, Fallback: static}
}

// createOutputs registers the JSON summary on stdout and the optional metrics file
func createOutputs(args config.Args) (*output.OutputManager, error) {
	om := &output.OutputManager{}

	jsonOut, err := output.NewJSONOutput("") // empty string = stdout
	if err != nil {
		return nil, err
	}
	om.Register(jsonOut)

	if args.MetricsFile != "" {
		om.Register(output.NewMetricsOutput(args.MetricsFile))
	}

	return om, nil
}
