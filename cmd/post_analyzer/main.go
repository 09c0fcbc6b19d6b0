package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/firefly/post-analyzer/internal/config"
	"github.com/firefly/post-analyzer/internal/logging"
)

func main() {
	// Parse command line flags
	cfg, err := config.ParseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, config.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}

	logger := logging.Nop()
	if cfg.Verbose {
		logger, err = logging.New(logging.Options{JSON: cfg.LogJSON})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
			os.Exit(1)
		}
	}

	runID := uuid.New()
	logger.Info("starting post analyzer",
		"run_id", runID.String(),
		"source", cfg.Source,
		"pages", cfg.Pages,
		"rate_limit", cfg.RateLimit,
		"format", cfg.Format,
	)

	// Cancel in-flight requests on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err = runPipeline(ctx, cfg, runID, logger)
	stop()

	if err != nil {
		logger.Error("analysis failed", "run_id", runID.String(), "error", err)
		logger.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("analysis complete", "run_id", runID.String())
	logger.Close()
}
