package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clubops/membersync/internal/config"
	"github.com/clubops/membersync/internal/storage/sqlite"
	"github.com/clubops/membersync/internal/sync"
	"github.com/clubops/membersync/internal/wildapricot"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	mode := flag.String("mode", "incremental", "Sync mode: full or incremental")
	dryRun := flag.Bool("dry-run", false, "Classify records without persisting any writes")
	staleDays := flag.Int("stale-days", 30, "Stale threshold in days for stale/cleanup commands")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	ctx := context.Background()

	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	client := wildapricot.NewClient(wildapricot.Config{
		APIKey:            cfg.APIKey,
		AccountID:         cfg.AccountID,
		BaseURL:           cfg.APIBaseURL,
		AuthURL:           cfg.AuthURL,
		PageSize:          cfg.PageSize,
		RequestTimeout:    cfg.RequestTimeout,
		TokenExpiryBuffer: cfg.TokenExpiryBuffer,
		MaxRetries:        cfg.MaxRetries,
		RetryBaseDelay:    cfg.RetryBaseDelay,
		RetryMaxDelay:     cfg.RetryMaxDelay,
		AsyncPollInterval: cfg.AsyncPollInterval,
		AsyncMaxAttempts:  cfg.AsyncMaxAttempts,
	}, logger)

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Error("metrics listener failed", "addr", cfg.MetricsAddr, "error", err)
			}
		}()
	}

	dry := *dryRun || !cfg.LiveWritesAllowed()
	if dry && !*dryRun && !cfg.DryRun {
		logger.Warn("live writes are not allowed in this environment, forcing dry run",
			"environment", cfg.Environment)
	}

	svc := sync.NewService(client, store, logger, sync.Options{
		DryRun:          dry,
		ContactLookback: cfg.ContactLookback,
		EventLookback:   cfg.EventLookback,
		BatchSize:       cfg.DBBatchSize,
	})

	switch command {
	case "sync":
		if err := runSync(ctx, svc, *mode); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "stale":
		if err := runStale(ctx, svc, *staleDays); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "cleanup":
		deleted, err := svc.CleanupStaleMappings(ctx, *staleDays, dry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed %d stale mappings (dry run: %v)\n", deleted, dry)
	case "health":
		health := client.HealthCheck(ctx)
		printJSON(health)
		if !health.OK {
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runSync(ctx context.Context, svc sync.Service, mode string) error {
	var (
		result *sync.Result
		err    error
	)
	switch mode {
	case "full":
		result, err = svc.FullSync(ctx)
	case "incremental":
		result, err = svc.IncrementalSync(ctx)
	default:
		return fmt.Errorf("unknown mode %q (expected full or incremental)", mode)
	}
	if err != nil {
		return err
	}

	printJSON(result)
	if !result.Success {
		return fmt.Errorf("sync completed with %d record errors", len(result.Errors))
	}
	return nil
}

func runStale(ctx context.Context, svc sync.Service, staleDays int) error {
	stale, err := svc.DetectStaleRecords(ctx, staleDays)
	if err != nil {
		return err
	}
	printJSON(stale)
	return nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode output: %v\n", err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func printVersion() {
	fmt.Printf("membersync\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: membersync [flags] <command>

Commands:
  sync      Run a sync pass against the membership platform
  stale     List ID mappings not observed within -stale-days
  cleanup   Delete stale ID mappings (entities are kept)
  health    Probe platform reachability

Flags:
`)
	flag.PrintDefaults()
}
