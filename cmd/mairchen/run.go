package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sebastiansucker/mAIrchen/pkg/api/handlers"
	"github.com/sebastiansucker/mAIrchen/pkg/cli"
	"github.com/sebastiansucker/mAIrchen/pkg/config"
	"github.com/sebastiansucker/mAIrchen/pkg/limits"
	"github.com/sebastiansucker/mAIrchen/pkg/processing/costs"
	"github.com/sebastiansucker/mAIrchen/pkg/providers"
	"github.com/sebastiansucker/mAIrchen/pkg/server"
	"github.com/sebastiansucker/mAIrchen/pkg/story"
	"github.com/sebastiansucker/mAIrchen/pkg/telemetry/logging"
	"github.com/sebastiansucker/mAIrchen/pkg/telemetry/metrics"
	"github.com/sebastiansucker/mAIrchen/pkg/telemetry/tracing"
	"github.com/sebastiansucker/mAIrchen/pkg/usage/recorder"
	"github.com/sebastiansucker/mAIrchen/pkg/usage/retention"
	"github.com/sebastiansucker/mAIrchen/pkg/usage/storage"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the story API server",
	Long: `Start the story API server with the specified configuration.

The server admits story requests against the per-client, global and cost
limits, generates stories with the configured provider tier and journals
every outcome.

When --config is given the file is watched; changed limits, prices, story
length and log level apply without a restart. Admission history and daily
counters are kept across reloads.

Examples:
  # Start with environment configuration
  mairchen run

  # Start with custom config
  mairchen run --config /etc/mairchen/config.yaml

  # Override listen address
  mairchen run --listen 0.0.0.0:8080

  # Validate config without starting server
  mairchen run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	logger, err := newLogger(cfg, os.Stdout)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger.Slog())

	out := cmd.OutOrStdout()
	if runFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	printBanner(out, cfg)

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	svc, err := newService(ctx, cfg, logger)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer svc.Close()

	if cfgFile != "" {
		watcher, err := config.NewWatcher(cfgFile, 0, svc.Reload, logger.Slog())
		if err != nil {
			slog.Warn("config watcher disabled", "error", err)
		} else {
			go func() {
				if err := watcher.Watch(ctx); err != nil {
					slog.Warn("config watcher stopped", "error", err)
				}
			}()
			defer watcher.Stop()
		}
	}

	fmt.Fprintf(out, "✓ Provider: %s (model %s)\n", svc.generator.Tier(), svc.generator.DefaultModel())
	fmt.Fprintf(out, "✓ Listening on %s\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Fprintf(out, "✓ Metrics endpoint: %s\n", cfg.Telemetry.Metrics.Path)
	}
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	if err := svc.server.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

func newLogger(cfg *config.Config, w io.Writer) (*logging.Logger, error) {
	return logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		RedactPII: cfg.Telemetry.Logging.RedactPII,
		Writer:    w,
	})
}

// service holds the wired components of a running server.
type service struct {
	logger     *logging.Logger
	controller *limits.Controller
	calculator *costs.Calculator
	budgets    *costs.BudgetCalculator
	generator  *story.Generator
	handlers   *handlers.Handlers
	collector  *metrics.Collector
	server     *server.Server

	closers []func() error
}

// newService wires every component from cfg. Background jobs stop when ctx
// is cancelled or Close is called.
func newService(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*service, error) {
	svc := &service{logger: logger}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	svc.closers = append(svc.closers, func() error { return tracer.Shutdown(context.Background()) })

	svc.collector = metrics.NewCollector(nil)

	svc.controller, err = limits.NewController(cfg.Limits.AdmissionLimits(),
		limits.WithMetrics(limits.NewMetrics(svc.collector.Registry())),
		limits.WithLogger(logger.Slog()),
	)
	if err != nil {
		svc.Close()
		return nil, err
	}
	svc.collector.RegisterLedger(svc.controller.Snapshot)

	sweeper := limits.NewSweeper(svc.controller, cfg.Limits.SweepSchedule)
	if err := sweeper.Start(ctx); err != nil {
		svc.Close()
		return nil, err
	}
	svc.closers = append(svc.closers, func() error { sweeper.Stop(); return nil })

	client, err := providers.NewClient(cfg.Provider.ClientConfig())
	if err != nil {
		svc.Close()
		return nil, err
	}

	svc.budgets = costs.NewBudgetCalculator(cfg.Costs.BudgetConfig())
	svc.calculator = costs.NewCalculator(cfg.Costs.Pricing())
	estimator := costs.NewEstimator(svc.calculator, svc.controller)

	svc.generator = story.NewGenerator(client, svc.budgets,
		story.WithTracer(tracer),
		story.WithTemperature(cfg.Story.Temperature),
		story.WithLogger(logger.Slog()),
	)

	hcfg := handlers.Config{
		Controller:       svc.controller,
		Generator:        svc.generator,
		Estimator:        estimator,
		Metrics:          svc.collector,
		Tracer:           tracer,
		MaxLength:        cfg.Story.MaxLength,
		RedactClientKeys: cfg.Telemetry.Logging.RedactPII,
		Logger:           logger.Slog(),
	}

	if cfg.Usage.Enabled {
		rec, err := svc.openUsage(ctx, cfg.Usage)
		if err != nil {
			svc.Close()
			return nil, err
		}
		hcfg.Usage = rec
	}

	svc.handlers = handlers.New(hcfg)

	var opts []server.Option
	if cfg.Telemetry.Metrics.Enabled {
		opts = append(opts, server.WithMetrics(cfg.Telemetry.Metrics.Path, svc.collector.Handler()))
	}
	if tracer.Enabled() {
		opts = append(opts, server.WithTracing())
	}
	svc.server = server.NewServer(&cfg.Server, svc.handlers, opts...)

	return svc, nil
}

// openUsage opens the journal, starts its recorder and retention schedule.
func (s *service) openUsage(ctx context.Context, cfg config.UsageConfig) (*recorder.Recorder, error) {
	store, err := storage.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open usage journal: %w", err)
	}
	s.closers = append(s.closers, store.Close)

	rec := recorder.New(store, recorder.Config{
		BufferSize:   cfg.Recorder.BufferSize,
		WriteTimeout: cfg.Recorder.WriteTimeout,
	})
	// Registered after the store so it drains before the store closes.
	s.closers = append(s.closers, rec.Close)
	s.collector.RegisterUsageDrops(rec.Dropped)

	scheduler := retention.NewScheduler(retention.NewPruner(store, retention.Config{
		RetentionDays: cfg.Retention.Days,
		PruneSchedule: cfg.Retention.Schedule,
	}))
	if err := scheduler.Start(ctx); err != nil {
		slog.Warn("usage retention disabled", "error", err)
	} else {
		s.closers = append(s.closers, func() error { scheduler.Stop(); return nil })
		if next := scheduler.NextRun(); next != nil {
			slog.Debug("usage retention scheduled", "next_run", next)
		}
	}

	slog.Info("usage journal opened", "backend", cfg.Backend)
	return rec, nil
}

// Reload applies a changed configuration file. Listener, provider and
// journal settings need a restart.
func (s *service) Reload(cfg *config.Config) {
	if err := resolveSecrets(context.Background(), cfg); err != nil {
		s.logger.Warn("unresolved secrets in reloaded configuration", "error", err)
	}
	if err := s.controller.UpdateLimits(cfg.Limits.AdmissionLimits()); err != nil {
		s.logger.Error("rejected reloaded limits", "error", err)
		return
	}
	s.calculator.UpdatePricing(cfg.Costs.Pricing())
	s.budgets.UpdateConfig(cfg.Costs.BudgetConfig())
	s.handlers.SetMaxLength(cfg.Story.MaxLength)
	if err := s.logger.SetLevel(cfg.Telemetry.Logging.Level); err != nil {
		s.logger.Warn("kept log level", "error", err)
	}
	config.SetConfig(cfg)

	s.logger.Info("configuration reloaded",
		"per_client_limit", cfg.Limits.PerClientLimit,
		"global_daily_limit", cfg.Limits.GlobalDailyLimit,
		"max_daily_cost", cfg.Limits.MaxDailyCost,
		"max_length", cfg.Story.MaxLength,
	)
}

// Close stops background jobs and releases resources in reverse order.
func (s *service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

func printBanner(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "mAIrchen v%s\n", Version)
	if cfgFile != "" {
		fmt.Fprintf(w, "Loading configuration from: %s\n", cfgFile)
	}
	fmt.Fprintln(w, "✓ Configuration loaded")
	fmt.Fprintf(w, "✓ Limits: %d/client per %s, %d/day, budget %.2f\n",
		cfg.Limits.PerClientLimit, cfg.Limits.Window,
		cfg.Limits.GlobalDailyLimit, cfg.Limits.MaxDailyCost)

	if cfg.Usage.Enabled {
		slog.Debug("usage journal enabled", "backend", cfg.Usage.Backend)
	}
}
