package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/autosci-lab/discovery-core/internal/cycle"
	"github.com/autosci-lab/discovery-core/internal/design"
	"github.com/autosci-lab/discovery-core/internal/experimentalist"
	"github.com/autosci-lab/discovery-core/internal/metrics"
	"github.com/autosci-lab/discovery-core/internal/report"
	"github.com/autosci-lab/discovery-core/internal/runner"
	"github.com/autosci-lab/discovery-core/internal/state"
	"github.com/autosci-lab/discovery-core/internal/theorist"
	"github.com/autosci-lab/discovery-core/pkg/config"
	"github.com/autosci-lab/discovery-core/pkg/logger"
	"github.com/autosci-lab/discovery-core/pkg/utils"
)

func runStudy(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)

	log := logger.NewDev(cfg.LogLevel, os.Stderr)
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runID := utils.GenerateRunID()
	log.Info("starting study",
		"run_id", runID,
		"name", cfg.Study.Name,
		"cycles", cfg.Study.Cycles,
		"seed", cfg.Study.Seed)

	vars, err := cfg.VariableSet()
	if err != nil {
		return err
	}
	filters, err := design.FromConfig(cfg.Design)
	if err != nil {
		return err
	}
	space, err := design.Build(vars, filters...)
	if err != nil {
		return err
	}
	log.Info("design space built", "rows", space.Len())

	rs := utils.NewRandSource(cfg.Study.Seed)

	fitters, err := theorist.NewAll(cfg.Theorists)
	if err != nil {
		return err
	}
	bootstrap, err := experimentalist.New("random", rs)
	if err != nil {
		return err
	}
	sampler, err := experimentalist.New(cfg.Experimentalist.Strategy, rs)
	if err != nil {
		return err
	}

	engine, err := buildEngine(cfg, rs)
	if err != nil {
		return err
	}
	run := runner.New(vars, engine, cfg.Study.TrialsPerCondition, rs)
	run.SetLogger(log)

	recorder := metrics.NewRecorder()
	if cfg.MetricsAddr != "" {
		serveMetrics(cfg.MetricsAddr, recorder)
	}

	sched := cycle.NewScheduler(space, fitters, bootstrap, sampler, run,
		cfg.Study.Cycles, cfg.Study.ConditionsPerCycle)
	sched.SetLogger(log)
	sched.SetMetrics(recorder)

	final, err := sched.Run(ctx, state.New(vars))
	if err != nil {
		return fmt.Errorf("discovery loop: %w", err)
	}

	reporter := report.NewReporter(report.Options{
		StudyName: cfg.Study.Name,
		RunID:     runID,
		OutputDir: cfg.Report.OutputDir,
		Formats:   cfg.Report.Formats,
		S3Bucket:  cfg.Report.S3Bucket,
		S3Region:  cfg.Report.S3Region,
	})
	reporter.SetLogger(log)

	// Reporting gets its own deadline so a cancelled loop can still archive
	// whatever state it reached.
	reportCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	paths, err := reporter.Generate(reportCtx, final)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	fmt.Println(report.FormatSummaries(report.Summarize(final)))
	return nil
}

// applyFlagOverrides layers explicit run flags over the loaded configuration
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("cycles") {
		cfg.Study.Cycles = cycleCount
	}
	if cmd.Flags().Changed("seed") {
		cfg.Study.Seed = seedValue
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.MetricsAddr = metricsAddr
	}
}

func buildEngine(cfg *config.Config, rs *utils.RandSource) (runner.Engine, error) {
	switch cfg.Runner.Engine {
	case "synthetic":
		return runner.NewSyntheticEngine(rs), nil
	case "http":
		timeout, err := cfg.Runner.GetTimeout()
		if err != nil {
			return nil, err
		}
		poll, err := cfg.Runner.GetPollInterval()
		if err != nil {
			return nil, err
		}
		return runner.NewHTTPEngine(cfg.Runner.BaseURL, timeout, poll, rs), nil
	default:
		return nil, fmt.Errorf("unknown runner engine: %s", cfg.Runner.Engine)
	}
}

func serveMetrics(addr string, recorder *metrics.Recorder) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics server stopped", "error", err)
		}
	}()
	logger.Info("metrics listening", "addr", addr)
}
