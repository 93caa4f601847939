package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fredrecon/config"
	"fredrecon/internal/fred/fanout"
	"fredrecon/internal/fred/pipeline"
	"fredrecon/internal/fred/reconcile"
	"fredrecon/internal/fred/schedule"
	"fredrecon/logger"
	"fredrecon/pkg/fred"
	"fredrecon/pkg/storage/csvout"
	"fredrecon/pkg/storage/postgres"

	"go.uber.org/zap"
)

func main() {
	// viper config
	cfg := config.Load()

	// Positional overrides kept from the original automation surface:
	// daily trigger time ("HH:MM") and reconciliation frequency.
	if len(os.Args) > 1 {
		cfg.Schedule.At = os.Args[1]
	}
	if len(os.Args) > 2 {
		cfg.Schedule.Frequency = os.Args[2]
	}

	// Configuration problems are the only errors fatal before a fetch.
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// zap logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer log.Sync()

	// Shutdown signal cancels an in-flight run between fan-out items.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := fred.NewClient(
		cfg.Fred.BaseURL,
		cfg.Fred.ResolveAPIKey(cfg.Log.Environment),
		cfg.Fred.Timeout,
	)

	params := reconcile.Params{
		ReleaseName:        cfg.Reconcile.ReleaseName,
		Frequency:          cfg.Schedule.Frequency,
		SeasonalAdjustment: cfg.Reconcile.SeasonalAdjustment,
		ComponentSeries:    cfg.Reconcile.ComponentSeries,
		TotalSeries:        cfg.Reconcile.TotalSeries,
		Year:               cfg.Reconcile.Year,
	}
	opts := fanout.Options{
		Workers:       cfg.Fred.Concurrency,
		MinRequestGap: cfg.Fred.MinRequestGap,
	}
	pipe := pipeline.New(client, params, opts, log)

	csvWriter, err := csvout.NewWriter(cfg.Output.Dir)
	if err != nil {
		log.Fatal("failed to prepare output directory", zap.Error(err))
	}

	var db *postgres.PostgresClient
	if cfg.Output.SaveToDB {
		db, err = postgres.InitializeAndMigrate(cfg.Postgres, cfg.Log.Environment, true)
		if err != nil {
			log.Fatal("failed to connect to DB", zap.Error(err))
		}
		defer db.Close()
	}

	run := func(ctx context.Context) {
		runOnce(ctx, log, pipe, csvWriter, db, cfg.Output.RetainDays)
	}

	sched := schedule.New(log, ctx)
	if _, err := sched.Add(cfg.Schedule.At, run); err != nil {
		log.Fatal("failed to schedule daily run", zap.Error(err))
	}
	sched.Start()
	log.Info("daily run scheduled",
		zap.String("at", cfg.Schedule.At),
		zap.String("frequency", cfg.Schedule.Frequency))

	if cfg.Schedule.RunOnStart {
		run(ctx)
	}

	<-ctx.Done()
	sched.Stop()
}

func runOnce(ctx context.Context, log *zap.Logger, pipe *pipeline.Pipeline, csvWriter *csvout.Writer, db *postgres.PostgresClient, retainDays int) {
	runAt := time.Now().UTC()
	runID := runAt.Format("20060102T150405")

	result, err := pipe.Run(ctx)
	if err != nil {
		log.Error("pipeline run aborted", zap.String("run_id", runID), zap.Error(err))
		return
	}

	log.Info("pipeline run finished",
		zap.String("run_id", runID),
		zap.Int("releases", result.Counts.Releases),
		zap.Int("series", result.Counts.Series),
		zap.Int("observations", result.Counts.Observations),
		zap.Int("merged_rows", result.Counts.Merged),
		zap.Int("failed_releases", len(result.ReleaseFailures)),
		zap.Int("failed_series", len(result.SeriesFailures)),
		zap.Int("reconciled_dates", len(result.Reconciliation.Rows)))

	if path, err := csvWriter.WriteMerged(result.Merged, runAt); err != nil {
		log.Error("failed to write merged table", zap.Error(err))
	} else {
		log.Info("merged table written", zap.String("path", path))
	}

	if path, err := csvWriter.WriteReconciliation(result.Reconciliation, runAt); err != nil {
		log.Error("failed to write reconciliation table", zap.Error(err))
	} else {
		log.Info("reconciliation table written", zap.String("path", path))
	}

	if db != nil {
		dbCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if !db.IsHealthy(dbCtx) {
			log.Error("postgres unreachable, skipping persistence", zap.String("run_id", runID))
			return
		}
		if err := db.SaveRun(dbCtx, runID, result.Merged, result.Reconciliation); err != nil {
			log.Error("failed to persist run artifacts", zap.String("run_id", runID), zap.Error(err))
		} else if n, err := db.CountRunObservations(dbCtx, runID); err == nil {
			log.Info("run artifacts persisted", zap.String("run_id", runID), zap.Int64("observation_rows", n))
		}

		if retainDays > 0 {
			cutoff := runAt.AddDate(0, 0, -retainDays)
			if err := db.DeleteRunsBefore(dbCtx, cutoff); err != nil {
				log.Warn("failed to prune old runs", zap.Time("cutoff", cutoff), zap.Error(err))
			}
		}
	}
}
