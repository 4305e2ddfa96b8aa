package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/riftlab/draftcrawl/internal/adapters/http/debug"
	"github.com/riftlab/draftcrawl/internal/app"
	"github.com/riftlab/draftcrawl/internal/config"
	"github.com/riftlab/draftcrawl/internal/riot"
	"github.com/riftlab/draftcrawl/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// Local development convention: credentials live in .env. A missing
	// file is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	client := riot.New(
		riot.WithAPIKey(cfg.APIKey),
		riot.WithPlatform(cfg.Platform),
		riot.WithRegion(cfg.Region),
		riot.WithBaseURLs(cfg.PlatformBaseURL, cfg.RegionBaseURL),
		riot.WithRequestRate(cfg.RequestsPerSecond, cfg.Burst),
		riot.WithCooldown(time.Duration(cfg.CooldownSeconds)*time.Second),
	)

	var dbg *debug.Server
	if cfg.MetricsAddr != "" {
		dbg = debug.New(cfg.MetricsAddr)
		go func() {
			if err := dbg.Start(ctx); err != nil {
				log.Error(ctx, "debug server failed", logger.Error(err))
			}
		}()
	}

	pipeline := app.New(client,
		app.WithLeague(cfg.Queue, cfg.Tier, cfg.Division),
		app.WithMaxPages(cfg.MaxPages),
		app.WithMaxRoster(cfg.MaxRoster),
		app.WithPerPlayerCount(cfg.PerPlayerMatches),
		app.WithTargetCorpus(cfg.TargetCorpus),
		app.WithWorkers(cfg.WorkerCount),
		app.WithBatchSize(cfg.BatchSize),
		app.WithOutputDir(cfg.OutputDir),
	)

	runErr := pipeline.Run(ctx)

	if dbg != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := dbg.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "debug server shutdown failed", logger.Error(err))
		}
	}

	if runErr != nil {
		// An interrupted run is resumable; say so instead of failing silently.
		if ctx.Err() != nil {
			log.Info(ctx, "run interrupted; rerun to resume from committed artifacts")
			return
		}
		log.Error(ctx, "crawl run failed", logger.Error(runErr))
		os.Exit(1)
	}
}
