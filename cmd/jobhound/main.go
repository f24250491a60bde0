package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"jobhound/internal/api/handlers"
	"jobhound/internal/api/routes"
	"jobhound/internal/config"
	"jobhound/internal/fetch"
	"jobhound/internal/logging"
	"jobhound/internal/notify"
	"jobhound/internal/pipeline"
	"jobhound/internal/scheduler"
	"jobhound/internal/scraper"
	"jobhound/internal/store"
	"jobhound/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration file")
	dryRun := flag.Bool("dry-run", false, "score and rank without persisting or notifying webhooks")
	daemon := flag.Bool("daemon", false, "run on a schedule with the status API instead of once")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *verbose {
		cfg.Logging.Level = "debug"
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	logger := logging.Component("main")
	logger.Info().Str("profile", cfg.Profile.Name).Msg("starting jobhound")

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open posting store")
	}
	defer st.Close()

	fetcher := fetch.NewClient(cfg)
	adapters := scraper.BuildAdapters(cfg, fetcher)
	if len(adapters) == 0 {
		logger.Fatal().Msg("all sources are disabled")
	}

	p := pipeline.New(cfg, adapters, st)
	notifier := notify.New(cfg)

	if *daemon {
		runDaemon(cfg, st, p, notifier, logger)
		return
	}

	ctx := context.Background()
	res, err := p.Run(ctx, pipeline.Options{DryRun: *dryRun})
	if err != nil {
		logger.Fatal().Err(err).Msg("run failed")
	}
	notifier.Send(ctx, res)
}

func runDaemon(cfg *config.Config, st *store.Store, p *pipeline.Pipeline, notifier *notify.Notifier, logger zerolog.Logger) {
	var cache *utils.RunCache
	if cfg.Redis.Enabled {
		var err error
		cache, err = utils.NewRunCache(cfg.Redis.URL, cfg.Redis.Timeout)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, run cache disabled")
			cache = nil
		} else {
			defer cache.Close()
		}
	}
	tracker := handlers.NewRunTracker(cache)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(p, cfg.Scheduler.Spec, func(ctx context.Context, res *pipeline.Result) {
		tracker.Record(ctx, res.Summary)
		notifier.Send(ctx, res)
	})
	if err := sched.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	routes.SetupRoutes(e, cfg, st, tracker)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info().Msg("shutting down")
		cancel()
		sched.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("error shutting down server")
		}
	}()

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info().Str("address", address).Msg("status API starting")

	if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server failed to start")
	}
}
