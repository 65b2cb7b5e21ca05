// Command api serves the campaign analytics reports over HTTP.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/card-campaign-analytics/internal/analytics"
	"github.com/dvloznov/card-campaign-analytics/internal/api"
	"github.com/dvloznov/card-campaign-analytics/internal/campaign"
	"github.com/dvloznov/card-campaign-analytics/internal/config"
	"github.com/dvloznov/card-campaign-analytics/internal/jobs"
	"github.com/dvloznov/card-campaign-analytics/internal/jobs/inmemory"
	"github.com/dvloznov/card-campaign-analytics/internal/logger"
	"github.com/dvloznov/card-campaign-analytics/internal/refresh"
	statusmem "github.com/dvloznov/card-campaign-analytics/internal/status/inmemory"
)

func main() {
	cfg, err := config.ParseServer(flag.CommandLine, os.Args[1:], config.OSGetenv)
	if err != nil {
		l := logger.New()
		l.Fatal().Err(err).Msg("Invalid configuration")
	}

	log := logger.NewWithLevel(cfg.LogLevel)
	ctx := context.Background()

	src, closeSource, err := config.OpenSource(ctx, cfg.Source)
	if err != nil {
		log.Fatal().Err(err).Str("data_source", cfg.Source.Kind).Msg("Failed to open dataset source")
	}
	defer closeSource()

	cal := campaign.Default()
	holder := analytics.NewHolder(nil)
	refresher := refresh.New(src, cal, holder, log)

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore, log)
	refresher.Publisher = jobQueue

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	if err := jobQueue.Start(workerCtx, refresher.Handle); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job workers")
	}

	// The first load runs as a job so its outcome is visible under /api/jobs.
	// Until it completes the analytics endpoints answer 503.
	startup := &jobs.RefreshJob{Source: src.Name(), Trigger: jobs.TriggerStartup}
	if err := jobQueue.PublishRefresh(ctx, startup); err != nil {
		log.Fatal().Err(err).Msg("Failed to enqueue startup refresh")
	}

	if cfg.RefreshInterval > 0 {
		go func() {
			if err := refresher.Schedule(workerCtx, cfg.RefreshInterval); err != nil {
				log.Error().Err(err).Msg("Refresh scheduler stopped with error")
			}
		}()
	}

	handler := api.NewRouter(api.Config{
		Holder:      holder,
		Calendar:    cal,
		Statuses:    statusmem.NewStore(),
		Jobs:        jobStore,
		Publisher:   jobQueue,
		Source:      src.Name(),
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("data_source", src.Name()).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stop the scheduler and workers, then wait for in-flight jobs
	cancelWorker()
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}
