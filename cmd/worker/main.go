package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwalitptl/studio-automations/internal/bootstrap"
	"github.com/jwalitptl/studio-automations/internal/config"
	"github.com/jwalitptl/studio-automations/internal/repository/postgres"
	"github.com/jwalitptl/studio-automations/internal/router"
	"github.com/jwalitptl/studio-automations/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := bootstrap.NewLogger(cfg.App)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.New(ctx, cfg, log, db, "worker")
	if err != nil {
		db.Close()
		log.Fatal(err, "Failed to initialize runtime")
	}
	defer rt.Close()

	scheduler, err := worker.NewPassScheduler(rt.Orchestrator, worker.SchedulerConfig{
		Schedule:    cfg.Worker.Schedule,
		RunOnStart:  cfg.Worker.RunOnStart,
		PassTimeout: cfg.Worker.PassTimeout,
	}, log)
	if err != nil {
		log.Fatal(err, "Failed to create scheduler")
	}

	// Health and metrics only; the worker exposes no API routes.
	r := router.NewRouter(log, nil, rt.HealthHandler(), rt.MetricsHandler(), router.RouterConfig{})
	r.Setup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Worker.HealthPort),
		Handler:           r.Engine(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, "Health server failed")
			stop()
		}
	}()

	if err := scheduler.Start(ctx); err != nil {
		log.Error(err, "Scheduler stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "Health server forced to shutdown")
	}

	log.Info("Worker exited properly")
}
