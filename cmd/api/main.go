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
	automationHandler "github.com/jwalitptl/studio-automations/internal/handler/automation"
	"github.com/jwalitptl/studio-automations/internal/handler/execution"
	"github.com/jwalitptl/studio-automations/internal/middleware"
	"github.com/jwalitptl/studio-automations/internal/repository/postgres"
	"github.com/jwalitptl/studio-automations/internal/router"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := bootstrap.NewLogger(cfg.App)
	if cfg.JWT.Secret == "" {
		log.Warn("No JWT secret configured, every API request will be rejected")
	}

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}

	rt, err := bootstrap.New(context.Background(), cfg, log, db, "api")
	if err != nil {
		db.Close()
		log.Fatal(err, "Failed to initialize runtime")
	}
	defer rt.Close()

	// Setup router
	r := router.NewRouter(
		log,
		middleware.NewAuthMiddleware(cfg.JWT.Secret, cfg.JWT.Issuer),
		rt.HealthHandler(),
		rt.MetricsHandler(),
		router.RouterConfig{
			RateLimit:   cfg.Server.RateLimit,
			RateBurst:   cfg.Server.RateBurst,
			Timeout:     time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSOrigins: cfg.Server.CORSOrigins,
		},
		execution.NewHandler(rt.Executions),
		automationHandler.NewHandler(rt.Orchestrator),
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r.Engine(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Start server
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err, "Failed to start server")
		}
	}()
	log.Info("API server listening", "port", cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "Server forced to shutdown")
	}

	log.Info("Server exited properly")
}
