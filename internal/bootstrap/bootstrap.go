// Package bootstrap wires the automation engine from configuration. Both
// binaries build their runtime here so the worker and the operator API run
// identical passes.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	promclient "github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/studio-automations/internal/config"
	"github.com/jwalitptl/studio-automations/internal/email"
	"github.com/jwalitptl/studio-automations/internal/handler/health"
	"github.com/jwalitptl/studio-automations/internal/handler/prometheus"
	"github.com/jwalitptl/studio-automations/internal/render"
	"github.com/jwalitptl/studio-automations/internal/repository"
	"github.com/jwalitptl/studio-automations/internal/repository/postgres"
	"github.com/jwalitptl/studio-automations/internal/service/automation"
	"github.com/jwalitptl/studio-automations/pkg/logger"
	"github.com/jwalitptl/studio-automations/pkg/messaging"
	"github.com/jwalitptl/studio-automations/pkg/messaging/redis"
	"github.com/jwalitptl/studio-automations/pkg/metrics"
)

const metricsNamespace = "studio"

type Runtime struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           *sqlx.DB
	Broker       messaging.Broker
	Registry     *promclient.Registry
	Metrics      *metrics.Metrics
	Executions   repository.ExecutionRepository
	Orchestrator *automation.Orchestrator
}

// NewLogger builds the process logger from the app section.
func NewLogger(cfg config.AppConfig) *logger.Logger {
	return logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.LogLevel),
		TimeFormat: time.RFC3339,
		JSON:       cfg.LogFormat == "json",
	})
}

// New wires repositories, the sender, the dispatcher and the orchestrator on
// top of an open database. component names the metrics subsystem.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, db *sqlx.DB, component string) (*Runtime, error) {
	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(metricsNamespace, component, registry)

	formatter, err := render.NewFormatter(cfg.Automation.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to create formatter: %w", err)
	}

	sender, err := email.NewSender(ctx, cfg.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create email sender: %w", err)
	}
	if sender == nil {
		log.Warn("No email provider configured, email workflows will be skipped")
	}

	var broker messaging.Broker
	var events messaging.Publisher = messaging.NopPublisher{}
	if cfg.Redis.Enabled {
		broker, err = redis.NewRedisBroker(cfg.Redis.Config, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis broker: %w", err)
		}
		events = broker
	}

	executions := postgres.NewExecutionRepository(db)

	orchestrator := automation.NewOrchestrator(automation.Dependencies{
		Workflows:  postgres.NewWorkflowRepository(db),
		Projects:   postgres.NewProjectRepository(db),
		Settings:   postgres.NewSettingsRepository(db),
		Executions: executions,
		Renderer:   render.NewRenderer(formatter),
		Dispatcher: automation.NewDispatcher(sender, automation.DispatcherConfig{
			RatePerSecond: cfg.Dispatch.RatePerSecond,
			Burst:         cfg.Dispatch.Burst,
		}, m),
		Events:  events,
		Logger:  log.WithFields(map[string]interface{}{"component": component}),
		Metrics: m,
	}, automation.Options{
		AfterWindow:   cfg.Automation.AfterWindow,
		SubjectPrefix: cfg.Automation.SubjectPrefix,
	})

	return &Runtime{
		Config:       cfg,
		Logger:       log,
		DB:           db,
		Broker:       broker,
		Registry:     registry,
		Metrics:      m,
		Executions:   executions,
		Orchestrator: orchestrator,
	}, nil
}

// HealthHandler checks the database and, when enabled, the broker.
func (r *Runtime) HealthHandler() *health.Handler {
	h := health.NewHandler(r.DB)
	if r.Broker != nil {
		h.AddCheck("redis", r.Broker.Ping)
	}
	return h
}

// MetricsHandler serves the runtime registry and records HTTP metrics on it.
func (r *Runtime) MetricsHandler() *prometheus.Handler {
	return prometheus.New(r.Registry)
}

func (r *Runtime) Close() {
	if r.Broker != nil {
		if err := r.Broker.Close(); err != nil {
			r.Logger.Error(err, "Failed to close broker")
		}
	}
	if err := r.DB.Close(); err != nil {
		r.Logger.Error(err, "Failed to close database")
	}
}
