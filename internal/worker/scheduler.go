package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jwalitptl/studio-automations/internal/service/automation"
	"github.com/jwalitptl/studio-automations/pkg/logger"
)

// Runner performs one scheduling pass.
type Runner interface {
	RunOnce(ctx context.Context) (*automation.RunReport, error)
}

type SchedulerConfig struct {
	// Schedule is a standard cron expression or descriptor such as "@every 5m".
	Schedule   string
	RunOnStart bool
	// PassTimeout bounds a single pass; zero means no bound.
	PassTimeout time.Duration
}

// PassScheduler runs passes on a cron schedule. A tick that arrives while the
// previous pass is still running is skipped.
type PassScheduler struct {
	runner Runner
	config SchedulerConfig
	logger *logger.Logger
	cron   *cron.Cron
}

func NewPassScheduler(runner Runner, config SchedulerConfig, log *logger.Logger) (*PassScheduler, error) {
	if _, err := cron.ParseStandard(config.Schedule); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", config.Schedule, err)
	}
	if log == nil {
		log = logger.Nop()
	}

	cl := cronLogger{log: log}
	return &PassScheduler{
		runner: runner,
		config: config,
		logger: log,
		cron: cron.New(cron.WithChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		)),
	}, nil
}

// Start blocks until ctx is cancelled, then waits for a running pass to
// return.
func (s *PassScheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddJob(s.config.Schedule, cron.FuncJob(func() { s.runPass(ctx) })); err != nil {
		return fmt.Errorf("failed to schedule passes: %w", err)
	}

	s.logger.Info("Starting pass scheduler", "schedule", s.config.Schedule)
	if s.config.RunOnStart {
		s.runPass(ctx)
	}

	s.cron.Start()
	<-ctx.Done()

	s.logger.Info("Shutting down pass scheduler")
	<-s.cron.Stop().Done()
	return nil
}

func (s *PassScheduler) runPass(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if s.config.PassTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.PassTimeout)
		defer cancel()
	}

	report, err := s.runner.RunOnce(ctx)
	if err != nil {
		s.logger.Error(err, "Scheduling pass failed")
		return
	}
	s.logger.Debug("Scheduling pass finished",
		"duration", report.FinishedAt.Sub(report.StartedAt).String(),
		"sent", report.Sent,
		"failed", report.Failed,
	)
}

// cronLogger routes cron's chatty info messages to debug.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(err, "cron: "+msg, keysAndValues...)
}
