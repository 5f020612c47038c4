package automation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/studio-automations/internal/model"
	"github.com/jwalitptl/studio-automations/internal/render"
	"github.com/jwalitptl/studio-automations/internal/repository"
	"github.com/jwalitptl/studio-automations/pkg/logger"
	"github.com/jwalitptl/studio-automations/pkg/messaging"
	"github.com/jwalitptl/studio-automations/pkg/metrics"
	"github.com/jwalitptl/studio-automations/pkg/validator"
)

const statusWriteTimeout = 10 * time.Second

type Dependencies struct {
	Workflows  repository.WorkflowRepository
	Projects   repository.ProjectRepository
	Settings   repository.SettingsRepository
	Executions repository.ExecutionRepository
	Renderer   *render.Renderer
	Dispatcher *Dispatcher
	Events     messaging.Publisher
	Logger     *logger.Logger
	Metrics    *metrics.Metrics
}

type Options struct {
	AfterWindow   time.Duration
	SubjectPrefix string
	// Now overrides the clock; used by tests.
	Now func() time.Time
}

// RunReport summarises one pass.
type RunReport struct {
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	Workflows      int       `json:"workflows"`
	Evaluated      int       `json:"evaluated"`
	Fired          int       `json:"fired"`
	Claimed        int       `json:"claimed"`
	AlreadyClaimed int       `json:"already_claimed"`
	Skipped        int       `json:"skipped"`
	Sent           int       `json:"sent"`
	Failed         int       `json:"failed"`
	Errors         int       `json:"errors"`
}

// Orchestrator runs scheduling passes: for every active workflow and every
// dated project it evaluates the trigger, claims the pair in the ledger,
// renders the template and dispatches it.
type Orchestrator struct {
	workflows     repository.WorkflowRepository
	projects      repository.ProjectRepository
	settings      repository.SettingsRepository
	executions    repository.ExecutionRepository
	renderer      *render.Renderer
	dispatcher    *Dispatcher
	events        messaging.Publisher
	evaluator     *Evaluator
	validate      validator.Validator
	logger        *logger.Logger
	metrics       *metrics.Metrics
	subjectPrefix string
	now           func() time.Time
}

func NewOrchestrator(deps Dependencies, opts Options) *Orchestrator {
	events := deps.Events
	if events == nil {
		events = messaging.NopPublisher{}
	}
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Orchestrator{
		workflows:     deps.Workflows,
		projects:      deps.Projects,
		settings:      deps.Settings,
		executions:    deps.Executions,
		renderer:      deps.Renderer,
		dispatcher:    deps.Dispatcher,
		events:        events,
		evaluator:     NewEvaluator(opts.AfterWindow),
		validate:      validator.New(),
		logger:        log,
		metrics:       deps.Metrics,
		subjectPrefix: opts.SubjectPrefix,
		now:           now,
	}
}

// RunOnce performs a single pass. It returns an error only when the pass
// could not start (settings or workflows unavailable) or ctx was cancelled;
// per-workflow and per-project problems are logged and counted.
func (o *Orchestrator) RunOnce(ctx context.Context) (*RunReport, error) {
	report := &RunReport{StartedAt: o.now()}
	if o.metrics != nil {
		timer := prometheus.NewTimer(o.metrics.PassDuration)
		defer timer.ObserveDuration()
	}

	settings, err := LoadBusinessSettings(ctx, o.settings)
	if err != nil {
		o.passFailed()
		return report, err
	}

	workflows, err := o.workflows.ListActiveScheduled(ctx)
	if err != nil {
		o.passFailed()
		return report, fmt.Errorf("failed to load workflows: %w", err)
	}
	report.Workflows = len(workflows)

	for _, w := range workflows {
		if err := ctx.Err(); err != nil {
			return o.finish(report), err
		}
		o.runWorkflow(ctx, w, settings, report)
	}

	if err := ctx.Err(); err != nil {
		return o.finish(report), err
	}

	o.finish(report)
	o.logger.Info("Scheduling pass completed",
		"workflows", report.Workflows,
		"evaluated", report.Evaluated,
		"fired", report.Fired,
		"claimed", report.Claimed,
		"already_claimed", report.AlreadyClaimed,
		"sent", report.Sent,
		"failed", report.Failed,
		"errors", report.Errors,
	)
	return report, nil
}

func (o *Orchestrator) runWorkflow(ctx context.Context, w *model.Workflow, settings model.BusinessSettings, report *RunReport) {
	log := o.logger.WithFields(map[string]interface{}{
		"workflow_id":   w.ID.String(),
		"workflow_name": w.Name,
	})

	if err := o.validate.Validate(w); err != nil {
		log.Warn("Skipping invalid workflow", "reason", err.Error())
		o.workflowSkipped("invalid")
		return
	}

	channel, ok := SelectChannel(w, o.dispatcher.Supports)
	if !ok {
		log.Warn("Skipping workflow without a deliverable channel", "channels", strings.Join(w.Channels, ","))
		o.workflowSkipped("no_channel")
		return
	}

	projects, err := o.projects.ListScheduled(ctx)
	if err != nil {
		log.Error(err, "Failed to load projects for workflow")
		o.workflowSkipped("project_load")
		report.Errors++
		return
	}

	for _, p := range projects {
		if ctx.Err() != nil {
			return
		}
		o.runPair(ctx, log, w, channel, p, settings, report)
	}
}

func (o *Orchestrator) runPair(
	ctx context.Context,
	log *logger.Logger,
	w *model.Workflow,
	channel model.Channel,
	p *model.Project,
	settings model.BusinessSettings,
	report *RunReport,
) {
	if p.StartDate == nil {
		return
	}
	client := p.ResolveClient()
	if client == nil || address(channel, client) == "" {
		report.Skipped++
		return
	}

	now := o.now()
	report.Evaluated++
	if !o.evaluator.ShouldFire(w, *p.StartDate, now) {
		return
	}
	report.Fired++
	if o.metrics != nil {
		o.metrics.TriggersFired.WithLabelValues(string(w.ScheduleType)).Inc()
	}

	log = log.WithFields(map[string]interface{}{
		"project_id": p.ID.String(),
		"channel":    string(channel),
	})

	execution := &model.WorkflowExecution{
		WorkflowID: w.ID,
		ProjectID:  p.ID,
		ClientID:   client.ID,
		Channel:    channel,
	}
	claimed, err := o.executions.Claim(ctx, execution)
	if err != nil {
		log.Error(err, "Failed to claim execution")
		o.ledger("claim", "error")
		report.Errors++
		return
	}
	if !claimed {
		report.AlreadyClaimed++
		o.ledger("claim", "conflict")
		if o.metrics != nil {
			o.metrics.ClaimsSkipped.Inc()
		}
		return
	}
	report.Claimed++
	o.ledger("claim", "ok")

	// A claimed pair is carried to a final status even if the pass is
	// cancelled; senders bound the call with their own timeouts.
	detached := context.WithoutCancel(ctx)

	rc := &render.Context{Settings: settings, Client: client, Project: p, Now: now}
	out := o.renderer.RenderBlocks(w.Blocks, rc)
	preview := render.Preview(out.Text)

	outcome := o.dispatcher.Dispatch(detached, Delivery{
		Channel: channel,
		To:      address(channel, client),
		ToName:  client.Name,
		Subject: o.subject(p),
		HTML:    render.AssembleDocument(p, out.HTML),
		Text:    out.Text,
	})

	recordCtx, cancel := context.WithTimeout(detached, statusWriteTimeout)
	defer cancel()

	if outcome.Sent() {
		err = o.executions.MarkSent(recordCtx, execution.ID, preview)
		report.Sent++
	} else {
		err = o.executions.MarkFailed(recordCtx, execution.ID, preview, outcome.Error)
		report.Failed++
		log.Warn("Dispatch failed", "execution_id", execution.ID.String(), "reason", outcome.Error)
	}
	if err != nil {
		// The row stays pending and will not be claimed again.
		log.Error(err, "Failed to record execution status", "execution_id", execution.ID.String(), "status", string(outcome.Status))
		o.ledger("finish", "error")
		report.Errors++
		return
	}
	o.ledger("finish", string(outcome.Status))

	o.publish(recordCtx, log, execution, outcome)
}

func (o *Orchestrator) publish(ctx context.Context, log *logger.Logger, execution *model.WorkflowExecution, outcome Outcome) {
	event := model.ExecutionEvent{
		ExecutionID: execution.ID,
		WorkflowID:  execution.WorkflowID,
		ProjectID:   execution.ProjectID,
		Channel:     execution.Channel,
		Status:      outcome.Status,
		Error:       outcome.Error,
		OccurredAt:  o.now(),
	}
	if err := o.events.Publish(ctx, messaging.ExecutionsChannel, event); err != nil {
		log.Error(err, "Failed to publish execution event", "execution_id", execution.ID.String())
		if o.metrics != nil {
			o.metrics.EventsPublished.WithLabelValues("error").Inc()
		}
		return
	}
	if o.metrics != nil {
		o.metrics.EventsPublished.WithLabelValues("ok").Inc()
	}
}

// subject is the prefix followed by the project title.
func (o *Orchestrator) subject(p *model.Project) string {
	return o.subjectPrefix + p.Title
}

func (o *Orchestrator) finish(report *RunReport) *RunReport {
	report.FinishedAt = o.now()
	if o.metrics != nil {
		o.metrics.LastPassTime.Set(float64(report.FinishedAt.Unix()))
	}
	return report
}

func (o *Orchestrator) passFailed() {
	if o.metrics != nil {
		o.metrics.PassFailures.Inc()
	}
}

func (o *Orchestrator) workflowSkipped(reason string) {
	if o.metrics != nil {
		o.metrics.WorkflowsSkipped.WithLabelValues(reason).Inc()
	}
}

func (o *Orchestrator) ledger(operation, status string) {
	if o.metrics != nil {
		o.metrics.LedgerOperations.WithLabelValues(operation, status).Inc()
	}
}
