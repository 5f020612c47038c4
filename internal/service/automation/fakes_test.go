package automation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/studio-automations/internal/email"
	"github.com/jwalitptl/studio-automations/internal/model"
	"github.com/jwalitptl/studio-automations/internal/repository"
)

type fakeWorkflows struct {
	workflows []*model.Workflow
	err       error
}

func (f *fakeWorkflows) ListActiveScheduled(context.Context) ([]*model.Workflow, error) {
	return f.workflows, f.err
}

type fakeProjects struct {
	mu       sync.Mutex
	projects []*model.Project
	// failCalls lists 1-based call numbers that return errs.
	failCalls map[int]error
	calls     int
}

func (f *fakeProjects) ListScheduled(context.Context) ([]*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.failCalls[f.calls]; ok {
		return nil, err
	}
	return f.projects, nil
}

type fakeSettings struct {
	settings    []*model.Setting
	contract    *model.ContractSettings
	err         error
	contractErr error
}

func (f *fakeSettings) ListSettings(context.Context) ([]*model.Setting, error) {
	return f.settings, f.err
}

func (f *fakeSettings) GetLatestContractSettings(context.Context) (*model.ContractSettings, error) {
	return f.contract, f.contractErr
}

type pair struct {
	workflow uuid.UUID
	project  uuid.UUID
}

// memoryLedger enforces the (workflow, project) uniqueness under a mutex,
// the way the unique index does in Postgres.
type memoryLedger struct {
	mu      sync.Mutex
	rows    map[pair]*model.WorkflowExecution
	markErr error
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{rows: make(map[pair]*model.WorkflowExecution)}
}

func (l *memoryLedger) Claim(_ context.Context, e *model.WorkflowExecution) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := pair{e.WorkflowID, e.ProjectID}
	if _, exists := l.rows[key]; exists {
		return false, nil
	}
	e.ID = uuid.New()
	e.Status = model.ExecutionStatusPending
	row := *e
	l.rows[key] = &row
	return true, nil
}

func (l *memoryLedger) MarkSent(ctx context.Context, id uuid.UUID, preview string) error {
	return l.finish(id, model.ExecutionStatusSent, preview, nil)
}

func (l *memoryLedger) MarkFailed(ctx context.Context, id uuid.UUID, preview, msg string) error {
	return l.finish(id, model.ExecutionStatusFailed, preview, &msg)
}

func (l *memoryLedger) finish(id uuid.UUID, status model.ExecutionStatus, preview string, msg *string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.markErr != nil {
		return l.markErr
	}
	for _, row := range l.rows {
		if row.ID != id {
			continue
		}
		if row.Status != model.ExecutionStatusPending {
			return repository.ErrNotPending
		}
		row.Status = status
		row.MessagePreview = preview
		row.ErrorMessage = msg
		row.UpdatedAt = time.Now()
		return nil
	}
	return repository.ErrNotPending
}

func (l *memoryLedger) Get(_ context.Context, id uuid.UUID) (*model.WorkflowExecution, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, row := range l.rows {
		if row.ID == id {
			copied := *row
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (l *memoryLedger) List(context.Context, *model.ExecutionFilters) ([]*model.WorkflowExecution, error) {
	return l.all(), nil
}

func (l *memoryLedger) Delete(_ context.Context, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, row := range l.rows {
		if row.ID == id {
			delete(l.rows, key)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (l *memoryLedger) all() []*model.WorkflowExecution {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*model.WorkflowExecution, 0, len(l.rows))
	for _, row := range l.rows {
		copied := *row
		out = append(out, &copied)
	}
	return out
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []email.Message
	result *email.Result
	err    error
	// onSend runs before the message is recorded.
	onSend func(ctx context.Context)
	ctxErr error
}

func (s *fakeSender) Send(ctx context.Context, msg email.Message) (*email.Result, error) {
	if s.onSend != nil {
		s.onSend(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctxErr = ctx.Err()
	s.sent = append(s.sent, msg)
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &email.Result{Success: true}, nil
}

func (s *fakeSender) messages() []email.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]email.Message(nil), s.sent...)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []model.ExecutionEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, channel string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if event, ok := message.(model.ExecutionEvent); ok {
		p.events = append(p.events, event)
	}
	return nil
}
