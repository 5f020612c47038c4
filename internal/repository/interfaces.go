package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/studio-automations/internal/model"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrNotPending = errors.New("execution is not pending")
)

// All repository interfaces in one file
type (
	// WorkflowRepository reads configured automations
	WorkflowRepository interface {
		ListActiveScheduled(ctx context.Context) ([]*model.Workflow, error)
	}

	// ProjectRepository reads projects eligible for scheduling
	ProjectRepository interface {
		ListScheduled(ctx context.Context) ([]*model.Project, error)
	}

	SettingsRepository interface {
		ListSettings(ctx context.Context) ([]*model.Setting, error)
		// GetLatestContractSettings returns nil, nil when no row exists.
		GetLatestContractSettings(ctx context.Context) (*model.ContractSettings, error)
	}

	// ExecutionRepository is the idempotency ledger. Claim must be atomic:
	// at most one caller ever gets true for a given (workflow, project).
	ExecutionRepository interface {
		Claim(ctx context.Context, execution *model.WorkflowExecution) (bool, error)
		MarkSent(ctx context.Context, id uuid.UUID, preview string) error
		MarkFailed(ctx context.Context, id uuid.UUID, preview, errorMessage string) error
		Get(ctx context.Context, id uuid.UUID) (*model.WorkflowExecution, error)
		List(ctx context.Context, filters *model.ExecutionFilters) ([]*model.WorkflowExecution, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}
)
