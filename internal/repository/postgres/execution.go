package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jwalitptl/studio-automations/internal/model"
	"github.com/jwalitptl/studio-automations/internal/repository"
)

const (
	defaultExecutionLimit = 50
	maxExecutionLimit     = 500
)

const executionColumns = `id, workflow_id, project_id, client_id, channel, status,
	COALESCE(message_preview, '') AS message_preview, error_message, created_at, updated_at`

// Claim inserts a pending row for the execution's (workflow, project) pair.
// It reports false without error when another caller already holds the pair.
func (r *executionRepository) Claim(ctx context.Context, execution *model.WorkflowExecution) (bool, error) {
	if execution.ID == uuid.Nil {
		execution.ID = uuid.New()
	}
	now := r.now()
	execution.Status = model.ExecutionStatusPending
	execution.CreatedAt = now
	execution.UpdatedAt = now

	query := `
		INSERT INTO workflow_executions (
			id, workflow_id, project_id, client_id, channel, status,
			message_preview, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (workflow_id, project_id) DO NOTHING
		RETURNING id`

	var id uuid.UUID
	err := r.GetDB().QueryRowxContext(ctx, query,
		execution.ID,
		execution.WorkflowID,
		execution.ProjectID,
		execution.ClientID,
		execution.Channel,
		execution.Status,
		execution.MessagePreview,
		execution.CreatedAt,
		execution.UpdatedAt,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to claim execution: %w", err)
	}
	execution.ID = id
	return true, nil
}

func (r *executionRepository) MarkSent(ctx context.Context, id uuid.UUID, preview string) error {
	return r.finish(ctx, id, model.ExecutionStatusSent, preview, nil)
}

func (r *executionRepository) MarkFailed(ctx context.Context, id uuid.UUID, preview, errorMessage string) error {
	return r.finish(ctx, id, model.ExecutionStatusFailed, preview, &errorMessage)
}

func (r *executionRepository) finish(ctx context.Context, id uuid.UUID, status model.ExecutionStatus, preview string, errorMessage *string) error {
	query := `
		UPDATE workflow_executions
		SET status = $1, message_preview = $2, error_message = $3, updated_at = $4
		WHERE id = $5 AND status = 'pending'`

	result, err := r.GetDB().ExecContext(ctx, query, status, preview, errorMessage, r.now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark execution %s: %w", status, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotPending
	}
	return nil
}

func (r *executionRepository) Get(ctx context.Context, id uuid.UUID) (*model.WorkflowExecution, error) {
	query := `SELECT ` + executionColumns + ` FROM workflow_executions WHERE id = $1`

	var execution model.WorkflowExecution
	err := r.GetDB().GetContext(ctx, &execution, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get execution: %w", err)
	}
	return &execution, nil
}

func (r *executionRepository) List(ctx context.Context, filters *model.ExecutionFilters) ([]*model.WorkflowExecution, error) {
	var (
		conditions []string
		args       []interface{}
	)
	limit := defaultExecutionLimit

	if filters != nil {
		if filters.WorkflowID != nil {
			args = append(args, *filters.WorkflowID)
			conditions = append(conditions, fmt.Sprintf("workflow_id = $%d", len(args)))
		}
		if filters.ProjectID != nil {
			args = append(args, *filters.ProjectID)
			conditions = append(conditions, fmt.Sprintf("project_id = $%d", len(args)))
		}
		if filters.Status != "" {
			args = append(args, filters.Status)
			conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
		}
		if filters.Limit > 0 {
			limit = filters.Limit
		}
	}
	if limit > maxExecutionLimit {
		limit = maxExecutionLimit
	}

	query := `SELECT ` + executionColumns + ` FROM workflow_executions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	var executions []*model.WorkflowExecution
	if err := r.GetDB().SelectContext(ctx, &executions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}
	return executions, nil
}

// Delete removes a ledger row so the pair may fire again on a later pass.
func (r *executionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.GetDB().ExecContext(ctx, `DELETE FROM workflow_executions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete execution: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
