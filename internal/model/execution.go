package model

import (
	"time"

	"github.com/google/uuid"
)

type ExecutionStatus string

const (
	ExecutionStatusPending ExecutionStatus = "pending"
	ExecutionStatusSent    ExecutionStatus = "sent"
	ExecutionStatusFailed  ExecutionStatus = "failed"
)

// WorkflowExecution is the ledger entry for one (workflow, project) pair.
type WorkflowExecution struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	WorkflowID     uuid.UUID       `db:"workflow_id" json:"workflow_id"`
	ProjectID      uuid.UUID       `db:"project_id" json:"project_id"`
	ClientID       *uuid.UUID      `db:"client_id" json:"client_id,omitempty"`
	Channel        Channel         `db:"channel" json:"channel"`
	Status         ExecutionStatus `db:"status" json:"status"`
	MessagePreview string          `db:"message_preview" json:"message_preview"`
	ErrorMessage   *string         `db:"error_message" json:"error_message,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

type ExecutionFilters struct {
	WorkflowID *uuid.UUID
	ProjectID  *uuid.UUID
	Status     ExecutionStatus
	Limit      int
}

// ExecutionEvent is published after an execution reaches a final status.
type ExecutionEvent struct {
	ExecutionID uuid.UUID       `json:"execution_id"`
	WorkflowID  uuid.UUID       `json:"workflow_id"`
	ProjectID   uuid.UUID       `json:"project_id"`
	Channel     Channel         `json:"channel"`
	Status      ExecutionStatus `json:"status"`
	Error       string          `json:"error,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
