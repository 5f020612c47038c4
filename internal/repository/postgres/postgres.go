package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/studio-automations/internal/repository"
)

type workflowRepository struct {
	BaseRepository
}

type projectRepository struct {
	BaseRepository
}

type settingsRepository struct {
	BaseRepository
}

type executionRepository struct {
	BaseRepository
}

func NewWorkflowRepository(db *sqlx.DB) repository.WorkflowRepository {
	return &workflowRepository{NewBaseRepository(db)}
}

func NewProjectRepository(db *sqlx.DB) repository.ProjectRepository {
	return &projectRepository{NewBaseRepository(db)}
}

func NewSettingsRepository(db *sqlx.DB) repository.SettingsRepository {
	return &settingsRepository{NewBaseRepository(db)}
}

func NewExecutionRepository(db *sqlx.DB) repository.ExecutionRepository {
	return &executionRepository{NewBaseRepository(db)}
}
