package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/studio-automations/internal/model"
	"github.com/jwalitptl/studio-automations/internal/repository"
)

var _ repository.ExecutionRepository = (*MockExecutionRepository)(nil)

// MockExecutionRepository is a mock implementation of repository.ExecutionRepository.
type MockExecutionRepository struct {
	mock.Mock
}

func (m *MockExecutionRepository) Claim(ctx context.Context, execution *model.WorkflowExecution) (bool, error) {
	args := m.Called(ctx, execution)

	return args.Bool(0), args.Error(1)
}

func (m *MockExecutionRepository) MarkSent(ctx context.Context, id uuid.UUID, preview string) error {
	args := m.Called(ctx, id, preview)

	return args.Error(0)
}

func (m *MockExecutionRepository) MarkFailed(ctx context.Context, id uuid.UUID, preview, errorMessage string) error {
	args := m.Called(ctx, id, preview, errorMessage)

	return args.Error(0)
}

func (m *MockExecutionRepository) Get(ctx context.Context, id uuid.UUID) (*model.WorkflowExecution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*model.WorkflowExecution), args.Error(1)
}

func (m *MockExecutionRepository) List(ctx context.Context, filters *model.ExecutionFilters) ([]*model.WorkflowExecution, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*model.WorkflowExecution), args.Error(1)
}

func (m *MockExecutionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}
