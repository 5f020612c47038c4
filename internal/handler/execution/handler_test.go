package execution

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/studio-automations/internal/middleware"
	"github.com/jwalitptl/studio-automations/internal/model"
	"github.com/jwalitptl/studio-automations/internal/repository"
	"github.com/jwalitptl/studio-automations/internal/repository/mocks"
	"github.com/jwalitptl/studio-automations/pkg/logger"
)

type response struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupRouter(repo repository.ExecutionRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.RegisterFieldNames()
	r := gin.New()
	r.Use(middleware.ErrorHandler(logger.Nop()))
	NewHandler(repo).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func perform(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestListExecutions(t *testing.T) {
	workflowID := uuid.New()
	repo := &mocks.MockExecutionRepository{}
	repo.On("List", mock.Anything, mock.MatchedBy(func(f *model.ExecutionFilters) bool {
		return f.WorkflowID != nil && *f.WorkflowID == workflowID &&
			f.ProjectID == nil &&
			f.Status == model.ExecutionStatusFailed &&
			f.Limit == 10
	})).Return([]*model.WorkflowExecution{
		{ID: uuid.New(), WorkflowID: workflowID, Status: model.ExecutionStatusFailed},
	}, nil)

	w := perform(setupRouter(repo), http.MethodGet,
		"/api/v1/executions?workflow_id="+workflowID.String()+"&status=failed&limit=10")
	require.Equal(t, http.StatusOK, w.Code)

	var body response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)

	var executions []model.WorkflowExecution
	require.NoError(t, json.Unmarshal(body.Data, &executions))
	require.Len(t, executions, 1)
	assert.Equal(t, workflowID, executions[0].WorkflowID)
	repo.AssertExpectations(t)
}

func TestListExecutions_EmptyIsArray(t *testing.T) {
	repo := &mocks.MockExecutionRepository{}
	repo.On("List", mock.Anything, mock.Anything).Return(nil, nil)

	w := perform(setupRouter(repo), http.MethodGet, "/api/v1/executions")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestListExecutions_InvalidQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"bad workflow id", "?workflow_id=abc"},
		{"bad status", "?status=queued"},
		{"limit too high", "?limit=1000"},
		{"limit not a number", "?limit=many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockExecutionRepository{}
			w := perform(setupRouter(repo), http.MethodGet, "/api/v1/executions"+tt.query)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
		})
	}
}

func TestListExecutions_ReportsInvalidFields(t *testing.T) {
	w := perform(setupRouter(&mocks.MockExecutionRepository{}), http.MethodGet, "/api/v1/executions?status=queued&limit=0&project_id=x")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid query parameters", body.Message)

	fields := map[string]string{}
	for _, f := range body.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "Value is not allowed", fields["status"])
	assert.Equal(t, "Invalid UUID", fields["project_id"])
}

func TestListExecutions_RepositoryError(t *testing.T) {
	repo := &mocks.MockExecutionRepository{}
	repo.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	w := perform(setupRouter(repo), http.MethodGet, "/api/v1/executions")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestGetExecution(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name      string
		path      string
		execution *model.WorkflowExecution
		err       error
		wantCode  int
	}{
		{"found", "/api/v1/executions/" + id.String(), &model.WorkflowExecution{ID: id, Status: model.ExecutionStatusSent}, nil, http.StatusOK},
		{"not found", "/api/v1/executions/" + id.String(), nil, repository.ErrNotFound, http.StatusNotFound},
		{"invalid id", "/api/v1/executions/not-a-uuid", nil, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockExecutionRepository{}
			repo.On("Get", mock.Anything, id).Return(tt.execution, tt.err)

			w := perform(setupRouter(repo), http.MethodGet, tt.path)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestDeleteExecution(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		status     model.ExecutionStatus
		getErr     error
		deleteErr  error
		wantCode   int
		wantDelete bool
	}{
		{"failed row", model.ExecutionStatusFailed, nil, nil, http.StatusOK, true},
		{"sent row", model.ExecutionStatusSent, nil, nil, http.StatusOK, true},
		{"pending row", model.ExecutionStatusPending, nil, nil, http.StatusConflict, false},
		{"missing row", "", repository.ErrNotFound, nil, http.StatusNotFound, false},
		{"deleted concurrently", model.ExecutionStatusFailed, nil, repository.ErrNotFound, http.StatusNotFound, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockExecutionRepository{}
			if tt.getErr != nil {
				repo.On("Get", mock.Anything, id).Return(nil, tt.getErr)
			} else {
				repo.On("Get", mock.Anything, id).Return(&model.WorkflowExecution{ID: id, Status: tt.status}, nil)
			}
			repo.On("Delete", mock.Anything, id).Return(tt.deleteErr)

			w := perform(setupRouter(repo), http.MethodDelete, "/api/v1/executions/"+id.String())
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantDelete {
				repo.AssertCalled(t, "Delete", mock.Anything, id)
			} else {
				repo.AssertNotCalled(t, "Delete", mock.Anything, id)
			}
		})
	}
}
