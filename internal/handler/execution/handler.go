package execution

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/studio-automations/internal/handler"
	"github.com/jwalitptl/studio-automations/internal/model"
	"github.com/jwalitptl/studio-automations/internal/repository"
	apperrors "github.com/jwalitptl/studio-automations/pkg/errors"
)

type Handler struct {
	repo repository.ExecutionRepository
}

func NewHandler(repo repository.ExecutionRepository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	executions := r.Group("/executions")
	{
		executions.GET("", h.ListExecutions)
		executions.GET("/:id", h.GetExecution)
		executions.DELETE("/:id", h.DeleteExecution)
	}
}

type listExecutionsQuery struct {
	WorkflowID string `form:"workflow_id" binding:"omitempty,uuid"`
	ProjectID  string `form:"project_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=pending sent failed"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

func (q listExecutionsQuery) filters() *model.ExecutionFilters {
	filters := &model.ExecutionFilters{
		Status: model.ExecutionStatus(q.Status),
		Limit:  q.Limit,
	}
	if id, err := uuid.Parse(q.WorkflowID); err == nil {
		filters.WorkflowID = &id
	}
	if id, err := uuid.Parse(q.ProjectID); err == nil {
		filters.ProjectID = &id
	}
	return filters
}

func (h *Handler) ListExecutions(c *gin.Context) {
	var query listExecutionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		_ = c.Error(apperrors.BadRequest("invalid query parameters", err))
		return
	}

	executions, err := h.repo.List(c.Request.Context(), query.filters())
	if err != nil {
		_ = c.Error(apperrors.Internal(err))
		return
	}
	if executions == nil {
		executions = []*model.WorkflowExecution{}
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(executions))
}

func (h *Handler) GetExecution(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid execution ID"))
		return
	}

	execution, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(repositoryError(err))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(execution))
}

// DeleteExecution removes a finished ledger entry so the next pass may fire
// the pair again while it is still inside its trigger window. Pending rows
// belong to an in-flight dispatch and cannot be deleted.
func (h *Handler) DeleteExecution(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid execution ID"))
		return
	}

	execution, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(repositoryError(err))
		return
	}
	if execution.Status == model.ExecutionStatusPending {
		_ = c.Error(apperrors.Conflict("execution is still pending", nil))
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		_ = c.Error(repositoryError(err))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"id": id}))
}

func repositoryError(err error) *apperrors.AppError {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("execution", err)
	}
	return apperrors.Internal(err)
}
