package automation

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/studio-automations/internal/handler"
	"github.com/jwalitptl/studio-automations/internal/service/automation"
	apperrors "github.com/jwalitptl/studio-automations/pkg/errors"
)

// Runner performs one scheduling pass.
type Runner interface {
	RunOnce(ctx context.Context) (*automation.RunReport, error)
}

type Handler struct {
	runner Runner
	mu     sync.Mutex
}

func NewHandler(runner Runner) *Handler {
	return &Handler{runner: runner}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/automations/run", h.RunPass)
}

// RunPass runs a pass on demand and returns its report. Only one manual pass
// runs at a time per process.
func (h *Handler) RunPass(c *gin.Context) {
	if !h.mu.TryLock() {
		_ = c.Error(apperrors.Conflict("a pass is already running", nil))
		return
	}
	defer h.mu.Unlock()

	report, err := h.runner.RunOnce(c.Request.Context())
	if err != nil {
		_ = c.Error(apperrors.Internal(err))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(report))
}
