package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/studio-automations/pkg/errors"
	"github.com/jwalitptl/studio-automations/pkg/logger"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	TraceID string            `json:"trace_id,omitempty"`
	Fields  []ValidationError `json:"fields,omitempty"`
}

// ErrorHandler renders the last error attached with c.Error. Errors that are
// not AppErrors are reported as internal errors without their details.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		traceID := c.GetString(ContextRequestID)
		for _, e := range c.Errors {
			log.Error(e.Err, "Request error",
				"trace_id", traceID,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)
		}

		last := c.Errors.Last().Err
		appErr := apperrors.As(last)
		status := appErr.StatusCode()
		c.JSON(status, ErrorResponse{
			Code:    status,
			Message: appErr.Message,
			TraceID: traceID,
			Fields:  validationErrors(last),
		})
	}
}
