package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-formatter/internal/shared/server/respond"
	"resume-formatter/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 error envelope. Streams that
// already wrote headers are only aborted.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			jobID, _ := c.Get("jobId")
			telemetry.Error("request.panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"session_id": SessionIDFromContext(c),
				"job_id":     jobID,
				"panic":      rec,
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
			c.Abort()
		}()
		c.Next()
	}
}
