package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-formatter/internal/shared/telemetry"
)

const statusTransitionKey = "statusTransition"

// SetStatusTransition records a session status change for the request log.
// Unchanged statuses are not recorded.
func SetStatusTransition(c *gin.Context, from, to string) {
	if from == to {
		return
	}
	c.Set(statusTransitionKey, from+"->"+to)
}

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		sessionID := SessionIDFromContext(c)
		jobID, _ := c.Get("jobId")
		statusTransition := ""
		if raw, ok := c.Get(statusTransitionKey); ok {
			if s, ok := raw.(string); ok {
				statusTransition = s
			}
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":        reqID,
			"method":            c.Request.Method,
			"path":              c.Request.URL.Path,
			"status":            status,
			"status_transition": statusTransition,
			"duration_ms":       float64(latency.Microseconds()) / 1000.0,
			"session_id":        sessionID,
			"job_id":            jobID,
			"client_ip":         c.ClientIP(),
			"user_agent":        c.Request.UserAgent(),
		})
	}
}
