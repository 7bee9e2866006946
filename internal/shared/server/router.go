package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-formatter/internal/services/health"
	"resume-formatter/internal/shared/config"
	"resume-formatter/internal/shared/metrics"
	"resume-formatter/internal/shared/server/middleware"
	"resume-formatter/internal/shared/server/respond"
	"resume-formatter/internal/uploads"
	"resume-formatter/internal/workspace"
)

// Rate limit groups.
const (
	groupDefault  = "DEFAULT"
	groupUpload   = "UPLOAD"
	groupGenerate = "GENERATE"
	groupEvents   = "EVENTS"
	groupPolling  = "POLLING"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config    config.Config
	Health    *health.Service
	Uploads   *uploads.Handler
	Workspace *workspace.Handler
	Limiter   *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	if deps.Workspace != nil {
		deps.Workspace.RegisterStatic(r)
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, gin.H{"ok": true})
			return
		}
		status := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	api.GET("/metrics", metrics.Handler())

	sessions := api.Group("")
	sessions.Use(
		middleware.Session(deps.Config.SessionCookie, deps.Config.Env == "production"),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:        DefaultRateLimitRules(),
			DefaultGroup: groupDefault,
			GroupFor:     rateLimitGroup,
			Limiter:      deps.Limiter,
		}),
	)
	if deps.Uploads != nil {
		deps.Uploads.RegisterRoutes(sessions)
	}
	if deps.Workspace != nil {
		deps.Workspace.RegisterRoutes(sessions)
	}

	return r
}

// DefaultRateLimitRules returns the per-session token buckets.
func DefaultRateLimitRules() map[string]middleware.RateLimitRule {
	return map[string]middleware.RateLimitRule{
		groupDefault:  {Rate: 20, Burst: 60},
		groupUpload:   {Rate: 0.5, Burst: 5},
		groupGenerate: {Rate: 0.5, Burst: 6},
		groupEvents:   {Rate: 0.2, Burst: 4},
		groupPolling:  {Rate: 5, Burst: 10},
	}
}

func rateLimitGroup(c *gin.Context) string {
	path := c.Request.URL.Path
	switch {
	case c.Request.Method == http.MethodPost && strings.HasSuffix(path, "/session/file"):
		return groupUpload
	case c.Request.Method == http.MethodPost && (strings.HasSuffix(path, "/session/generate") || strings.HasSuffix(path, "/session/regenerate")):
		return groupGenerate
	case strings.HasSuffix(path, "/session/events"):
		return groupEvents
	case c.Request.Method == http.MethodGet && strings.HasSuffix(path, "/session/generate"):
		return groupPolling
	}
	return groupDefault
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
