// Package workspace serves the resume session over HTTP: state, prompt and
// refinements, page guards, generation jobs, result export and the event
// stream.
package workspace

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-formatter/internal/generation"
	"resume-formatter/internal/handles"
	"resume-formatter/internal/session"
	"resume-formatter/internal/shared/server/middleware"
	"resume-formatter/internal/shared/server/respond"
	"resume-formatter/resume/refine"
)

const defaultHeartbeat = 15 * time.Second

// Handler wires HTTP handlers to the session manager and generation tracker.
type Handler struct {
	Sessions       *session.Manager
	Tracker        *generation.Tracker
	Registry       *handles.Registry
	PromptMaxChars int
	Heartbeat      time.Duration
}

// NewHandler constructs a Handler.
func NewHandler(sessions *session.Manager, tracker *generation.Tracker, registry *handles.Registry, promptMaxChars int) *Handler {
	if promptMaxChars <= 0 {
		promptMaxChars = refine.DefaultPromptMaxChars
	}
	return &Handler{
		Sessions:       sessions,
		Tracker:        tracker,
		Registry:       registry,
		PromptMaxChars: promptMaxChars,
		Heartbeat:      defaultHeartbeat,
	}
}

// RegisterRoutes attaches session routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/session", h.getSession)
	rg.PUT("/session/prompt", h.setPrompt)
	rg.GET("/prompt/presets", h.presets)
	rg.POST("/session/continue", h.continueToGenerate)
	rg.POST("/session/generate", h.startGenerate)
	rg.GET("/session/generate", h.getGenerate)
	rg.DELETE("/session/generate", h.cancelGenerate)
	rg.GET("/session/events", h.events)
	rg.PUT("/session/refinements", h.setRefinements)
	rg.POST("/session/refinements/keywords", h.addKeywords)
	rg.DELETE("/session/refinements/keywords/:keyword", h.removeKeyword)
	rg.POST("/session/regenerate", h.regenerate)
	rg.GET("/session/guard/:page", h.guard)
	rg.GET("/session/result/download", h.download)
	rg.GET("/session/result/open", h.open)
	rg.POST("/session/reset", h.reset)
	rg.GET("/files/:handle", h.file)
}

// RegisterStatic attaches the pre-rendered sample outside the API group.
func (h *Handler) RegisterStatic(r gin.IRoutes) {
	r.GET(sampleRoute, h.sample)
}

// session resolves the hydrated store for the request's session.
func (h *Handler) session(c *gin.Context) (string, *session.Store, bool) {
	id := middleware.SessionIDFromContext(c)
	store, err := h.Sessions.Get(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, http.StatusServiceUnavailable, "unavailable", "session store unavailable", nil)
		return "", nil, false
	}
	return id, store, true
}
