package workspace

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-formatter/internal/generation"
	"resume-formatter/internal/session"
	"resume-formatter/internal/shared/server/middleware"
	"resume-formatter/internal/shared/server/respond"
	"resume-formatter/resume/refine"
)

func (h *Handler) start(c *gin.Context, id string, store *session.Store, kind generation.Kind) {
	before := store.State().Status
	job, started, err := h.Tracker.Start(id, kind, store)
	if err != nil {
		if errors.Is(err, generation.ErrStopped) {
			respond.Error(c, http.StatusServiceUnavailable, "unavailable", "server is shutting down", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start generation", nil)
		return
	}
	c.Set("jobId", job.ID())
	middleware.SetStatusTransition(c, string(before), string(store.State().Status))
	status := http.StatusAccepted
	if !started {
		status = http.StatusOK
	}
	respond.JSON(c, status, job.Progress())
}

func (h *Handler) startGenerate(c *gin.Context) {
	id, store, ok := h.session(c)
	if !ok {
		return
	}
	if d := Guard(PageGenerate, store.State()); !d.Allowed {
		respond.Error(c, http.StatusConflict, "no_file", "Upload a PDF first.", d)
		return
	}
	h.start(c, id, store, generation.KindGenerate)
}

func (h *Handler) getGenerate(c *gin.Context) {
	id, _, ok := h.session(c)
	if !ok {
		return
	}
	job, found := h.Tracker.Get(id)
	if !found {
		respond.Error(c, http.StatusNotFound, "not_found", "no generation job", nil)
		return
	}
	c.Set("jobId", job.ID())
	respond.OK(c, job.Progress())
}

func (h *Handler) cancelGenerate(c *gin.Context) {
	id, _, ok := h.session(c)
	if !ok {
		return
	}
	respond.OK(c, gin.H{"cancelled": h.Tracker.Cancel(id)})
}

type regenerateRequest struct {
	Refinements *refine.Refinements `json:"refinements"`
}

func (h *Handler) regenerate(c *gin.Context) {
	id, store, ok := h.session(c)
	if !ok {
		return
	}
	var req regenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	st := store.State()
	if d := Guard(PagePreview, st); !d.Allowed {
		respond.Error(c, http.StatusConflict, "no_result", "Generate a resume first.", d)
		return
	}
	r := refine.Defaults(st.Refinements)
	if req.Refinements != nil {
		r = refine.Defaults(req.Refinements)
	}
	if err := r.Validate(); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid refinements", err.Error())
		return
	}

	store.SetPrompt(refine.Compose(st.Prompt, r))
	store.SetRefinements(&r)
	h.start(c, id, store, generation.KindRegenerate)
}
