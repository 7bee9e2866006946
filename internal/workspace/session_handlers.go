package workspace

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-formatter/internal/generation"
	"resume-formatter/internal/session"
	"resume-formatter/internal/shared/server/middleware"
	"resume-formatter/internal/shared/server/respond"
	"resume-formatter/internal/shared/telemetry"
	"resume-formatter/resume/refine"
	"resume-formatter/resume/sample"
)

type sessionResponse struct {
	State     session.State        `json:"state"`
	Job       *generation.Progress `json:"job,omitempty"`
	SampleURL string               `json:"sampleUrl"`
}

func (h *Handler) view(id string, st session.State) sessionResponse {
	out := sessionResponse{State: st, SampleURL: sample.StaticURL}
	if h.Tracker != nil {
		if job, ok := h.Tracker.Get(id); ok {
			p := job.Progress()
			out.Job = &p
		}
	}
	return out
}

func (h *Handler) getSession(c *gin.Context) {
	id, store, ok := h.session(c)
	if !ok {
		return
	}
	respond.OK(c, h.view(id, store.State()))
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

type promptResponse struct {
	Prompt    string `json:"prompt"`
	Remaining int    `json:"remaining"`
	MaxChars  int    `json:"maxChars"`
}

func (h *Handler) setPrompt(c *gin.Context) {
	_, store, ok := h.session(c)
	if !ok {
		return
	}
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	prompt := refine.ClipPrompt(req.Prompt, h.PromptMaxChars)
	st := store.SetPrompt(prompt)
	respond.OK(c, promptResponse{
		Prompt:    st.Prompt,
		Remaining: refine.Remaining(st.Prompt, h.PromptMaxChars),
		MaxChars:  h.PromptMaxChars,
	})
}

func (h *Handler) presets(c *gin.Context) {
	respond.OK(c, gin.H{"presets": refine.Presets, "maxChars": h.PromptMaxChars})
}

func (h *Handler) continueToGenerate(c *gin.Context) {
	id, store, ok := h.session(c)
	if !ok {
		return
	}
	if !store.State().HasFile() {
		respond.Error(c, http.StatusConflict, "no_file", "Upload a PDF first.", nil)
		return
	}
	st := store.StartUploading()
	respond.OK(c, gin.H{"next": "/" + string(PageGenerate), "session": h.view(id, st)})
}

func (h *Handler) guard(c *gin.Context) {
	page, ok := ParsePage(c.Param("page"))
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "unknown page", nil)
		return
	}
	_, store, ok := h.session(c)
	if !ok {
		return
	}
	respond.OK(c, Guard(page, store.State()))
}

type refinementsResponse struct {
	Refinements refine.Refinements `json:"refinements"`
	Prompt      string             `json:"prompt"`
}

func (h *Handler) applyRefinements(c *gin.Context, store *session.Store, r refine.Refinements) {
	if err := r.Validate(); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid refinements", err.Error())
		return
	}
	st := store.SetRefinements(&r)
	respond.OK(c, refinementsResponse{Refinements: r, Prompt: refine.Compose(st.Prompt, r)})
}

func (h *Handler) setRefinements(c *gin.Context) {
	_, store, ok := h.session(c)
	if !ok {
		return
	}
	var req refine.Refinements
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	h.applyRefinements(c, store, refine.Defaults(&req))
}

type keywordsRequest struct {
	Keywords string `json:"keywords"`
}

func (h *Handler) addKeywords(c *gin.Context) {
	_, store, ok := h.session(c)
	if !ok {
		return
	}
	var req keywordsRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Keywords) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "keywords is required", nil)
		return
	}
	r := refine.Defaults(store.State().Refinements)
	r.Keywords = refine.AddKeywords(r.Keywords, req.Keywords)
	h.applyRefinements(c, store, r)
}

func (h *Handler) removeKeyword(c *gin.Context) {
	_, store, ok := h.session(c)
	if !ok {
		return
	}
	r := refine.Defaults(store.State().Refinements)
	r.Keywords = refine.RemoveKeyword(r.Keywords, c.Param("keyword"))
	h.applyRefinements(c, store, r)
}

func (h *Handler) reset(c *gin.Context) {
	id := middleware.SessionIDFromContext(c)
	if h.Tracker != nil {
		h.Tracker.Forget(id)
	}
	st, err := h.Sessions.StartOver(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, http.StatusServiceUnavailable, "unavailable", "session store unavailable", nil)
		return
	}
	telemetry.Info("session.reset", map[string]any{"session_id": id})
	respond.OK(c, h.view(id, st))
}
