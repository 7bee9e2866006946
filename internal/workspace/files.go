package workspace

import (
	"bytes"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"resume-formatter/internal/handles"
	"resume-formatter/internal/shared/server/respond"
	"resume-formatter/internal/shared/storage/object"
	"resume-formatter/internal/shared/telemetry"
	"resume-formatter/resume/render"
	"resume-formatter/resume/sample"
)

const (
	sampleRoute    = sample.StaticURL
	resultFileName = "resume.pdf"
	pdfMimeType    = "application/pdf"
)

var (
	sampleOnce sync.Once
	sampleData []byte
	sampleErr  error
)

func samplePDF() ([]byte, error) {
	sampleOnce.Do(func() {
		sampleData, sampleErr = render.RenderPDF(sample.Parsed(), nil, render.Options{})
	})
	return sampleData, sampleErr
}

func (h *Handler) sample(c *gin.Context) {
	data, err := samplePDF()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render sample", nil)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, pdfMimeType, data)
}

func (h *Handler) download(c *gin.Context) {
	h.result(c, `attachment; filename="`+resultFileName+`"`, nil)
}

// open serves the result for a new browsing context that keeps no opener
// and sends no referrer.
func (h *Handler) open(c *gin.Context) {
	h.result(c, `inline; filename="`+resultFileName+`"`, map[string]string{
		"Referrer-Policy":            "no-referrer",
		"Cross-Origin-Opener-Policy": "same-origin",
		"X-Content-Type-Options":     "nosniff",
	})
}

func (h *Handler) result(c *gin.Context, disposition string, extra map[string]string) {
	_, store, ok := h.session(c)
	if !ok {
		return
	}
	st := store.State()
	if !st.HasResult() {
		respond.Error(c, http.StatusNotFound, "no_result", "No generated resume yet.", nil)
		return
	}
	h.serve(c, st.Result.PDFURL, disposition, extra)
}

func (h *Handler) file(c *gin.Context) {
	h.serve(c, c.Param("handle"), "inline", nil)
}

func (h *Handler) serve(c *gin.Context, handle, disposition string, extra map[string]string) {
	headers := map[string]string{"Content-Disposition": disposition}
	for k, v := range extra {
		headers[k] = v
	}

	if handle == sample.StaticURL {
		data, err := samplePDF()
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render sample", nil)
			return
		}
		c.DataFromReader(http.StatusOK, int64(len(data)), pdfMimeType, bytes.NewReader(data), headers)
		return
	}

	rc, entry, err := h.Registry.Open(c.Request.Context(), handle)
	if err != nil {
		switch {
		case errors.Is(err, handles.ErrRevoked):
			respond.Error(c, http.StatusGone, "revoked", "This file is no longer available.", nil)
		case errors.Is(err, object.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
		default:
			telemetry.Error("files.open_failed", map[string]any{"handle": handle, "err": err})
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open file", nil)
		}
		return
	}
	defer rc.Close()

	size := entry.File.Size
	if size <= 0 {
		size = -1
	}
	mimeType := entry.File.MimeType
	if mimeType == "" {
		mimeType = pdfMimeType
	}
	c.DataFromReader(http.StatusOK, size, mimeType, rc, headers)
}
