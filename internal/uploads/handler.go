package uploads

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-formatter/internal/inspect"
	"resume-formatter/internal/session"
	"resume-formatter/internal/shared/metrics"
	"resume-formatter/internal/shared/server/middleware"
	"resume-formatter/internal/shared/server/respond"
	"resume-formatter/internal/shared/storage/object"
	"resume-formatter/internal/shared/telemetry"
)

const (
	defaultMaxBytes = 10 << 20
	// multipart framing allowance on top of the file cap
	formOverhead = 1 << 20
	sniffBytes   = 512
	failedUpload = "Upload failed. Please try again."
)

// Sessions resolves the store for a session id.
type Sessions interface {
	Get(ctx context.Context, sessionID string) (*session.Store, error)
}

// Jobs cancels a session's generation. Once Cancel returns the job no longer
// writes to the session.
type Jobs interface {
	Cancel(sessionID string) bool
}

// Handler serves the session source file.
type Handler struct {
	Sessions Sessions
	Jobs     Jobs
	Objects  object.ObjectStore
	MaxBytes int64
}

// NewHandler constructs a Handler. jobs may be nil. maxBytes <= 0 uses 10 MB.
func NewHandler(sessions Sessions, jobs Jobs, objects object.ObjectStore, maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &Handler{Sessions: sessions, Jobs: jobs, Objects: objects, MaxBytes: maxBytes}
}

// RegisterRoutes attaches upload routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/session/file", h.upload)
	rg.DELETE("/session/file", h.clear)
}

func (h *Handler) store(c *gin.Context) (*session.Store, bool) {
	store, err := h.Sessions.Get(c.Request.Context(), middleware.SessionIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusServiceUnavailable, "unavailable", "session store unavailable", nil)
		return nil, false
	}
	return store, true
}

func (h *Handler) upload(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	sessionID := middleware.SessionIDFromContext(c)

	fh, err := h.single(c)
	if err != nil {
		h.reject(c, store, err)
		return
	}
	file, err := fh.Open()
	if err != nil {
		h.reject(c, store, ErrUnsupported)
		return
	}
	defer file.Close()

	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		h.reject(c, store, ErrUnsupported)
		return
	}
	if err := Validate(fh.Filename, fh.Header.Get("Content-Type"), fh.Size, h.MaxBytes, head[:n]); err != nil {
		h.reject(c, store, err)
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		h.reject(c, store, ErrUnsupported)
		return
	}

	h.cancelJob(c, sessionID)
	before := store.State().Status
	store.StartUploading()
	ctx := c.Request.Context()
	key, size, _, err := h.Objects.Save(ctx, sessionID, fh.Filename, file)
	if err != nil {
		store.Fail(failedUpload)
		metrics.IncUploadRejected()
		telemetry.Error("upload.save_failed", map[string]any{"session_id": sessionID, "err": err})
		respond.Error(c, http.StatusInternalServerError, "internal_error", failedUpload, nil)
		return
	}

	meta := session.File{Name: fh.Filename, MimeType: pdfMimeType, Size: size, Key: key}
	if report, err := inspect.Inspect(ctx, h.Objects, key); err != nil {
		telemetry.Warn("upload.inspect_failed", map[string]any{"session_id": sessionID, "key": key, "err": err})
	} else {
		meta.Pages = report.Pages
		meta.IsScanned = report.IsScanned
	}

	var st session.State
	if store.State().HasFile() {
		st = store.ReplaceFile(meta)
	} else {
		st = store.SetFile(meta)
	}
	middleware.SetStatusTransition(c, string(before), string(st.Status))
	metrics.IncUploadAccepted()
	telemetry.Info("upload.accepted", map[string]any{
		"session_id": sessionID,
		"size":       size,
		"pages":      meta.Pages,
		"scanned":    meta.IsScanned,
	})
	respond.Created(c, st)
}

// single returns the one uploaded file or a rejection.
func (h *Handler) single(c *gin.Context) (*multipart.FileHeader, error) {
	if c.Request.ContentLength > h.MaxBytes+formOverhead {
		return nil, ErrTooLarge
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes+formOverhead)
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrTooLarge
		}
		return nil, ErrUnsupported
	}
	var files []*multipart.FileHeader
	for _, group := range form.File {
		files = append(files, group...)
	}
	switch {
	case len(files) > 1:
		return nil, ErrTooMany
	case len(form.File["file"]) != 1:
		return nil, ErrUnsupported
	}
	return files[0], nil
}

func (h *Handler) reject(c *gin.Context, store *session.Store, err error) {
	rej, ok := AsRejection(err)
	if !ok {
		rej = ErrUnsupported
	}
	msg := rej.Message
	store.SetError(&msg)
	metrics.IncUploadRejected()
	respond.Error(c, rej.Status, rej.Code, rej.Message, nil)
}

func (h *Handler) clear(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}
	h.cancelJob(c, middleware.SessionIDFromContext(c))
	respond.JSON(c, http.StatusOK, store.ClearFile())
}

// cancelJob stops generation from the outgoing source file so its result
// cannot land on the new one.
func (h *Handler) cancelJob(c *gin.Context, sessionID string) {
	if h.Jobs == nil {
		return
	}
	if h.Jobs.Cancel(sessionID) {
		telemetry.Info("upload.cancelled_generation", map[string]any{"session_id": sessionID, "request_id": middleware.RequestIDFromContext(c)})
	}
}
