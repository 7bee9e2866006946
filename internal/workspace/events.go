package workspace

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-formatter/internal/generation"
	"resume-formatter/internal/session"
	"resume-formatter/internal/shared/server/respond"
	"resume-formatter/internal/shared/telemetry"
)

const streamBuffer = 32

// sseWriter writes Server-Sent Events.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	return &sseWriter{w: w, flusher: flusher}, nil
}

func (s *sseWriter) event(name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

func (s *sseWriter) ping() error {
	if _, err := fmt.Fprint(s.w, ": ping\n\n"); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

type streamEvent struct {
	name string
	data any
}

// eventStream fans store transitions and job progress for one session into a
// channel. Sends never block: when the reader falls behind, events are dropped
// and the reader is told to resync.
type eventStream struct {
	sessionID string
	ch        chan streamEvent
	lagged    chan struct{}
	stop      []func()
}

func newEventStream(sessionID string, store *session.Store, tracker *generation.Tracker) *eventStream {
	s := &eventStream{
		sessionID: sessionID,
		ch:        make(chan streamEvent, streamBuffer),
		lagged:    make(chan struct{}, 1),
	}
	s.stop = append(s.stop, store.Subscribe(func(st session.State) {
		s.send(streamEvent{name: "state", data: st})
	}))
	if tracker != nil {
		s.stop = append(s.stop, tracker.Subscribe(func(p generation.Progress) {
			if p.SessionID == sessionID {
				s.send(streamEvent{name: "progress", data: p})
			}
		}))
	}
	return s
}

func (s *eventStream) send(ev streamEvent) {
	select {
	case s.ch <- ev:
	default:
		select {
		case s.lagged <- struct{}{}:
		default:
		}
	}
}

func (s *eventStream) close() {
	for _, fn := range s.stop {
		fn()
	}
}

func (h *Handler) events(c *gin.Context) {
	id, store, ok := h.session(c)
	if !ok {
		return
	}
	sw, err := newSSEWriter(c.Writer)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "streaming not supported", nil)
		return
	}

	stream := newEventStream(id, store, h.Tracker)
	defer stream.close()

	c.Status(http.StatusOK)
	if err := sw.event("state", store.State()); err != nil {
		return
	}
	if h.Tracker != nil {
		if job, found := h.Tracker.Get(id); found {
			if err := sw.event("progress", job.Progress()); err != nil {
				return
			}
		}
	}

	heartbeat := h.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-stream.ch:
			err = sw.event(ev.name, ev.data)
		case <-stream.lagged:
			err = sw.event("state", store.State())
		case <-ticker.C:
			err = sw.ping()
		}
		if err != nil {
			telemetry.Debug("events.write_failed", map[string]any{"session_id": id, "err": err})
			return
		}
	}
}
