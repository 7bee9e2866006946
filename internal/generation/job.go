package generation

import (
	"context"
	"sync"
	"time"

	"resume-formatter/internal/schedule"
)

// Kind distinguishes first generation from preview regeneration.
type Kind string

const (
	KindGenerate   Kind = "generate"
	KindRegenerate Kind = "regenerate"
)

// Failure messages written to the session.
const (
	GenerationFailedMessage   = "Generation failed. Please try again."
	RegenerationFailedMessage = "Regeneration failed. Please try again."
)

// FailureMessage returns the session error text for a failed job of kind k.
func (k Kind) FailureMessage() string {
	if k == KindRegenerate {
		return RegenerationFailedMessage
	}
	return GenerationFailedMessage
}

// ParseKind accepts "generate" and "regenerate".
func ParseKind(raw string) (Kind, bool) {
	switch Kind(raw) {
	case KindGenerate, KindRegenerate:
		return Kind(raw), true
	}
	return "", false
}

// State is a job lifecycle state.
type State string

const (
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Progress is a point-in-time view of a job.
type Progress struct {
	ID         string     `json:"id"`
	SessionID  string     `json:"-"`
	Kind       Kind       `json:"kind"`
	Steps      []string   `json:"steps"`
	ActiveStep int        `json:"activeStep"`
	State      State      `json:"state"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// Job is one running or finished generation.
type Job struct {
	id        string
	sessionID string
	kind      Kind

	timers *schedule.Group
	cancel context.CancelFunc
	done   chan struct{}
	notify func(Progress)

	// detached is guarded by the tracker lock. A detached job never writes
	// to its session.
	detached bool

	mu       sync.Mutex
	active   int
	state    State
	err      string
	started  time.Time
	finished time.Time
}

func newJob(id, sessionID string, kind Kind, cancel context.CancelFunc, notify func(Progress)) *Job {
	return &Job{
		id:        id,
		sessionID: sessionID,
		kind:      kind,
		timers:    schedule.NewGroup(),
		cancel:    cancel,
		done:      make(chan struct{}),
		notify:    notify,
		state:     StateRunning,
		started:   time.Now().UTC(),
	}
}

// ID returns the job id.
func (j *Job) ID() string { return j.id }

// Kind returns the job kind.
func (j *Job) Kind() Kind { return j.kind }

// Done is closed once the job goroutine has returned.
func (j *Job) Done() <-chan struct{} { return j.done }

// Running reports whether the job has not reached a final state.
func (j *Job) Running() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state == StateRunning
}

// Progress returns a snapshot of the job.
func (j *Job) Progress() Progress {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.progressLocked()
}

func (j *Job) progressLocked() Progress {
	p := Progress{
		ID:         j.id,
		SessionID:  j.sessionID,
		Kind:       j.kind,
		Steps:      append([]string(nil), Steps...),
		ActiveStep: j.active,
		State:      j.state,
		Error:      j.err,
		StartedAt:  j.started,
	}
	if !j.finished.IsZero() {
		f := j.finished
		p.FinishedAt = &f
	}
	return p
}

// Cancel stops the job's timers and suppresses any later session writes. It
// reports whether the job was still running.
func (j *Job) Cancel() bool {
	if !j.finish(StateCancelled, "") {
		return false
	}
	j.cancel()
	return true
}

// setStep advances the active step while the job is running.
func (j *Job) setStep(i int) {
	j.mu.Lock()
	if j.state != StateRunning || i <= j.active || i >= len(Steps) {
		j.mu.Unlock()
		return
	}
	j.active = i
	p := j.progressLocked()
	j.mu.Unlock()
	j.emit(p)
}

// finish moves a running job to a final state and emits it. Only the first
// call wins.
func (j *Job) finish(state State, errMsg string) bool {
	p, ok := j.claim(state, errMsg)
	if ok {
		j.emit(p)
	}
	return ok
}

// claim is finish without the progress notification, for callers holding
// the tracker lock.
func (j *Job) claim(state State, errMsg string) (Progress, bool) {
	j.mu.Lock()
	if j.state != StateRunning {
		j.mu.Unlock()
		return Progress{}, false
	}
	j.state = state
	j.err = errMsg
	if state == StateCompleted {
		j.active = len(Steps) - 1
	}
	j.finished = time.Now().UTC()
	p := j.progressLocked()
	j.mu.Unlock()

	j.timers.Stop()
	return p, true
}

func (j *Job) emit(p Progress) {
	if j.notify != nil {
		j.notify(p)
	}
}
