package generation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"resume-formatter/internal/handles"
	"resume-formatter/internal/session"
	"resume-formatter/internal/shared/metrics"
	"resume-formatter/internal/shared/storage/object"
	"resume-formatter/internal/shared/telemetry"
	"resume-formatter/internal/shared/util"
	"resume-formatter/resume/model"
	"resume-formatter/resume/refine"
	"resume-formatter/resume/render"
	"resume-formatter/resume/sample"
)

const pdfMimeType = "application/pdf"

// ErrStopped is returned by Start once the tracker has been stopped.
var ErrStopped = errors.New("generation tracker stopped")

// Target is the session store a job reads from and writes to.
type Target interface {
	State() session.State
	StartGenerating() session.State
	SetParsed(p *model.ParsedResume) session.State
	SetResult(r session.Result) session.State
	Fail(message string) session.State
}

// RenderFunc turns a parsed resume into PDF bytes.
type RenderFunc func(parsed *model.ParsedResume, r *refine.Refinements) ([]byte, error)

// Options configures a Tracker. Handles is required.
type Options struct {
	Plan    PlanConfig
	Objects object.ObjectStore
	Handles session.Handles
	Render  RenderFunc
	Rand    func() float64
}

// Tracker runs at most one job per session.
type Tracker struct {
	opts Options

	mu        sync.Mutex
	jobs      map[string]*Job
	listeners map[int]func(Progress)
	nextID    int
	stopped   bool
	wg        sync.WaitGroup
}

// NewTracker creates a tracker.
func NewTracker(opts Options) *Tracker {
	if opts.Render == nil {
		opts.Render = func(parsed *model.ParsedResume, r *refine.Refinements) ([]byte, error) {
			return render.RenderPDF(parsed, r, render.Options{})
		}
	}
	if opts.Rand == nil {
		opts.Rand = rand.Float64
	}
	return &Tracker{
		opts:      opts,
		jobs:      make(map[string]*Job),
		listeners: make(map[int]func(Progress)),
	}
}

// Start launches a job of kind for sessionID. If a job of the same kind is
// still running it is returned with started=false. A running job of another
// kind is cancelled first.
func (t *Tracker) Start(sessionID string, kind Kind, target Target) (job *Job, started bool, err error) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return nil, false, ErrStopped
	}
	prev, ok := t.jobs[sessionID]
	if ok && prev.Running() && prev.kind == kind {
		t.mu.Unlock()
		return prev, false, nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	job = newJob(uuid.NewString(), sessionID, kind, cancel, t.broadcast)
	t.jobs[sessionID] = job
	t.wg.Add(1)
	t.mu.Unlock()

	// Progress listeners take t.mu, so the superseded job is cancelled after
	// releasing it.
	if ok && prev.Cancel() {
		telemetry.Info("generation.superseded", map[string]any{"session_id": sessionID, "job_id": prev.id, "by": string(kind)})
	}

	target.StartGenerating()
	metrics.IncGenerationStarted()
	telemetry.Info("generation.started", map[string]any{"session_id": sessionID, "job_id": job.id, "kind": string(kind)})
	job.emit(job.Progress())

	go t.run(ctx, job, target)
	return job, true, nil
}

// Get returns the latest job for sessionID.
func (t *Tracker) Get(sessionID string) (*Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	j, ok := t.jobs[sessionID]
	return j, ok
}

// Cancel cancels the running job for sessionID. It reports whether a job was
// cancelled.
//
// Once Cancel returns the job can no longer write to the session, even if it
// had already completed and was about to store its result. Callers about to
// change the session's source file cancel first.
func (t *Tracker) Cancel(sessionID string) bool {
	t.mu.Lock()
	j, ok := t.jobs[sessionID]
	if ok {
		j.detached = true
	}
	t.mu.Unlock()
	if !ok {
		return false
	}
	return j.Cancel()
}

// Forget cancels and drops any job for sessionID.
func (t *Tracker) Forget(sessionID string) {
	t.mu.Lock()
	j, ok := t.jobs[sessionID]
	delete(t.jobs, sessionID)
	t.mu.Unlock()
	if ok {
		j.Cancel()
	}
}

// Subscribe registers fn for progress updates of every job.
func (t *Tracker) Subscribe(fn func(Progress)) func() {
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.listeners[id] = fn
	t.mu.Unlock()
	return func() {
		t.mu.Lock()
		delete(t.listeners, id)
		t.mu.Unlock()
	}
}

// Stop cancels every running job and waits for their goroutines.
func (t *Tracker) Stop() {
	t.mu.Lock()
	t.stopped = true
	jobs := make([]*Job, 0, len(t.jobs))
	for _, j := range t.jobs {
		j.detached = true
		jobs = append(jobs, j)
	}
	t.mu.Unlock()

	for _, j := range jobs {
		j.Cancel()
	}
	t.wg.Wait()
}

func (t *Tracker) broadcast(p Progress) {
	t.mu.Lock()
	fns := make([]func(Progress), 0, len(t.listeners))
	for _, fn := range t.listeners {
		fns = append(fns, fn)
	}
	t.mu.Unlock()
	for _, fn := range fns {
		fn(p)
	}
}

func (t *Tracker) run(ctx context.Context, j *Job, target Target) {
	defer t.wg.Done()
	defer close(j.done)

	start := time.Now()
	st := target.State()
	parsed := st.Parsed
	if j.kind == KindGenerate || parsed == nil {
		parsed = sample.Parsed()
	}
	refinements := st.Refinements

	var (
		handle string
		size   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, n, err := t.produce(gctx, j, parsed, refinements)
		handle, size = h, n
		return err
	})
	if j.kind == KindGenerate {
		plan := NewPlan(t.opts.Plan, t.opts.Rand)
		for i, at := range plan.StepAt {
			step := i + 1
			j.timers.After(at, func() { j.setStep(step) })
		}
		elapsed := make(chan struct{})
		j.timers.After(plan.Total, func() { close(elapsed) })
		g.Go(func() error {
			select {
			case <-elapsed:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}
	err := g.Wait()

	fields := map[string]any{"session_id": j.sessionID, "job_id": j.id, "kind": string(j.kind)}
	switch {
	case err == nil && t.commit(j, StateCompleted, "", func() {
		target.SetParsed(parsed)
		target.SetResult(session.Result{
			PDFURL: handle,
			Meta:   map[string]any{"jobId": j.id, "kind": string(j.kind), "bytes": size, "template": "govstar"},
		})
	}):
		metrics.IncGenerationCompleted()
		metrics.ObserveGenerationDurationMs(metrics.SinceMillis(start))
		fields["duration_ms"] = time.Since(start).Milliseconds()
		telemetry.Info("generation.completed", fields)
		return
	case err != nil && ctx.Err() == nil && t.commit(j, StateFailed, err.Error(), func() {
		target.Fail(j.kind.FailureMessage())
	}):
		t.revoke(handle)
		metrics.IncGenerationFailed()
		fields["err"] = err
		telemetry.Warn("generation.failed", fields)
		return
	}

	// Cancelled, superseded or detached: nothing is written and any minted
	// handle is released.
	j.finish(StateCancelled, "")
	t.revoke(handle)
	metrics.IncGenerationCancelled()
	telemetry.Info("generation.cancelled", fields)
}

// commit moves j to state and runs write while j is still the session's
// current, attached job. Holding t.mu orders the writes against Start and
// Cancel, so a superseding job or a source change never sees them land late.
// write must not call back into the tracker.
func (t *Tracker) commit(j *Job, state State, errMsg string, write func()) bool {
	t.mu.Lock()
	if t.jobs[j.sessionID] != j || j.detached {
		t.mu.Unlock()
		return false
	}
	p, ok := j.claim(state, errMsg)
	if ok {
		write()
	}
	t.mu.Unlock()
	if ok {
		j.emit(p)
	}
	return ok
}

func (t *Tracker) produce(ctx context.Context, j *Job, parsed *model.ParsedResume, r *refine.Refinements) (string, int, error) {
	pdf, err := t.opts.Render(parsed, r)
	if err != nil {
		return "", 0, fmt.Errorf("render: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	file := handles.File{Name: "resume.pdf", MimeType: pdfMimeType, Size: int64(len(pdf))}
	if t.opts.Objects != nil {
		key := path.Join("generated", util.HashSessionKey(j.sessionID), j.id+".pdf")
		if _, err := t.opts.Objects.SaveWithKey(ctx, key, pdfMimeType, bytes.NewReader(pdf)); err != nil {
			return "", 0, fmt.Errorf("save result: %w", err)
		}
		file.Key = key
	}
	return t.opts.Handles.Create(file), len(pdf), nil
}

func (t *Tracker) revoke(handle string) {
	if handle != "" {
		t.opts.Handles.Revoke(handle)
	}
}
