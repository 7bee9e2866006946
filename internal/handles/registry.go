// Package handles mints revocable blob handles that stand in for browser
// object URLs. Each handle is bound to an object stored in the object store.
package handles

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"resume-formatter/internal/shared/metrics"
	"resume-formatter/internal/shared/storage/object"
	"resume-formatter/internal/shared/telemetry"
)

// Prefix starts every handle minted by a Registry.
const Prefix = "blob:"

const deleteTimeout = 5 * time.Second

// ErrRevoked is returned when a handle is unknown or has been revoked.
var ErrRevoked = errors.New("handle revoked")

// File describes stored bytes a handle can be bound to.
type File struct {
	Key      string
	Name     string
	MimeType string
	Size     int64
}

// Entry is a live handle binding.
type Entry struct {
	Handle    string
	File      File
	CreatedAt time.Time
}

// Stats reports handle lifecycle counters.
type Stats struct {
	Created uint64
	Revoked uint64
	Live    int
}

// Registry tracks live handles. It is safe for concurrent use.
type Registry struct {
	store object.ObjectStore

	mu      sync.RWMutex
	live    map[string]Entry
	created uint64
	revoked uint64
}

// New creates a registry backed by store. A nil store keeps bindings only.
func New(store object.ObjectStore) *Registry {
	return &Registry{store: store, live: make(map[string]Entry)}
}

// Create mints a new handle for f.
func (r *Registry) Create(f File) string {
	handle := Prefix + uuid.NewString()
	r.mu.Lock()
	r.live[handle] = Entry{Handle: handle, File: f, CreatedAt: time.Now().UTC()}
	r.created++
	r.mu.Unlock()
	metrics.IncHandleCreated()
	telemetry.Debug("handle.created", map[string]any{"handle": handle, "key": f.Key})
	return handle
}

// Revoke unbinds handle and deletes the backing object. Unknown, static and
// already revoked handles are ignored. Failures are logged, never returned.
func (r *Registry) Revoke(handle string) {
	if !strings.HasPrefix(handle, Prefix) {
		telemetry.Debug("handle.revoke_skipped", map[string]any{"handle": handle, "reason": "static"})
		return
	}

	r.mu.Lock()
	entry, ok := r.live[handle]
	if ok {
		delete(r.live, handle)
		r.revoked++
	}
	r.mu.Unlock()

	if !ok {
		telemetry.Debug("handle.revoke_skipped", map[string]any{"handle": handle, "reason": "unknown"})
		return
	}
	metrics.IncHandleRevoked()

	if r.store == nil || entry.File.Key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
	defer cancel()
	if err := r.store.Delete(ctx, entry.File.Key); err != nil && !errors.Is(err, object.ErrNotFound) {
		telemetry.Warn("handle.revoke_delete_failed", map[string]any{"handle": handle, "key": entry.File.Key, "err": err})
	}
}

// Resolve returns the binding for a live handle.
func (r *Registry) Resolve(handle string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.live[handle]
	return entry, ok
}

// Open streams the bytes behind a live handle.
func (r *Registry) Open(ctx context.Context, handle string) (io.ReadCloser, Entry, error) {
	entry, ok := r.Resolve(handle)
	if !ok {
		return nil, Entry{}, ErrRevoked
	}
	if r.store == nil {
		return nil, Entry{}, object.ErrNotFound
	}
	rc, err := r.store.Open(ctx, entry.File.Key)
	if err != nil {
		return nil, Entry{}, err
	}
	return rc, entry, nil
}

// Stats returns a snapshot of the lifecycle counters.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Stats{Created: r.created, Revoked: r.revoked, Live: len(r.live)}
}
