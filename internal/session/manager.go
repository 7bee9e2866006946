package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"resume-formatter/internal/schedule"
	"resume-formatter/internal/shared/telemetry"
)

const persistTimeout = 5 * time.Second

// Manager owns one store per session id, hydrating each lazily from the
// persister and writing changes back through a debouncer.
type Manager struct {
	persister Persister
	handles   Handles
	debounce  time.Duration

	mu       sync.Mutex
	sessions map[string]*entry
	closed   bool
}

type entry struct {
	id          string
	store       *Store
	debouncer   *schedule.Debouncer
	once        sync.Once
	unsubscribe func()
}

// ErrClosed is returned after Close.
var ErrClosed = errors.New("session manager closed")

// NewManager creates a manager. A nil persister keeps state in memory only.
func NewManager(p Persister, h Handles, debounce time.Duration) *Manager {
	if p == nil {
		p = NewMemoryPersister()
	}
	return &Manager{persister: p, handles: h, debounce: debounce, sessions: make(map[string]*entry)}
}

// Get returns the hydrated store for id, creating it on first use.
func (m *Manager) Get(ctx context.Context, id string) (*Store, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	e, ok := m.sessions[id]
	if !ok {
		e = &entry{id: id, store: NewStore(m.handles), debouncer: schedule.NewDebouncer(m.debounce)}
		m.sessions[id] = e
	}
	m.mu.Unlock()

	e.once.Do(func() { m.hydrate(ctx, e) })
	return e.store, nil
}

// Peek returns the store for id without creating it.
func (m *Manager) Peek(id string) (*Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return e.store, true
}

func (m *Manager) hydrate(ctx context.Context, e *entry) {
	var persisted *PersistedState
	payload, err := m.persister.Load(ctx, e.id, StorageKey)
	switch {
	case err == nil:
		p, ok, derr := DecodeSnapshot(payload)
		if derr != nil {
			telemetry.Warn("session.hydrate_decode_failed", map[string]any{"session_id": e.id, "err": derr})
		} else if !ok {
			telemetry.Warn("session.hydrate_unknown_version", map[string]any{"session_id": e.id})
		} else {
			persisted = &p
		}
	case errors.Is(err, ErrNoSnapshot):
	default:
		telemetry.Warn("session.hydrate_load_failed", map[string]any{"session_id": e.id, "err": err})
	}

	e.store.Hydrate(persisted)
	e.unsubscribe = e.store.Subscribe(func(st State) {
		m.schedulePersist(e, st)
	})
	telemetry.Debug("session.hydrated", map[string]any{"session_id": e.id, "restored": persisted != nil})
}

func (m *Manager) schedulePersist(e *entry, st State) {
	payload, err := EncodeSnapshot(st)
	if err != nil {
		telemetry.Error("session.encode_failed", map[string]any{"session_id": e.id, "err": err})
		return
	}
	e.debouncer.Trigger(func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := m.persister.Save(ctx, e.id, StorageKey, payload, SnapshotVersion); err != nil {
			telemetry.Warn("session.persist_failed", map[string]any{"session_id": e.id, "revision": st.Revision, "err": err})
		}
	})
}

// StartOver removes the persisted entry and resets the store.
func (m *Manager) StartOver(ctx context.Context, id string) (State, error) {
	store, err := m.Get(ctx, id)
	if err != nil {
		return State{}, err
	}
	m.mu.Lock()
	e := m.sessions[id]
	m.mu.Unlock()

	e.debouncer.Cancel()
	if err := m.persister.Delete(ctx, id, StorageKey); err != nil {
		telemetry.Warn("session.delete_failed", map[string]any{"session_id": id, "err": err})
	}
	return store.Reset(), nil
}

// Flush writes any pending snapshot for id immediately.
func (m *Manager) Flush(id string) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		e.debouncer.Flush()
	}
}

// Close flushes every pending snapshot and stops accepting sessions.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	entries := make([]*entry, 0, len(m.sessions))
	for _, e := range m.sessions {
		entries = append(entries, e)
	}
	m.mu.Unlock()

	for _, e := range entries {
		// Waits for an in-flight hydration so unsubscribe is set.
		e.once.Do(func() {})
		e.debouncer.Flush()
		e.debouncer.Stop()
		if e.unsubscribe != nil {
			e.unsubscribe()
		}
	}
}

// Len returns the number of sessions held in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
