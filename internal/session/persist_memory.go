package session

import (
	"context"
	"sync"
)

// MemoryPersister is an in-memory implementation of Persister.
type MemoryPersister struct {
	mu   sync.RWMutex
	data map[string][]byte // sessionID + "\x00" + key -> payload
}

// NewMemoryPersister constructs a MemoryPersister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{data: make(map[string][]byte)}
}

func memoryKey(sessionID, key string) string {
	return sessionID + "\x00" + key
}

// Load returns the stored payload.
func (p *MemoryPersister) Load(ctx context.Context, sessionID, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	payload, ok := p.data[memoryKey(sessionID, key)]
	if !ok {
		return nil, ErrNoSnapshot
	}
	return append([]byte(nil), payload...), nil
}

// Save stores/overwrites the payload.
func (p *MemoryPersister) Save(ctx context.Context, sessionID, key string, payload []byte, version int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[memoryKey(sessionID, key)] = append([]byte(nil), payload...)
	return nil
}

// Delete removes the payload. Missing entries are not an error.
func (p *MemoryPersister) Delete(ctx context.Context, sessionID, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.data, memoryKey(sessionID, key))
	return nil
}

// Len returns the number of stored entries.
func (p *MemoryPersister) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.data)
}
