package session

import (
	"fmt"
	"sync"

	"resume-formatter/internal/handles"
)

// fakeHandles records every mint and revoke.
type fakeHandles struct {
	mu      sync.Mutex
	n       int
	live    map[string]bool
	revoked []string
	doubles int
}

func newFakeHandles() *fakeHandles {
	return &fakeHandles{live: make(map[string]bool)}
}

func (f *fakeHandles) Create(file handles.File) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	h := fmt.Sprintf("blob:%d", f.n)
	f.live[h] = true
	return h
}

func (f *fakeHandles) Revoke(h string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.live[h] {
		f.doubles++
		return
	}
	delete(f.live, h)
	f.revoked = append(f.revoked, h)
}

func (f *fakeHandles) created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n
}

func (f *fakeHandles) liveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

func (f *fakeHandles) wasRevoked(h string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.revoked {
		if r == h {
			return true
		}
	}
	return false
}

// registerResult mints a handle the way a generation job does.
func (f *fakeHandles) registerResult() string {
	return f.Create(handles.File{Key: "result.pdf"})
}
