// Package schedule provides cancellable timers used by generation jobs and
// debounced session persistence.
package schedule

import (
	"sync"
	"time"
)

// Token identifies a callback scheduled on a Group.
type Token uint64

// Group owns a set of timers that can be cancelled together. A stopped group
// never fires again.
type Group struct {
	mu      sync.Mutex
	next    Token
	timers  map[Token]*time.Timer
	stopped bool
}

// NewGroup creates an empty timer group.
func NewGroup() *Group {
	return &Group{timers: make(map[Token]*time.Timer)}
}

// After schedules fn to run once after d. It returns the zero Token when the
// group is already stopped.
func (g *Group) After(d time.Duration, fn func()) Token {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped {
		return 0
	}
	g.next++
	tok := g.next
	g.timers[tok] = time.AfterFunc(d, func() {
		g.mu.Lock()
		_, live := g.timers[tok]
		if live {
			delete(g.timers, tok)
		}
		stopped := g.stopped
		g.mu.Unlock()
		if !live || stopped {
			return
		}
		fn()
	})
	return tok
}

// Cancel stops a single callback. It reports whether the callback was still
// pending.
func (g *Group) Cancel(tok Token) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.timers[tok]
	if !ok {
		return false
	}
	delete(g.timers, tok)
	t.Stop()
	return true
}

// Pending returns the number of callbacks that have not fired yet.
func (g *Group) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.timers)
}

// Stop cancels every outstanding callback and refuses new ones.
func (g *Group) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopped = true
	for tok, t := range g.timers {
		t.Stop()
		delete(g.timers, tok)
	}
}

// Stopped reports whether Stop has been called.
func (g *Group) Stopped() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stopped
}
