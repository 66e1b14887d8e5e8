// Package guard keeps jobs from overlapping themselves when a run outlasts
// its tick.
package guard

import "sync"

type Guard struct {
	mu      sync.Mutex
	running map[string]bool
}

func New() *Guard {
	return &Guard{running: map[string]bool{}}
}

// TryAcquire claims the named job slot. Returns false when a previous run
// still holds it.
func (g *Guard) TryAcquire(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running[name] {
		return false
	}
	g.running[name] = true
	return true
}

func (g *Guard) Release(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, name)
}
