package models

import (
	"fmt"
	"sync"
)

// Guard allows at most one outstanding mutation per entity id. A second
// attempt fails fast instead of queueing.
type Guard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{inflight: make(map[string]struct{})}
}

// Acquire claims key. The returned release must be called once the
// mutation has resolved.
func (g *Guard) Acquire(key string) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inflight[key]; busy {
		return nil, fmt.Errorf("%w: %s", ErrInFlight, key)
	}
	g.inflight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inflight, key)
			g.mu.Unlock()
		})
	}, nil
}

func (g *Guard) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inflight[key]
	return busy
}
