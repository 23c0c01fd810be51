package activity

import (
	"context"
	"sync"
	"time"

	"github.com/maxbolgarin/gitpulse/internal/model"
)

// Ticket identifies one activity request of a viewer
type Ticket struct {
	viewer string
	gen    uint64
}

// Guard makes sure the newest request of a viewer wins regardless of arrival order.
// Starting a request cancels the previous in-flight one of the same viewer.
// Viewers without an in-flight request are forgotten after the idle timeout.
type Guard struct {
	mu        sync.Mutex
	viewers   map[string]*viewerState
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type viewerState struct {
	gen      uint64
	cancel   context.CancelFunc
	latest   *model.Summary
	lastSeen time.Time
}

// NewGuard returns an empty Guard, idle <= 0 keeps viewers forever
func NewGuard(idle time.Duration) *Guard {
	return &Guard{
		viewers: make(map[string]*viewerState),
		idle:    idle,
		now:     time.Now,
	}
}

// Begin starts a new request for viewer. Returned context is canceled when a newer
// request of the same viewer begins or when the ticket is released.
func (g *Guard) Begin(ctx context.Context, viewer string) (context.Context, Ticket) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.sweep(now)

	state, ok := g.viewers[viewer]
	if !ok {
		state = &viewerState{}
		g.viewers[viewer] = state
	}
	if state.cancel != nil {
		state.cancel()
	}

	reqCtx, cancel := context.WithCancel(ctx)
	state.gen++
	state.cancel = cancel
	state.lastSeen = now

	return reqCtx, Ticket{viewer: viewer, gen: state.gen}
}

// Complete stores the result of a request if the ticket is still the newest one.
// It returns false for superseded tickets, their results must be dropped.
func (g *Guard) Complete(t Ticket, summary *model.Summary) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	state, ok := g.viewers[t.viewer]
	if !ok || state.gen != t.gen {
		return false
	}
	state.latest = summary
	state.lastSeen = g.now()
	return true
}

// Release frees the context of the request; it is safe to call more than once
func (g *Guard) Release(t Ticket) {
	g.mu.Lock()
	defer g.mu.Unlock()

	state, ok := g.viewers[t.viewer]
	if !ok || state.gen != t.gen || state.cancel == nil {
		return
	}
	state.cancel()
	state.cancel = nil
}

// Latest returns the newest accepted result of viewer
func (g *Guard) Latest(viewer string) (*model.Summary, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	state, ok := g.viewers[viewer]
	if !ok || state.latest == nil {
		return nil, false
	}
	state.lastSeen = g.now()
	return state.latest, true
}

// Len returns the number of tracked viewers
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.viewers)
}

// sweep drops idle viewers, it runs at most once per half of the idle timeout
func (g *Guard) sweep(now time.Time) {
	if g.idle <= 0 || now.Sub(g.lastSweep) < g.idle/2 {
		return
	}
	g.lastSweep = now

	for viewer, state := range g.viewers {
		if state.cancel == nil && now.Sub(state.lastSeen) >= g.idle {
			delete(g.viewers, viewer)
		}
	}
}
