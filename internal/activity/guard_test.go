package activity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/maxbolgarin/gitpulse/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardNewestWins(t *testing.T) {
	g := NewGuard(time.Hour)
	ctx := context.Background()

	oldCtx, oldTicket := g.Begin(ctx, "viewer")
	newCtx, newTicket := g.Begin(ctx, "viewer")

	require.ErrorIs(t, oldCtx.Err(), context.Canceled)
	require.NoError(t, newCtx.Err())

	fresh := &model.Summary{Totals: model.Totals{Commits: 2}}
	stale := &model.Summary{Totals: model.Totals{Commits: 1}}

	// newer request finishes first, the stale one arrives later
	assert.True(t, g.Complete(newTicket, fresh))
	assert.False(t, g.Complete(oldTicket, stale))

	latest, ok := g.Latest("viewer")
	require.True(t, ok)
	assert.Same(t, fresh, latest)
}

func TestGuardViewersAreIndependent(t *testing.T) {
	g := NewGuard(time.Hour)
	ctx := context.Background()

	aCtx, a := g.Begin(ctx, "a")
	_, b := g.Begin(ctx, "b")

	assert.NoError(t, aCtx.Err())
	assert.True(t, g.Complete(a, &model.Summary{}))
	assert.True(t, g.Complete(b, &model.Summary{}))

	_, ok := g.Latest("c")
	assert.False(t, ok)
}

func TestGuardRelease(t *testing.T) {
	g := NewGuard(time.Hour)

	reqCtx, ticket := g.Begin(context.Background(), "viewer")
	g.Release(ticket)
	g.Release(ticket)

	assert.ErrorIs(t, reqCtx.Err(), context.Canceled)
	_, ok := g.Latest("viewer")
	assert.False(t, ok)

	// released ticket is still the newest one
	assert.True(t, g.Complete(ticket, &model.Summary{}))
}

func TestGuardConcurrent(t *testing.T) {
	g := NewGuard(time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ticket := g.Begin(ctx, "viewer")
			g.Complete(ticket, &model.Summary{})
			g.Release(ticket)
		}()
	}
	wg.Wait()

	_, last := g.Begin(ctx, "viewer")
	assert.True(t, g.Complete(last, &model.Summary{}))
}

func TestGuardEvictsIdleViewers(t *testing.T) {
	g := NewGuard(10 * time.Minute)
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return clock }
	ctx := context.Background()

	_, idle := g.Begin(ctx, "idle")
	g.Complete(idle, &model.Summary{})
	g.Release(idle)

	// in-flight requests are never evicted
	_, busy := g.Begin(ctx, "busy")

	clock = clock.Add(11 * time.Minute)
	g.Begin(ctx, "fresh")

	_, ok := g.Latest("idle")
	assert.False(t, ok)
	assert.Equal(t, 2, g.Len())
	assert.True(t, g.Complete(busy, &model.Summary{}))
}

func TestGuardKeepsRecentlyReadViewers(t *testing.T) {
	g := NewGuard(10 * time.Minute)
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return clock }
	ctx := context.Background()

	_, ticket := g.Begin(ctx, "viewer")
	g.Complete(ticket, &model.Summary{})
	g.Release(ticket)

	clock = clock.Add(8 * time.Minute)
	_, ok := g.Latest("viewer")
	require.True(t, ok)

	clock = clock.Add(8 * time.Minute)
	g.Begin(ctx, "other")

	_, ok = g.Latest("viewer")
	assert.True(t, ok)
}
