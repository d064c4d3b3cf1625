// Package gate runs a render pass at most once at a time. A request that
// arrives while a pass is running is remembered and served by exactly one
// trailing pass, however many requests piled up.
package gate

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// PassFunc does one unit of work
type PassFunc func(ctx context.Context) error

// Gate is a single-flight runner with a trailing re-trigger
type Gate struct {
	pass    PassFunc
	onError func(error)

	running *semaphore.Weighted
	mu      sync.Mutex
	pending bool
	idle    sync.WaitGroup
}

// New creates a gate around pass. onError receives pass failures and may
// be nil, in which case failures are dropped.
func New(pass PassFunc, onError func(error)) *Gate {
	if onError == nil {
		onError = func(error) {}
	}
	return &Gate{
		pass:    pass,
		onError: onError,
		running: semaphore.NewWeighted(1),
	}
}

// Trigger asks for a pass. It returns true when it started one and false
// when a pass was already running and a re-run was queued instead.
func (g *Gate) Trigger(ctx context.Context) bool {
	g.mu.Lock()
	if !g.running.TryAcquire(1) {
		g.pending = true
		g.mu.Unlock()
		return false
	}
	g.idle.Add(1)
	g.mu.Unlock()

	go g.loop(ctx)
	return true
}

func (g *Gate) loop(ctx context.Context) {
	defer g.idle.Done()
	for {
		if err := ctx.Err(); err != nil {
			g.finish()
			return
		}
		if err := g.pass(ctx); err != nil {
			g.onError(err)
		}

		g.mu.Lock()
		if !g.pending {
			g.running.Release(1)
			g.mu.Unlock()
			return
		}
		g.pending = false
		g.mu.Unlock()
	}
}

func (g *Gate) finish() {
	g.mu.Lock()
	g.pending = false
	g.running.Release(1)
	g.mu.Unlock()
}

// Wait blocks until no pass is running or queued
func (g *Gate) Wait() {
	g.idle.Wait()
}
