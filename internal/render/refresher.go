package render

import (
	"bytes"
	"context"
	"sync"

	"cetaksoal/internal"
	"cetaksoal/internal/gate"
	"cetaksoal/internal/state"
)

// Refresher keeps a rendered copy of the latest document. Store changes
// schedule a render pass through a single-flight gate so bursts of
// setting changes cost at most one extra pass.
type Refresher struct {
	renderer *Renderer
	store    *state.Store
	gate     *gate.Gate
	logger   *internal.Logger

	mu        sync.RWMutex
	cached    []byte
	cachedGen uint64
	hasCache  bool
}

// NewRefresher wires a refresher to store. ctx bounds background passes.
func NewRefresher(ctx context.Context, renderer *Renderer, store *state.Store, logger *internal.Logger) *Refresher {
	f := &Refresher{
		renderer: renderer,
		store:    store,
		logger:   logger.Named("Refresher"),
	}
	f.gate = gate.New(f.pass, func(err error) {
		f.logger.Debug("render pass failed: %v", err)
	})
	store.Subscribe(func(state.Snapshot) {
		f.gate.Trigger(ctx)
	})
	f.gate.Trigger(ctx)
	return f
}

func (f *Refresher) pass(ctx context.Context) error {
	snap := f.store.Snapshot()
	html, err := f.render(snap)
	if err != nil {
		return err
	}
	f.remember(snap.Generation, html)
	f.logger.Trace("rendered generation %d (%d bytes)", snap.Generation, len(html))
	return nil
}

func (f *Refresher) render(snap state.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.renderer.Document(&buf, snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// remember keeps html unless a newer generation is already cached
func (f *Refresher) remember(gen uint64, html []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hasCache && f.cachedGen > gen {
		return
	}
	f.cached, f.cachedGen, f.hasCache = html, gen, true
}

// Current returns the document for the latest snapshot, rendering it
// inline when the background pass has not caught up yet.
func (f *Refresher) Current(ctx context.Context) ([]byte, uint64, error) {
	snap := f.store.Snapshot()

	f.mu.RLock()
	if f.hasCache && f.cachedGen == snap.Generation {
		html, gen := f.cached, f.cachedGen
		f.mu.RUnlock()
		return html, gen, nil
	}
	f.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	html, err := f.render(snap)
	if err != nil {
		return nil, 0, err
	}
	f.remember(snap.Generation, html)
	return html, snap.Generation, nil
}

// Wait blocks until no background pass is running
func (f *Refresher) Wait() {
	f.gate.Wait()
}
