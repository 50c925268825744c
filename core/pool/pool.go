package pool

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/FYZAFH/audiotab/core/errkind"
	"github.com/FYZAFH/audiotab/core/pipeline"
)

// Pool bounds the number of concurrently running pipeline.Pipeline
// instances to capacity, via a weighted semaphore acquired for the
// lifetime of each running pipeline and released once it stops.
type Pool struct {
	sem      *semaphore.Weighted
	capacity int64

	mu        sync.Mutex
	instances map[string]*pipeline.Pipeline
}

// New returns a Pool admitting at most capacity concurrently running
// pipelines.
func New(capacity int64) *Pool {
	return &Pool{
		sem:       semaphore.NewWeighted(capacity),
		capacity:  capacity,
		instances: make(map[string]*pipeline.Pipeline),
	}
}

// Deploy acquires a pool slot (blocking until one is free or ctx is
// cancelled), starts p, and registers it under p.ID(). The slot is
// released automatically once p reaches a terminal phase; callers do not
// need to call Release.
func (pl *Pool) Deploy(ctx context.Context, p *pipeline.Pipeline) error {
	if err := pl.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: pool capacity (%d) exhausted: %s", errkind.ErrResourceExhausted, pl.capacity, err)
	}

	if err := p.Start(ctx); err != nil {
		pl.sem.Release(1)
		return err
	}

	pl.mu.Lock()
	pl.instances[p.ID()] = p
	pl.mu.Unlock()

	go pl.awaitRelease(p)

	return nil
}

// awaitRelease reclaims the pool slot once p reaches a terminal phase,
// whether that happens via an explicit Remove/Stop or because the
// pipeline finished on its own.
func (pl *Pool) awaitRelease(p *pipeline.Pipeline) {
	<-p.Done()
	pl.mu.Lock()
	delete(pl.instances, p.ID())
	pl.mu.Unlock()
	pl.sem.Release(1)
}

// Remove stops the named pipeline and removes it from the pool, freeing
// its slot. Removing an unknown id is a no-op.
func (pl *Pool) Remove(ctx context.Context, id string) error {
	pl.mu.Lock()
	p, ok := pl.instances[id]
	pl.mu.Unlock()
	if !ok {
		return nil
	}
	return p.Stop(ctx)
}

// Get returns the running pipeline registered under id.
func (pl *Pool) Get(id string) (*pipeline.Pipeline, bool) {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	p, ok := pl.instances[id]
	return p, ok
}

// IDs returns every currently-registered pipeline id, sorted.
func (pl *Pool) IDs() []string {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	ids := make([]string, 0, len(pl.instances))
	for id := range pl.instances {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
