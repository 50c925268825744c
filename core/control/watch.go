package control

import (
	"context"
	"time"

	"github.com/FYZAFH/audiotab/core/state"
)

// pollInterval is how often WatchStates polls pool state for changes.
// Pipelines transition infrequently compared to frame throughput, so a
// coarse poll is enough to keep subscribers current without adding a
// notification path into core/pipeline itself.
const pollInterval = 250 * time.Millisecond

// WatchStates polls every deployed pipeline's state and broadcasts a
// StatusEvent on the Controller's Hub whenever it changes. It runs until
// ctx is cancelled.
func (c *Controller) WatchStates(ctx context.Context) {
	last := make(map[string]state.Phase)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			current := c.GetAllPipelineStates()
			for id, st := range current {
				if prev, ok := last[id]; !ok || prev != st.Phase {
					c.hub.Broadcast(StatusEvent{PipelineID: id, State: st})
				}
				last[id] = st.Phase
			}
			for id := range last {
				if _, ok := current[id]; !ok {
					delete(last, id)
				}
			}
		}
	}
}
