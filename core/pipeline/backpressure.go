package pipeline

import (
	"context"

	"github.com/FYZAFH/audiotab/core/frame"
	"github.com/FYZAFH/audiotab/core/graph"
)

// sendWithPolicy delivers f to ch according to policy (§4.5 boundary
// behaviors). Block waits for room or cancellation. DropNewest discards f
// itself when ch is full. DropOldest discards whatever is currently at
// the head of ch to make room for f, preserving forward progress for the
// producer at the cost of the oldest queued frame.
func sendWithPolicy(ctx context.Context, ch chan<- *frame.Frame, f *frame.Frame, policy graph.BackpressurePolicy) {
	switch policy {
	case graph.BackpressureDropNewest:
		select {
		case ch <- f:
		default:
			f.Release()
		}
	case graph.BackpressureDropOldest:
		select {
		case ch <- f:
			return
		default:
		}
		select {
		case old := <-ch:
			old.Release()
		default:
		}
		select {
		case ch <- f:
		case <-ctx.Done():
			f.Release()
		}
	default: // graph.BackpressureBlock
		select {
		case ch <- f:
		case <-ctx.Done():
			f.Release()
		}
	}
}
