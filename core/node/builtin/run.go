package builtin

import (
	"context"

	"github.com/FYZAFH/audiotab/core/frame"
	"github.com/FYZAFH/audiotab/core/node"
)

// runViaProcess implements node.Executor.Run in terms of Process for a
// node whose only real logic lives in Process. It is what every builtin
// node's Run delegates to (AudioSource and TriggerSource only while they
// are not driving themselves). resilience.Shell calls Process directly for
// nodes that do not drive themselves and calls Run only for those that do,
// so this loop mainly serves RunOnce-style tests and any caller that
// drives a node by its Run method.
func runViaProcess(ctx context.Context, exec node.Executor, in <-chan *frame.Frame, out chan<- *frame.Frame) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-in:
			if !ok {
				return nil
			}
			result, err := exec.Process(ctx, f)
			if err != nil {
				return err
			}
			if result == nil {
				continue
			}
			select {
			case out <- result:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
