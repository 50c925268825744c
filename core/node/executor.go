package node

import (
	"context"
	"fmt"

	"github.com/FYZAFH/audiotab/core/errkind"
	"github.com/FYZAFH/audiotab/core/frame"
)

// Executor is the interface every processing node implements: configure
// once at instantiation, process a single Frame synchronously (used during
// graph validation and batch testing), and run as a long-lived stream stage
// (used by the pipeline executor).
type Executor interface {
	// Configure validates and stores parameters. Called once, before the
	// node is ever processed or run. A second call before Run overrides the
	// first, per the idempotence property in the testable-properties list.
	Configure(params map[string]any) error

	// Process runs the node against a single Frame and returns its single
	// output Frame. Implementations that only provide Run get this for
	// free via RunOnce, which drives Run against a one-frame stream.
	Process(ctx context.Context, input *frame.Frame) (*frame.Frame, error)

	// Run drains input, processes each received Frame, and publishes to
	// output. It returns cleanly (nil error) when input closes. Sources
	// ignore input entirely except as a pacing/trigger signal and produce
	// Frames on their own schedule until ctx is canceled or input closes.
	Run(ctx context.Context, input <-chan *frame.Frame, output chan<- *frame.Frame) error
}

// SelfDriving is implemented by a source node whose Process call blocks on
// something other than its input channel — a hardware device's own fill
// queue, a timer, etc. — per spec §4.5's distinction between triggered
// sources and self-driving ones. resilience.Shell detects this and lets
// the node drive its own Run loop instead of gating every Process call
// behind a Frame arriving on input; input Frames still reach the node as
// no-ops or pacing pulses, never as the thing that unblocks production.
type SelfDriving interface {
	Executor

	// DrivesSelf reports whether this instance currently drives itself.
	// It exists (rather than a bare marker interface) so a node type that
	// is only sometimes self-driving — e.g. before a device has been
	// injected — can fall back to Shell's ordinary input-gated loop.
	DrivesSelf() bool
}

// RunOnce drives an Executor's Run method against a single input Frame and
// returns the single Frame it publishes, for executors that only implement
// Run and want Process for free. It is a synchronous, non-streaming
// convenience used by graph validation and unit tests.
func RunOnce(ctx context.Context, executor Executor, input *frame.Frame) (*frame.Frame, error) {
	inCh := make(chan *frame.Frame, 1)
	outCh := make(chan *frame.Frame, 1)

	inCh <- input
	close(inCh)

	runErr := make(chan error, 1)
	go func() {
		runErr <- executor.Run(ctx, inCh, outCh)
	}()

	select {
	case out, ok := <-outCh:
		if !ok {
			return nil, fmt.Errorf("%w: node produced no output frame", errkind.ErrProcessingError)
		}
		if err := <-runErr; err != nil {
			return out, err
		}
		return out, nil
	case err := <-runErr:
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: node produced no output frame", errkind.ErrProcessingError)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
