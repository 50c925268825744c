package resilience

import (
	"context"
	"fmt"
	"time"

	"github.com/FYZAFH/audiotab/core/frame"
	"github.com/FYZAFH/audiotab/core/metrics"
	"github.com/FYZAFH/audiotab/core/node"
	"github.com/FYZAFH/audiotab/core/obs"
)

// Config configures a Shell around one node instance.
type Config struct {
	NodeID       string
	Policy       ErrorPolicy
	DefaultFrame *frame.Frame
	Restart      RestartStrategy
	Metrics      *metrics.NodeMetrics
	Observer     obs.Provider
}

// Shell is a transparent wrapper around any node.Executor. It satisfies
// node.Executor itself so the pipeline executor spawns it exactly like any
// other node — the wrapping is invisible above this package.
type Shell struct {
	inner  node.Executor
	config Config
}

var _ node.Executor = (*Shell)(nil)

// Wrap constructs a Shell. config.Metrics must be non-nil; it is the handle
// obtained from metrics.Collector.Register for config.NodeID.
func Wrap(inner node.Executor, config Config) *Shell {
	if config.Policy == "" {
		config.Policy = Propagate
	}
	return &Shell{inner: inner, config: config}
}

// RestartStrategy returns the declared (but unenforced) restart strategy.
//
// TODO(resilience): wire RestartExponential into a self-restart goroutine
// once a supervisor owns node task lifetimes independently of the pipeline
// executor's single spawn-per-node model; today this strategy is read-only.
func (s *Shell) RestartStrategy() RestartStrategy {
	return s.config.Restart
}

// Configure delegates to the wrapped node.
func (s *Shell) Configure(params map[string]any) error {
	return s.inner.Configure(params)
}

// Process applies the same timing/policy/metrics treatment as Run, for a
// single Frame. Used by graph validation and batch tests.
func (s *Shell) Process(ctx context.Context, input *frame.Frame) (*frame.Frame, error) {
	out, err, handled := s.processOne(ctx, input)
	if handled {
		return out, err
	}
	return out, err
}

// Run drains input, applies the shell to every received Frame via the
// wrapped node's Process, and publishes to output. It returns cleanly when
// input closes, mirroring node.Executor's own contract so the shell is a
// drop-in replacement for the node it wraps.
//
// A node.SelfDriving instance that currently drives itself (e.g. an
// AudioSource with a device injected) is handed off to runSelfDriven
// instead: its own Run loop produces Frames on its own schedule, and
// input only ever reaches it as a no-op/pacing signal, never as the
// thing that unblocks production.
func (s *Shell) Run(ctx context.Context, input <-chan *frame.Frame, output chan<- *frame.Frame) error {
	if sd, ok := s.inner.(node.SelfDriving); ok && sd.DrivesSelf() {
		return s.runSelfDriven(ctx, input, output)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in, ok := <-input:
			if !ok {
				return nil
			}

			out, err, propagate := s.processOne(ctx, in)
			if propagate {
				return err
			}
			if out == nil {
				// SkipFrame with no replacement: nothing to forward.
				continue
			}

			select {
			case output <- out:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// runSelfDriven lets the wrapped node's own Run loop produce Frames on its
// own schedule, forwarding each onto output and recording it in metrics.
// Unlike processOne, there is no single input Frame to time the call
// against, so only the frame-processed counter is updated here; the node
// itself is responsible for any internal timing it cares to expose.
func (s *Shell) runSelfDriven(ctx context.Context, input <-chan *frame.Frame, output chan<- *frame.Frame) error {
	local := make(chan *frame.Frame)
	runErr := make(chan error, 1)
	go func() {
		defer close(local)
		runErr <- s.inner.Run(ctx, input, local)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out, ok := <-local:
			if !ok {
				return <-runErr
			}
			if s.config.Metrics != nil {
				s.config.Metrics.RecordFrameProcessed()
			}
			select {
			case output <- out:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// processOne runs one Frame through the wrapped node's Process, times it,
// updates metrics, and applies the configured error policy. The third
// return value is true only when the policy is Propagate and an error
// occurred, signaling the caller to stop and return err.
func (s *Shell) processOne(ctx context.Context, in *frame.Frame) (out *frame.Frame, err error, propagate bool) {
	start := time.Now()
	result, processErr := s.inner.Process(ctx, in)
	elapsed := time.Since(start)

	if s.config.Metrics != nil {
		s.config.Metrics.FinishProcessing(uint64(elapsed.Microseconds()))
	}

	if processErr == nil {
		if s.config.Metrics != nil {
			s.config.Metrics.RecordFrameProcessed()
		}
		return result, nil, false
	}

	if s.config.Metrics != nil {
		s.config.Metrics.RecordError()
	}
	if s.config.Observer != nil {
		s.config.Observer.Error(ctx, fmt.Sprintf("node %s processing error", s.config.NodeID),
			obs.String(obs.AttrNodeID, s.config.NodeID), obs.Error(processErr))
	}

	switch s.config.Policy {
	case SkipFrame:
		return nil, nil, false
	case UseDefault:
		if s.config.DefaultFrame == nil {
			return nil, fmt.Errorf("node %s: use_default policy configured without a default frame: %w", s.config.NodeID, processErr), true
		}
		return s.config.DefaultFrame.Clone(), nil, false
	default: // Propagate
		return nil, fmt.Errorf("node %s: %w", s.config.NodeID, processErr), true
	}
}
