package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/FYZAFH/audiotab/core/errkind"
	"github.com/FYZAFH/audiotab/core/frame"
	"github.com/FYZAFH/audiotab/core/graph"
	"github.com/FYZAFH/audiotab/core/metrics"
	"github.com/FYZAFH/audiotab/core/obs"
	"github.com/FYZAFH/audiotab/core/resilience"
	"github.com/FYZAFH/audiotab/core/state"
	"github.com/FYZAFH/audiotab/hal"
)

// DeviceInjectable is satisfied by a node executor (typically a
// core/node/builtin.AudioSource) that needs a live hal.DeviceChannels,
// plus the hal.DeviceProfile describing how to map and calibrate it,
// handed to it before it starts running. Pipeline detects this via a
// type assertion against the freshly instantiated executor, so core/node
// never has to import hal.
type DeviceInjectable interface {
	InjectDevice(hal.DeviceChannels, hal.DeviceProfile)
}

// profileLookup is satisfied by hal.Manager implementations (concretely
// hal/devicemanager.DeviceManager) that can resolve a profile id back to
// its full hal.DeviceProfile. It is optional: a Manager that only
// implements the streaming lifecycle still works, just without mapping
// metadata reaching the node.
type profileLookup interface {
	GetProfile(id string) (hal.DeviceProfile, bool)
}

// Pipeline is one running instance of a compiled graph. It owns the
// per-node input channels, the node goroutines (supervised by an
// errgroup.Group so a single node's failure cancels the rest), and the
// pipeline's PipelineState.
type Pipeline struct {
	id       string
	compiled *graph.Compiled
	metrics  *metrics.Collector
	config   config

	mu          sync.Mutex
	phase       state.Phase
	startedAt   time.Time
	pausedAt    time.Time
	completedAt time.Time
	errMessage  string
	errRecov    bool
	paused      atomic.Bool

	framesIn atomic.Uint64

	inputs         map[string]chan *frame.Frame
	startedDevices []string

	stopRequested atomic.Bool
	cancel        context.CancelFunc
	stopped       chan struct{}
}

// New constructs a Pipeline from a compiled graph. The returned Pipeline
// is Idle; call Start to run it.
func New(id string, compiled *graph.Compiled, collector *metrics.Collector, opts ...Option) *Pipeline {
	return &Pipeline{
		id:       id,
		compiled: compiled,
		metrics:  collector,
		config:   resolveConfig(opts),
		phase:    state.PhaseIdle,
		inputs:   make(map[string]chan *frame.Frame, len(compiled.TopoOrder)),
	}
}

// ID returns the pipeline instance's id.
func (p *Pipeline) ID() string { return p.id }

// Done returns a channel closed once the pipeline reaches a terminal
// phase (Completed or Error). It is nil until Start has been called.
func (p *Pipeline) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

// State returns a snapshot of the pipeline's current lifecycle phase and
// its phase-specific payload.
func (p *Pipeline) State() state.PipelineState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

func (p *Pipeline) stateLocked() state.PipelineState {
	switch p.phase {
	case state.PhaseInitializing:
		return state.Initializing(0)
	case state.PhaseRunning:
		return state.Running(p.startedAt, p.framesIn.Load())
	case state.PhasePaused:
		return state.Paused(p.pausedAt)
	case state.PhaseCompleted:
		return state.Completed(p.completedAt.Sub(p.startedAt), p.framesIn.Load())
	case state.PhaseError:
		return state.Error(p.errMessage, p.errRecov)
	default:
		return state.Idle()
	}
}

func (p *Pipeline) transitionLocked(next state.Phase) error {
	if !state.CanTransition(p.phase, next) {
		return fmt.Errorf("%w: pipeline %q cannot go from %s to %s", errkind.ErrInvalidStateTransition, p.id, p.phase, next)
	}
	p.phase = next
	return nil
}

// fail moves the pipeline to PhaseError, recording err as the terminal
// message. Used when Start fails after Initializing has already begun.
func (p *Pipeline) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errMessage = err.Error()
	p.errRecov = false
	_ = p.transitionLocked(state.PhaseError)
}

// Start instantiates the node goroutines, wires their channels per the
// compiled graph's edges and backpressure policy, injects any declared
// hardware devices, and moves the pipeline to Running. Start returns once
// the pipeline is up; it does not block for the pipeline's lifetime —
// call Stop, or observe State() turning to Completed/Error, to learn when
// it finishes.
func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	if err := p.transitionLocked(state.PhaseInitializing); err != nil {
		p.mu.Unlock()
		return err
	}
	p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	if p.config.observer != nil {
		runCtx = obs.ContextWithObserver(runCtx, p.config.observer)
	}

	for _, id := range p.compiled.TopoOrder {
		p.inputs[id] = make(chan *frame.Frame, p.compiled.Config.ChannelCapacity)
	}

	if err := p.injectDevices(runCtx); err != nil {
		cancel()
		p.fail(err)
		return err
	}

	group, groupCtx := errgroup.WithContext(runCtx)
	for _, id := range p.compiled.TopoOrder {
		id := id
		shell := p.wrapNode(id)
		group.Go(func() error { return p.runNode(groupCtx, id, shell) })
	}

	p.cancel = cancel
	p.stopped = make(chan struct{})

	p.mu.Lock()
	if err := p.transitionLocked(state.PhaseRunning); err != nil {
		p.mu.Unlock()
		cancel()
		return err
	}
	p.startedAt = time.Now()
	p.mu.Unlock()

	go p.supervise(group)

	return nil
}

func (p *Pipeline) wrapNode(id string) *resilience.Shell {
	handle := p.metrics.Register(id)
	return resilience.Wrap(p.compiled.Instances[id], resilience.Config{
		NodeID:       id,
		Policy:       p.config.errorPolicy,
		DefaultFrame: p.config.defaultFrame,
		Restart:      p.config.restart,
		Metrics:      handle,
		Observer:     p.config.observer,
	})
}

func (p *Pipeline) injectDevices(ctx context.Context) error {
	if p.config.deviceManager == nil {
		return nil
	}
	for id, decl := range p.compiled.Nodes {
		if decl.DeviceProfileID == "" {
			continue
		}
		injectable, ok := p.compiled.Instances[id].(DeviceInjectable)
		if !ok {
			return fmt.Errorf("%w: node %q declares device profile %q but its executor does not accept device injection",
				errkind.ErrInvalidConfig, id, decl.DeviceProfileID)
		}
		channels, err := p.config.deviceManager.StartDevice(ctx, decl.DeviceProfileID)
		if err != nil {
			return err
		}
		var profile hal.DeviceProfile
		if lookup, ok := p.config.deviceManager.(profileLookup); ok {
			profile, _ = lookup.GetProfile(decl.DeviceProfileID)
		}
		injectable.InjectDevice(channels, profile)
		p.startedDevices = append(p.startedDevices, decl.DeviceProfileID)
	}
	return nil
}

// runNode drains shell's output through a local buffer channel and fans
// it out to every downstream edge; it returns when shell.Run returns.
func (p *Pipeline) runNode(ctx context.Context, id string, shell *resilience.Shell) error {
	out := make(chan *frame.Frame, p.compiled.Config.ChannelCapacity)
	fanoutDone := make(chan struct{})
	go func() {
		defer close(fanoutDone)
		p.fanout(ctx, id, out)
	}()

	err := shell.Run(ctx, p.inputs[id], out)
	close(out)
	<-fanoutDone
	return err
}

func (p *Pipeline) fanout(ctx context.Context, id string, out <-chan *frame.Frame) {
	edges := p.compiled.Outgoing[id]
	for f := range out {
		if id == p.compiled.SourceNodeID {
			p.framesIn.Add(1)
		}
		if len(edges) == 0 {
			f.Release()
			continue
		}
		for i, edge := range edges {
			next := f
			if i < len(edges)-1 {
				next = f.Clone()
			}
			sendWithPolicy(ctx, p.inputs[edge.ToNode], next, p.compiled.Config.Backpressure)
		}
	}
}

func (p *Pipeline) supervise(group *errgroup.Group) {
	err := group.Wait()

	p.mu.Lock()
	p.completedAt = time.Now()
	if err != nil && !p.stopRequested.Load() {
		p.errMessage = err.Error()
		p.errRecov = false
		_ = p.transitionLocked(state.PhaseError)
	} else {
		_ = p.transitionLocked(state.PhaseCompleted)
	}
	devices := p.startedDevices
	p.mu.Unlock()

	if p.config.deviceManager != nil {
		for _, profileID := range devices {
			_ = p.config.deviceManager.StopDevice(context.Background(), profileID)
		}
	}

	close(p.stopped)
}

// Trigger injects f into the pipeline's source node, as if it had arrived
// from a device or an external stimulus. It is rejected while paused or
// when the pipeline isn't running.
func (p *Pipeline) Trigger(ctx context.Context, f *frame.Frame) error {
	p.mu.Lock()
	phase := p.phase
	p.mu.Unlock()

	if phase != state.PhaseRunning {
		return fmt.Errorf("%w: pipeline %q is not running (phase %s)", errkind.ErrInvalidStateTransition, p.id, phase)
	}
	if p.paused.Load() {
		return fmt.Errorf("%w: pipeline %q is paused", errkind.ErrInvalidStateTransition, p.id)
	}

	select {
	case p.inputs[p.compiled.SourceNodeID] <- f:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pause stops new Trigger calls from being accepted; frames already
// queued keep draining through the node goroutines. Resume lifts it.
func (p *Pipeline) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.transitionLocked(state.PhasePaused); err != nil {
		return err
	}
	p.pausedAt = time.Now()
	p.paused.Store(true)
	return nil
}

// Resume reverses Pause.
func (p *Pipeline) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.transitionLocked(state.PhaseRunning); err != nil {
		return err
	}
	p.paused.Store(false)
	return nil
}

// Stop cancels every node goroutine and waits for the pipeline to reach a
// terminal phase (or ctx to expire). Stopping an already-Completed or
// Error pipeline is a no-op.
func (p *Pipeline) Stop(ctx context.Context) error {
	p.mu.Lock()
	phase := p.phase
	cancel := p.cancel
	stopped := p.stopped
	p.mu.Unlock()

	if phase == state.PhaseCompleted || phase == state.PhaseError {
		return nil
	}
	if cancel == nil {
		return fmt.Errorf("%w: pipeline %q was never started", errkind.ErrInvalidStateTransition, p.id)
	}

	p.stopRequested.Store(true)
	cancel()
	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
