package control

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/FYZAFH/audiotab/core/errkind"
	"github.com/FYZAFH/audiotab/core/frame"
	"github.com/FYZAFH/audiotab/core/graph"
	"github.com/FYZAFH/audiotab/core/metrics"
	"github.com/FYZAFH/audiotab/core/node"
	"github.com/FYZAFH/audiotab/core/obs"
	"github.com/FYZAFH/audiotab/core/pipeline"
	"github.com/FYZAFH/audiotab/core/pool"
	"github.com/FYZAFH/audiotab/core/registry"
	"github.com/FYZAFH/audiotab/core/state"
	"github.com/FYZAFH/audiotab/hal"
	"github.com/FYZAFH/audiotab/hal/devicemanager"
)

// Action names a control_pipeline operation (§6).
type Action string

const (
	ActionPause  Action = "pause"
	ActionResume Action = "resume"
	ActionStop   Action = "stop"
)

// Controller wires the node registry, the pipeline pool, and the hardware
// layer behind the operations the external control surface exposes.
type Controller struct {
	nodes     *registry.Registry
	pipelines *pool.Pool
	drivers   *hal.DriverRegistry
	devices   *devicemanager.DeviceManager
	observer  obs.Provider
	hub       *Hub
}

// New builds a Controller. devices and drivers may be nil for a
// deployment with no hardware-backed nodes.
func New(nodes *registry.Registry, pipelines *pool.Pool, drivers *hal.DriverRegistry, devices *devicemanager.DeviceManager, observer obs.Provider) *Controller {
	return &Controller{
		nodes:     nodes,
		pipelines: pipelines,
		drivers:   drivers,
		devices:   devices,
		observer:  observer,
		hub:       NewHub(),
	}
}

// Hub returns the websocket event bus so an HTTP server can mount its
// upgrade handler.
func (c *Controller) Hub() *Hub { return c.hub }

// GetNodeRegistry returns every registered node type's metadata.
func (c *Controller) GetNodeRegistry() []node.Metadata {
	return c.nodes.All()
}

// DeployGraph validates and loads doc, starts it as a new pipeline
// instance under the pool's capacity limit, and returns its assigned id.
// An empty id is replaced with a freshly generated uuid.
func (c *Controller) DeployGraph(ctx context.Context, id string, doc graph.Document) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}

	compiled, err := graph.Load(doc, c.nodes)
	if err != nil {
		return "", err
	}

	var deviceManager hal.Manager
	if c.devices != nil {
		deviceManager = c.devices
	}

	p := pipeline.New(id, compiled, metrics.NewCollector(id),
		pipeline.WithObserver(c.observer),
		pipeline.WithDeviceManager(deviceManager),
	)

	if err := c.pipelines.Deploy(ctx, p); err != nil {
		return "", err
	}
	return id, nil
}

// GetAllPipelineStates returns the current PipelineState for every
// deployed pipeline instance, keyed by id.
func (c *Controller) GetAllPipelineStates() map[string]state.PipelineState {
	out := make(map[string]state.PipelineState)
	for _, id := range c.pipelines.IDs() {
		if p, ok := c.pipelines.Get(id); ok {
			out[id] = p.State()
		}
	}
	return out
}

// ControlPipeline applies action to the named pipeline instance.
func (c *Controller) ControlPipeline(ctx context.Context, id string, action Action) error {
	p, ok := c.pipelines.Get(id)
	if !ok {
		return fmt.Errorf("%w: unknown pipeline %q", errkind.ErrInvalidConfig, id)
	}
	switch action {
	case ActionPause:
		return p.Pause()
	case ActionResume:
		return p.Resume()
	case ActionStop:
		return c.pipelines.Remove(ctx, id)
	default:
		return fmt.Errorf("%w: unknown control action %q", errkind.ErrInvalidConfig, action)
	}
}

// Trigger injects f into the named pipeline's source node.
func (c *Controller) Trigger(ctx context.Context, id string, f *frame.Frame) error {
	p, ok := c.pipelines.Get(id)
	if !ok {
		return fmt.Errorf("%w: unknown pipeline %q", errkind.ErrInvalidConfig, id)
	}
	return p.Trigger(ctx, f)
}

// DiscoverHardware runs discovery across every registered hardware
// driver.
func (c *Controller) DiscoverHardware(ctx context.Context) ([]hal.DeviceInfo, error) {
	if c.drivers == nil {
		return nil, nil
	}
	return c.drivers.DiscoverAll(ctx)
}

// SetDeviceProfile persists a device profile for later StartDevice calls.
func (c *Controller) SetDeviceProfile(profile hal.DeviceProfile) error {
	if c.devices == nil {
		return fmt.Errorf("%w: no device manager configured", errkind.ErrInvalidConfig)
	}
	return c.devices.SetProfile(profile)
}

// ListDeviceProfiles returns every persisted device profile.
func (c *Controller) ListDeviceProfiles() []hal.DeviceProfile {
	if c.devices == nil {
		return nil
	}
	return c.devices.ListProfiles()
}
