package pipeline

import (
	"github.com/FYZAFH/audiotab/core/frame"
	"github.com/FYZAFH/audiotab/core/obs"
	"github.com/FYZAFH/audiotab/core/resilience"
	"github.com/FYZAFH/audiotab/hal"
)

type config struct {
	observer      obs.Provider
	deviceManager hal.Manager
	errorPolicy   resilience.ErrorPolicy
	restart       resilience.RestartStrategy
	defaultFrame  *frame.Frame
}

// Option configures a Pipeline at construction time.
type Option func(*config)

// WithObserver attaches a Provider used for structured logging of node
// errors and lifecycle transitions. The zero value logs nothing.
func WithObserver(observer obs.Provider) Option {
	return func(c *config) { c.observer = observer }
}

// WithDeviceManager attaches the hal.Manager consulted during Start for
// nodes declaring a device profile. A Pipeline with no device-backed
// source nodes does not need one.
func WithDeviceManager(manager hal.Manager) Option {
	return func(c *config) { c.deviceManager = manager }
}

// WithErrorPolicy sets the resilience.ErrorPolicy applied uniformly to
// every node's resilience.Shell. The default is resilience.Propagate.
func WithErrorPolicy(policy resilience.ErrorPolicy) Option {
	return func(c *config) { c.errorPolicy = policy }
}

// WithRestartStrategy sets the declared (not yet enforced — see
// resilience.Shell.RestartStrategy) restart policy recorded on every
// node's shell.
func WithRestartStrategy(strategy resilience.RestartStrategy) Option {
	return func(c *config) { c.restart = strategy }
}

// WithDefaultFrame sets the frame substituted for a failed Process call
// under resilience.UseDefault. Required if any node's policy is
// UseDefault.
func WithDefaultFrame(f *frame.Frame) Option {
	return func(c *config) { c.defaultFrame = f }
}

func resolveConfig(opts []Option) config {
	c := config{errorPolicy: resilience.Propagate, restart: resilience.Never()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
