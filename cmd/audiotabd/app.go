package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/FYZAFH/audiotab/core/control"
	"github.com/FYZAFH/audiotab/core/node/builtin"
	"github.com/FYZAFH/audiotab/core/obs/slogobs"
	"github.com/FYZAFH/audiotab/core/pool"
	"github.com/FYZAFH/audiotab/core/registry"
	"github.com/FYZAFH/audiotab/hal"
	"github.com/FYZAFH/audiotab/hal/devicemanager"
	"github.com/FYZAFH/audiotab/hal/simaudio"
)

// app bundles the runtime's long-lived components. Every subcommand builds
// one from the process-wide flags before doing its work.
type app struct {
	controller *control.Controller
	observer   *slogobs.Observer
	devices    *devicemanager.DeviceManager
}

// newApp wires the node registry, hardware driver registry, device
// manager, and pipeline pool the same way a long-running daemon would,
// then hands back a Controller fronting all of it — the same wiring
// core/control's own tests exercise, just with the real built-in nodes
// and the real simaudio driver instead of test doubles.
func newApp(dataDir string, verbose bool) (*app, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	observer := slogobs.New(slogobs.WithLevel(level))

	nodes := registry.New()
	if err := builtin.RegisterAll(nodes); err != nil {
		return nil, fmt.Errorf("registering builtin nodes: %w", err)
	}

	drivers := hal.NewDriverRegistry()
	drivers.MustRegister(simaudio.NewDriver())

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %q: %w", dataDir, err)
	}

	profilePath := filepath.Join(dataDir, "device_profiles.ndjson")
	devices, err := devicemanager.New(profilePath, drivers, observer)
	if err != nil {
		return nil, fmt.Errorf("loading device profile store: %w", err)
	}

	pipelines := pool.New(defaultPoolCapacity)
	controller := control.New(nodes, pipelines, drivers, devices, observer)

	return &app{controller: controller, observer: observer, devices: devices}, nil
}

// defaultPoolCapacity bounds how many pipeline instances may run
// concurrently; there is no flag for it yet because no deployment has
// needed more than one pipeline pool per daemon.
const defaultPoolCapacity = 16
