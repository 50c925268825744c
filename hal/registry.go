package hal

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/FYZAFH/audiotab/core/errkind"
)

// Manager is the capability core/pipeline and the control surface depend on
// for turning a device profile into a live ping-pong channel pair. The
// concrete implementation (hal/devicemanager.DeviceManager) also persists
// profiles and watches them for hot reload; this interface only exposes
// the streaming lifecycle.
type Manager interface {
	StartDevice(ctx context.Context, profileID string) (DeviceChannels, error)
	StopDevice(ctx context.Context, profileID string) error
}

// DriverRegistry is a thread-safe catalog of HardwareDriver instances keyed
// by driver id, mirroring core/registry's node-type catalog one layer down
// the stack.
type DriverRegistry struct {
	mu      sync.RWMutex
	drivers map[string]HardwareDriver
}

// NewDriverRegistry returns an empty registry ready for use.
func NewDriverRegistry() *DriverRegistry {
	return &DriverRegistry{drivers: make(map[string]HardwareDriver)}
}

// Register adds driver under its own DriverID. Registering the same
// driver id twice is an error.
func (r *DriverRegistry) Register(driver HardwareDriver) error {
	if driver == nil {
		return fmt.Errorf("%w: nil driver", errkind.ErrInvalidConfig)
	}
	id := driver.DriverID()
	if id == "" {
		return fmt.Errorf("%w: driver id must not be empty", errkind.ErrInvalidConfig)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.drivers[id]; exists {
		return fmt.Errorf("%w: driver %q already registered", errkind.ErrInvalidConfig, id)
	}
	r.drivers[id] = driver
	return nil
}

// MustRegister is Register, panicking on error. Intended for process
// startup wiring where a duplicate driver id is a programmer error.
func (r *DriverRegistry) MustRegister(driver HardwareDriver) {
	if err := r.Register(driver); err != nil {
		panic(err)
	}
}

// Lookup returns the driver registered under id.
func (r *DriverRegistry) Lookup(id string) (HardwareDriver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drivers[id]
	return d, ok
}

// DriverIDs returns every registered driver id, sorted.
func (r *DriverRegistry) DriverIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.drivers))
	for id := range r.drivers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DiscoverAll runs Discover against every registered driver and
// concatenates the results, sorted by driver id then device id. A single
// driver's discovery failure is wrapped with its driver id and aborts the
// whole scan — discovery is expected to run at startup or on explicit
// operator request, where a partial hardware inventory is worse than a
// clear failure.
func (r *DriverRegistry) DiscoverAll(ctx context.Context) ([]DeviceInfo, error) {
	r.mu.RLock()
	ids := make([]string, 0, len(r.drivers))
	drivers := make(map[string]HardwareDriver, len(r.drivers))
	for id, d := range r.drivers {
		ids = append(ids, id)
		drivers[id] = d
	}
	r.mu.RUnlock()
	sort.Strings(ids)

	all := make([]DeviceInfo, 0)
	for _, id := range ids {
		found, err := drivers[id].Discover(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: driver %q discovery: %s", errkind.ErrDeviceError, id, err)
		}
		all = append(all, found...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].DriverID != all[j].DriverID {
			return all[i].DriverID < all[j].DriverID
		}
		return all[i].DeviceID < all[j].DeviceID
	})
	return all, nil
}

// CreateDevice dispatches to the named driver's CreateDevice.
func (r *DriverRegistry) CreateDevice(ctx context.Context, driverID string, config DeviceConfig) (Device, error) {
	driver, ok := r.Lookup(driverID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown driver %q", errkind.ErrInvalidConfig, driverID)
	}
	dev, err := driver.CreateDevice(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%w: driver %q: %s", errkind.ErrDeviceError, driverID, err)
	}
	return dev, nil
}
