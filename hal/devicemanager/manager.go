package devicemanager

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/FYZAFH/audiotab/core/errkind"
	"github.com/FYZAFH/audiotab/core/obs"
	"github.com/FYZAFH/audiotab/hal"
)

// DeviceManager implements hal.Manager on top of a persisted set of device
// profiles and a hal.DriverRegistry. It is the only component that opens
// and closes hal.Device instances; everything else reaches hardware
// through the channel pair StartDevice hands back.
type DeviceManager struct {
	mu       sync.Mutex
	drivers  *hal.DriverRegistry
	path     string
	profiles map[string]hal.DeviceProfile
	active   map[string]hal.Device
	logger   obs.Provider
	watcher  *fsnotify.Watcher
}

var _ hal.Manager = (*DeviceManager)(nil)

// New loads the profile store at path (creating none if absent) and
// returns a ready-to-use DeviceManager. logger may be nil.
func New(path string, drivers *hal.DriverRegistry, logger obs.Provider) (*DeviceManager, error) {
	profiles, err := loadProfiles(path)
	if err != nil {
		return nil, err
	}
	return &DeviceManager{
		drivers:  drivers,
		path:     path,
		profiles: profiles,
		active:   make(map[string]hal.Device),
		logger:   logger,
	}, nil
}

// StartDevice opens (or returns the already-open channels for) the device
// named by profileID. The profile must exist, be enabled, and validate.
func (m *DeviceManager) StartDevice(ctx context.Context, profileID string) (hal.DeviceChannels, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if dev, ok := m.active[profileID]; ok {
		return dev.Channels(), nil
	}

	profile, ok := m.profiles[profileID]
	if !ok {
		return hal.DeviceChannels{}, fmt.Errorf("%w: unknown device profile %q", errkind.ErrInvalidConfig, profileID)
	}
	if !profile.Enabled {
		return hal.DeviceChannels{}, fmt.Errorf("%w: device profile %q is disabled", errkind.ErrInvalidConfig, profileID)
	}
	if err := profile.Validate(); err != nil {
		return hal.DeviceChannels{}, err
	}

	dev, err := m.drivers.CreateDevice(ctx, profile.DriverID, hal.DeviceConfig{
		DeviceID:     profile.DeviceID,
		Direction:    profile.Direction,
		SampleRate:   profile.SampleRate,
		ChannelCount: profile.ChannelCount,
		Format:       profile.Format,
		BufferSize:   profile.BufferSize,
	})
	if err != nil {
		return hal.DeviceChannels{}, err
	}

	if err := dev.Start(ctx); err != nil {
		_ = dev.Close()
		return hal.DeviceChannels{}, fmt.Errorf("%w: starting device %q: %s", errkind.ErrDeviceError, profileID, err)
	}

	m.active[profileID] = dev
	if m.logger != nil {
		m.logger.Info(ctx, "device started", obs.String(obs.AttrProfileID, profileID), obs.String(obs.AttrDriverID, profile.DriverID))
	}
	return dev.Channels(), nil
}

// StopDevice stops and closes the device for profileID. Stopping a device
// that isn't running is a no-op, not an error.
func (m *DeviceManager) StopDevice(ctx context.Context, profileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dev, ok := m.active[profileID]
	if !ok {
		return nil
	}
	delete(m.active, profileID)

	stopErr := dev.Stop(ctx)
	closeErr := dev.Close()
	if m.logger != nil {
		m.logger.Info(ctx, "device stopped", obs.String(obs.AttrProfileID, profileID))
	}
	if stopErr != nil {
		return fmt.Errorf("%w: stopping device %q: %s", errkind.ErrDeviceError, profileID, stopErr)
	}
	if closeErr != nil {
		return fmt.Errorf("%w: closing device %q: %s", errkind.ErrDeviceError, profileID, closeErr)
	}
	return nil
}

// SetProfile validates and persists p, replacing any existing profile of
// the same id. It does not affect an already-running device; a new
// profile only takes effect on the next StartDevice.
func (m *DeviceManager) SetProfile(p hal.DeviceProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ProfileID] = p
	return saveProfiles(m.path, m.profiles)
}

// GetProfile returns the profile registered under id.
func (m *DeviceManager) GetProfile(id string) (hal.DeviceProfile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	return p, ok
}

// ListProfiles returns every persisted profile, sorted by profile id.
func (m *DeviceManager) ListProfiles() []hal.DeviceProfile {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.profiles))
	for id := range m.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]hal.DeviceProfile, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.profiles[id])
	}
	return out
}

// Watch starts an fsnotify watch on the profile store's directory and
// reloads the store whenever the file is written. Reload only replaces
// the in-memory profile map — it never restarts an already-running
// device, since a profile's sample rate or mapping can't be hot-swapped
// under a live stream. Watch blocks until ctx is cancelled.
func (m *DeviceManager) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: creating profile watcher: %s", errkind.ErrIO, err)
	}
	defer watcher.Close()

	dir := filepath.Dir(m.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("%w: watching %s: %s", errkind.ErrIO, dir, err)
	}

	m.mu.Lock()
	m.watcher = watcher
	m.mu.Unlock()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(m.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			m.reload(ctx)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if m.logger != nil {
				m.logger.Warn(ctx, "device profile watch error", obs.Error(err))
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *DeviceManager) reload(ctx context.Context) {
	profiles, err := loadProfiles(m.path)
	if err != nil {
		if m.logger != nil {
			m.logger.Warn(ctx, "device profile reload failed, keeping prior profiles", obs.Error(err))
		}
		return
	}

	m.mu.Lock()
	m.profiles = profiles
	m.mu.Unlock()

	if m.logger != nil {
		m.logger.Info(ctx, "device profiles reloaded", obs.Int("count", len(profiles)))
	}
}
