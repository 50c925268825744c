package devicemanager

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/FYZAFH/audiotab/hal"
)

type stubDevice struct {
	state hal.DriverState
}

func (d *stubDevice) DriverID() string               { return "stub" }
func (d *stubDevice) DeviceID() string                { return "dev-0" }
func (d *stubDevice) Direction() hal.Direction        { return hal.DirectionInput }
func (d *stubDevice) Capabilities() hal.DeviceCapabilities { return hal.DeviceCapabilities{} }
func (d *stubDevice) Start(ctx context.Context) error { d.state = hal.StateRunning; return nil }
func (d *stubDevice) Stop(ctx context.Context) error  { d.state = hal.StateStopped; return nil }
func (d *stubDevice) Close() error                    { d.state = hal.StateClosed; return nil }
func (d *stubDevice) Channels() hal.DeviceChannels     { return hal.DeviceChannels{} }
func (d *stubDevice) State() hal.DriverState          { return d.state }

type stubDriver struct{}

func (stubDriver) DriverID() string     { return "stub" }
func (stubDriver) Class() hal.HardwareClass { return hal.ClassAcoustic }
func (stubDriver) Discover(ctx context.Context) ([]hal.DeviceInfo, error) { return nil, nil }
func (stubDriver) CreateDevice(ctx context.Context, config hal.DeviceConfig) (hal.Device, error) {
	return &stubDevice{}, nil
}

func testProfile() hal.DeviceProfile {
	return hal.DeviceProfile{
		ProfileID:    "mic-0",
		DriverID:     "stub",
		DeviceID:     "dev-0",
		Direction:    hal.DirectionInput,
		Enabled:      true,
		SampleRate:   48000,
		ChannelCount: 1,
		Format:       hal.FormatF32,
		Mapping: hal.ChannelMapping{
			PhysicalCount: 1,
			VirtualCount:  1,
			Routes:        []hal.Route{{Kind: hal.RouteDirect, Sources: []int{0}}},
		},
		Calibration: []hal.Calibration{{Gain: 1}},
	}
}

func TestStartStopDeviceLifecycle(t *testing.T) {
	dir := t.TempDir()
	registry := hal.NewDriverRegistry()
	_ = registry.Register(stubDriver{})

	mgr, err := New(filepath.Join(dir, "profiles.ndjson"), registry, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := mgr.SetProfile(testProfile()); err != nil {
		t.Fatalf("SetProfile() error = %v", err)
	}

	if _, err := mgr.StartDevice(context.Background(), "mic-0"); err != nil {
		t.Fatalf("StartDevice() error = %v", err)
	}
	if _, err := mgr.StartDevice(context.Background(), "mic-0"); err != nil {
		t.Fatalf("second StartDevice() should be idempotent, got error = %v", err)
	}
	if err := mgr.StopDevice(context.Background(), "mic-0"); err != nil {
		t.Fatalf("StopDevice() error = %v", err)
	}
	if err := mgr.StopDevice(context.Background(), "mic-0"); err != nil {
		t.Fatalf("second StopDevice() should be idempotent no-op, got error = %v", err)
	}
}

func TestStartDeviceRejectsDisabledProfile(t *testing.T) {
	dir := t.TempDir()
	registry := hal.NewDriverRegistry()
	_ = registry.Register(stubDriver{})

	mgr, _ := New(filepath.Join(dir, "profiles.ndjson"), registry, nil)
	p := testProfile()
	p.Enabled = false
	_ = mgr.SetProfile(p)

	if _, err := mgr.StartDevice(context.Background(), "mic-0"); err == nil {
		t.Fatalf("StartDevice() with disabled profile should fail")
	}
}

func TestSetProfilePersistsAcrossReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.ndjson")
	registry := hal.NewDriverRegistry()
	_ = registry.Register(stubDriver{})

	mgr, _ := New(path, registry, nil)
	_ = mgr.SetProfile(testProfile())

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("profile store not written: %v", err)
	}

	reloaded, err := New(path, registry, nil)
	if err != nil {
		t.Fatalf("reload New() error = %v", err)
	}
	if _, ok := reloaded.GetProfile("mic-0"); !ok {
		t.Fatalf("GetProfile() after reload: profile missing")
	}
}

func TestListProfilesSorted(t *testing.T) {
	dir := t.TempDir()
	registry := hal.NewDriverRegistry()
	mgr, _ := New(filepath.Join(dir, "profiles.ndjson"), registry, nil)

	b := testProfile()
	b.ProfileID = "zeta"
	a := testProfile()
	a.ProfileID = "alpha"
	_ = mgr.SetProfile(b)
	_ = mgr.SetProfile(a)

	list := mgr.ListProfiles()
	if len(list) != 2 || list[0].ProfileID != "alpha" || list[1].ProfileID != "zeta" {
		t.Fatalf("ListProfiles() = %+v, want alpha before zeta", list)
	}
}
