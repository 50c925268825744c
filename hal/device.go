package hal

import "context"

// Device is a single opened hardware endpoint. Start begins streaming;
// Channels is only valid to call once the device is Running. Stop and
// Close are both idempotent: calling either from a state they don't apply
// to is a no-op, never an error, matching the device lifecycle state
// machine's stated idempotent-stop requirement (§4.10).
type Device interface {
	DriverID() string
	DeviceID() string
	Direction() Direction
	Capabilities() DeviceCapabilities

	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Close() error

	Channels() DeviceChannels
	State() DriverState
}

// HardwareDriver discovers and constructs Devices of one hardware class.
// A driver is registered once per process; CreateDevice may be called
// many times to open distinct physical or simulated endpoints.
type HardwareDriver interface {
	DriverID() string
	Class() HardwareClass
	Discover(ctx context.Context) ([]DeviceInfo, error)
	CreateDevice(ctx context.Context, config DeviceConfig) (Device, error)
}
