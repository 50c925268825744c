package simaudio

import (
	"context"
	"fmt"

	"github.com/FYZAFH/audiotab/core/errkind"
	"github.com/FYZAFH/audiotab/hal"
)

// Driver is the simaudio HardwareDriver: it exposes a fixed catalog of
// virtual input/output devices, each accepting any sample rate and
// channel count a caller asks for (there's no physical hardware to
// constrain it).
type Driver struct {
	catalog []hal.DeviceInfo
}

// NewDriver returns a Driver advertising one virtual input and one
// virtual output device.
func NewDriver() *Driver {
	caps := hal.DeviceCapabilities{
		SampleRates:   []int{8000, 16000, 44100, 48000, 96000},
		ChannelCounts: []int{1, 2, 4, 8},
		Formats:       []hal.SampleFormat{hal.FormatF32, hal.FormatF64},
	}
	return &Driver{
		catalog: []hal.DeviceInfo{
			{DriverID: "simaudio", DeviceID: "sim-input-0", Name: "Simulated Input", Direction: hal.DirectionInput, Capabilities: caps},
			{DriverID: "simaudio", DeviceID: "sim-output-0", Name: "Simulated Output", Direction: hal.DirectionOutput, Capabilities: caps},
		},
	}
}

func (d *Driver) DriverID() string { return "simaudio" }

func (d *Driver) Class() hal.HardwareClass { return hal.ClassAcoustic }

func (d *Driver) Discover(ctx context.Context) ([]hal.DeviceInfo, error) {
	return d.catalog, nil
}

func (d *Driver) CreateDevice(ctx context.Context, config hal.DeviceConfig) (hal.Device, error) {
	var matched *hal.DeviceInfo
	for i := range d.catalog {
		if d.catalog[i].DeviceID == config.DeviceID {
			matched = &d.catalog[i]
			break
		}
	}
	if matched == nil {
		return nil, fmt.Errorf("%w: no simulated device %q", errkind.ErrInvalidConfig, config.DeviceID)
	}
	if config.SampleRate <= 0 || config.ChannelCount <= 0 {
		return nil, fmt.Errorf("%w: sample_rate and channel_count must be positive", errkind.ErrInvalidConfig)
	}

	bufferSize := config.BufferSize
	if bufferSize <= 0 {
		bufferSize = 256
	}
	format := config.Format
	if format == "" {
		format = hal.FormatF32
	}

	return newDevice(config.DeviceID, matched.Direction, config.SampleRate, config.ChannelCount, bufferSize, format), nil
}
