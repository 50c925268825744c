package hal

// SampleFormat names the native representation a packet buffer's samples
// arrived in, or are destined for, at the hardware boundary.
type SampleFormat string

const (
	FormatI16    SampleFormat = "i16"
	FormatI24    SampleFormat = "i24"
	FormatI32    SampleFormat = "i32"
	FormatF32    SampleFormat = "f32"
	FormatF64    SampleFormat = "f64"
	FormatU8     SampleFormat = "u8"
	FormatOpaque SampleFormat = "opaque"
)

// PacketBuffer is the hardware-side analogue of a Frame: a fixed-capacity,
// reusable sample container. Buffers are never reallocated during
// streaming — Samples always carries the pool's original capacity; only
// its logical length changes between fill cycles.
type PacketBuffer struct {
	Format       SampleFormat
	SampleRate   int
	ChannelCount int
	TimestampNs  int64
	Samples      []float64
}

// Reset clears a buffer's logical length back to zero while preserving its
// backing capacity, for reuse on the empty side of the ping-pong queues.
func (b *PacketBuffer) Reset() {
	b.Samples = b.Samples[:0]
	b.TimestampNs = 0
}

// HardwareClass tags the broad category of a driver's hardware.
type HardwareClass string

const (
	ClassAcoustic HardwareClass = "acoustic"
	ClassSpecial  HardwareClass = "special"
)

// Direction is whether a device captures (input) or renders (output).
type Direction string

const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// DriverState names a Device's lifecycle phase (§4.10).
type DriverState string

const (
	StateUnopened DriverState = "unopened"
	StateOpened   DriverState = "opened"
	StateRunning  DriverState = "running"
	StateStopped  DriverState = "stopped"
	StateClosed   DriverState = "closed"
)

// DeviceInfo is what discovery reports about a device before it is opened.
type DeviceInfo struct {
	DriverID     string
	DeviceID     string
	Name         string
	Direction    Direction
	Capabilities DeviceCapabilities
}

// DeviceCapabilities enumerates what configurations a device supports.
type DeviceCapabilities struct {
	SampleRates   []int
	ChannelCounts []int
	Formats       []SampleFormat
}

// DeviceConfig is the configuration passed to CreateDevice.
type DeviceConfig struct {
	DeviceID     string
	Direction    Direction
	SampleRate   int
	ChannelCount int
	Format       SampleFormat
	BufferSize   int
}

// DeviceChannels is the ping-pong pair a running Device exposes: the
// consumer receives freshly filled buffers on FilledRx and returns drained
// ones on EmptyTx.
type DeviceChannels struct {
	FilledRx <-chan *PacketBuffer
	EmptyTx  chan<- *PacketBuffer
}
