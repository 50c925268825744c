package simaudio

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/FYZAFH/audiotab/hal"
	"github.com/FYZAFH/audiotab/hal/channelqueue"
)

// toneFrequencyHz is the fixed tone the simulated input device generates.
// A real driver has no equivalent constant; this one exists purely so
// tests and demos have a predictable, non-silent signal to process.
const toneFrequencyHz = 440.0

const queueDepth = 4

type device struct {
	deviceID     string
	direction    hal.Direction
	sampleRate   int
	channelCount int
	bufferSize   int
	format       hal.SampleFormat

	pp *channelqueue.PingPong

	mu     sync.Mutex
	state  hal.DriverState
	cancel context.CancelFunc
	done   chan struct{}

	phase float64
}

func newDevice(deviceID string, direction hal.Direction, sampleRate, channelCount, bufferSize int, format hal.SampleFormat) *device {
	return &device{
		deviceID:     deviceID,
		direction:    direction,
		sampleRate:   sampleRate,
		channelCount: channelCount,
		bufferSize:   bufferSize,
		format:       format,
		pp:           channelqueue.New(queueDepth, bufferSize*channelCount, format, sampleRate, channelCount),
		state:        hal.StateOpened,
	}
}

func (d *device) DriverID() string        { return "simaudio" }
func (d *device) DeviceID() string        { return d.deviceID }
func (d *device) Direction() hal.Direction { return d.direction }

func (d *device) Capabilities() hal.DeviceCapabilities {
	return hal.DeviceCapabilities{
		SampleRates:   []int{d.sampleRate},
		ChannelCounts: []int{d.channelCount},
		Formats:       []hal.SampleFormat{d.format},
	}
}

func (d *device) Channels() hal.DeviceChannels {
	return d.pp.Channels()
}

func (d *device) State() hal.DriverState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Start launches the goroutine that stands in for a hardware interrupt or
// callback thread: once per buffer period it pulls an empty buffer from
// the pool, fills it with a continuous-phase sine tone, and pushes it to
// the filled side.
func (d *device) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.state == hal.StateRunning {
		d.mu.Unlock()
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.state = hal.StateRunning
	d.mu.Unlock()

	period := time.Duration(float64(d.bufferSize) / float64(d.sampleRate) * float64(time.Second))
	if period <= 0 {
		period = time.Millisecond
	}

	go d.run(runCtx, period)
	return nil
}

func (d *device) run(ctx context.Context, period time.Duration) {
	defer close(d.done)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	phaseStep := 2 * math.Pi * toneFrequencyHz / float64(d.sampleRate)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case buf := <-d.pp.Empty:
				buf.Reset()
				buf.TimestampNs = time.Now().UnixNano()
				for frame := 0; frame < d.bufferSize; frame++ {
					sample := math.Sin(d.phase)
					d.phase += phaseStep
					for ch := 0; ch < d.channelCount; ch++ {
						buf.Samples = append(buf.Samples, sample)
					}
				}
				if d.phase > 2*math.Pi*1e6 {
					d.phase = math.Mod(d.phase, 2*math.Pi)
				}
				select {
				case d.pp.Filled <- buf:
				case <-ctx.Done():
					return
				}
			default:
				// no empty buffer available; consumer is behind, drop this tick
			}
		}
	}
}

// Stop cancels the generator goroutine and waits for it to exit. Calling
// Stop when not running is a no-op.
func (d *device) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.state != hal.StateRunning {
		d.mu.Unlock()
		return nil
	}
	cancel := d.cancel
	done := d.done
	d.state = hal.StateStopped
	d.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close marks the device closed. Idempotent.
func (d *device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = hal.StateClosed
	return nil
}
