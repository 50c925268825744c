package builtin

import (
	"context"
	"fmt"

	"github.com/FYZAFH/audiotab/core/errkind"
	"github.com/FYZAFH/audiotab/core/frame"
	"github.com/FYZAFH/audiotab/core/node"
	"github.com/FYZAFH/audiotab/core/obs"
	"github.com/FYZAFH/audiotab/hal"
	"github.com/FYZAFH/audiotab/hal/mapper"
	"github.com/FYZAFH/audiotab/visualization/ringbuf"
)

// AudioSourceMetadata describes the audio_source node type. Its
// NodeDecl.DeviceProfileID must name a profile the pipeline's hardware
// manager knows about; the pipeline injects live device channels into it
// before the pipeline starts running.
func AudioSourceMetadata() node.Metadata {
	return node.Metadata{
		ID:          "audio_source",
		DisplayName: "Audio Source",
		Category:    "source",
		Outputs:     []node.Port{{ID: "main", Label: "Channels", Type: node.DataTypeAudio}},
	}
}

// AudioSource pulls packet buffers from an injected hardware device,
// applies the device profile's channel mapping and calibration, and
// republishes each virtual channel as a named channel on the output
// Frame ("ch0", "ch1", ...). It implements pipeline.DeviceInjectable.
type AudioSource struct {
	channels hal.DeviceChannels
	profile  hal.DeviceProfile
	seq      uint64

	viz *ringbuf.Writer
}

var _ node.Executor = (*AudioSource)(nil)
var _ node.SelfDriving = (*AudioSource)(nil)

// DrivesSelf reports true once a device has been injected: from that
// point on, capture happens on the device's own schedule (§4.5), and
// resilience.Shell hands this node's Run loop the input channel purely
// for pacing/trigger no-ops rather than as the thing that gates
// production.
func (a *AudioSource) DrivesSelf() bool {
	return a.channels.FilledRx != nil
}

// Configure accepts no parameters; all behavior is driven by the
// injected device profile.
func (a *AudioSource) Configure(params map[string]any) error { return nil }

// InjectDevice stores the live device channels and the profile
// describing how to map and calibrate its raw samples.
func (a *AudioSource) InjectDevice(channels hal.DeviceChannels, profile hal.DeviceProfile) {
	a.channels = channels
	a.profile = profile
}

// SetVisualizationWriter attaches a ring buffer writer every produced
// Frame's channels are mirrored into, geometry permitting. It is
// optional; a source with no writer attached simply skips the mirror.
func (a *AudioSource) SetVisualizationWriter(w *ringbuf.Writer) {
	a.viz = w
}

// Process waits for the next filled packet buffer from the device,
// returns it to the empty pool once consumed, and produces a Frame
// carrying its mapped, calibrated virtual channels.
func (a *AudioSource) Process(ctx context.Context, input *frame.Frame) (*frame.Frame, error) {
	if a.channels.FilledRx == nil {
		return nil, fmt.Errorf("%w: audio_source has no device injected", errkind.ErrInvalidConfig)
	}

	var packet *hal.PacketBuffer
	select {
	case packet = <-a.channels.FilledRx:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	frameCount := 0
	if a.profile.Mapping.PhysicalCount > 0 {
		frameCount = len(packet.Samples) / a.profile.Mapping.PhysicalCount
	}

	virtual, err := mapper.Apply(packet.Samples, frameCount, a.profile.Mapping, a.profile.Calibration)
	if err != nil {
		a.returnPacket(ctx, packet)
		return nil, err
	}

	a.seq++
	out := frame.New(packet.TimestampNs/1000, a.seq)
	for i, channel := range virtual {
		out.Set(fmt.Sprintf("ch%d", i), frame.NewSharedVector(channel))
	}
	a.mirrorToVisualization(ctx, virtual)

	a.returnPacket(ctx, packet)
	return out, nil
}

// mirrorToVisualization best-effort publishes the block just produced
// into the attached ring buffer writer. A geometry mismatch (a device
// block size that doesn't match the writer's samples_per_write) is
// logged and skipped rather than treated as a processing failure —
// visualization is a secondary consumer of the stream, not the pipeline
// itself.
func (a *AudioSource) mirrorToVisualization(ctx context.Context, virtual [][]float64) {
	if a.viz == nil {
		return
	}
	if err := a.viz.Write(virtual); err != nil {
		if observer := obs.ObserverFromContext(ctx); observer != nil {
			observer.Warn(ctx, "visualization ring buffer write skipped", obs.Error(err))
		}
	}
}

func (a *AudioSource) returnPacket(ctx context.Context, packet *hal.PacketBuffer) {
	packet.Reset()
	select {
	case a.channels.EmptyTx <- packet:
	case <-ctx.Done():
	}
}

// Run captures continuously from the injected device, independent of
// input: every arrival on a.channels.FilledRx produces one output Frame,
// on the device's own schedule. input Frames (pacing/manual triggers)
// are drained and released as no-ops rather than gating production, per
// spec §4.5's self-driving-source contract. If no device has been
// injected yet, Run falls back to the ordinary input-gated behavior via
// runViaProcess.
func (a *AudioSource) Run(ctx context.Context, input <-chan *frame.Frame, output chan<- *frame.Frame) error {
	if !a.DrivesSelf() {
		return runViaProcess(ctx, a, input, output)
	}

	go a.drainPacingFrames(ctx, input)

	for {
		out, err := a.Process(ctx, nil)
		if err != nil {
			return err
		}
		select {
		case output <- out:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// drainPacingFrames releases every Frame arriving on input without
// acting on it. A self-driving source still accepts trigger/pacing
// Frames on its input channel (§4.5); it just never needs them to
// produce output.
func (a *AudioSource) drainPacingFrames(ctx context.Context, input <-chan *frame.Frame) {
	for {
		select {
		case <-ctx.Done():
			return
		case f, ok := <-input:
			if !ok {
				return
			}
			if f != nil {
				f.Release()
			}
		}
	}
}
