package channelqueue

import "github.com/FYZAFH/audiotab/hal"

// PingPong is a fixed-size pool of packet buffers split across two
// channels: Filled carries buffers the producer has written and the
// consumer hasn't yet drained, Empty carries buffers available for the
// producer to write into next.
type PingPong struct {
	Filled chan *hal.PacketBuffer
	Empty  chan *hal.PacketBuffer
}

// New allocates depth buffers of the given sample capacity, format,
// sample rate and channel count, and parks all of them on the empty side
// — ready for a producer to start filling immediately.
func New(depth, sampleCapacity int, format hal.SampleFormat, sampleRate, channelCount int) *PingPong {
	pp := &PingPong{
		Filled: make(chan *hal.PacketBuffer, depth),
		Empty:  make(chan *hal.PacketBuffer, depth),
	}
	for i := 0; i < depth; i++ {
		pp.Empty <- &hal.PacketBuffer{
			Format:       format,
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Samples:      make([]float64, 0, sampleCapacity),
		}
	}
	return pp
}

// Channels exposes the pair as a hal.DeviceChannels for a Device's
// Channels() method — FilledRx/EmptyTx from the consumer's point of view.
func (pp *PingPong) Channels() hal.DeviceChannels {
	return hal.DeviceChannels{FilledRx: pp.Filled, EmptyTx: pp.Empty}
}
