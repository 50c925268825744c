// Package channelqueue builds the ping-pong pair of buffered channels a
// hal.Device streams through: a pool of hal.PacketBuffer values starts
// parked on the empty side, the producer (hardware callback or simulated
// timer) moves a buffer to the filled side once written, and the
// consumer returns it to the empty side once drained. No buffer is ever
// allocated after startup; the pool's fixed capacity bounds memory use
// for the lifetime of the device.
package channelqueue
