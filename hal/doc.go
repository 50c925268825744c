// Package hal is the hardware abstraction layer: a driver registry keyed by
// driver id, a Device capability interface with the ping-pong packet-buffer
// queue contract, and a process-wide DeviceManager that owns active device
// instances and persists device profiles. Sub-packages hal/channelqueue,
// hal/mapper, hal/devicemanager, and hal/simaudio implement the concrete
// pieces; this package defines the interfaces core/pipeline and
// core/node/builtin depend on.
package hal
