// Package simaudio is the reference simulated audio driver: a
// HardwareDriver that "discovers" a fixed set of virtual devices and
// opens them as Devices whose callback-thread analogue is a ticker
// goroutine generating a deterministic tone. It exists so the pipeline
// runtime and its tests can exercise the full device-injection path
// (§4.5a) without real audio hardware.
package simaudio
