// Package mapper applies a hal.ChannelMapping and its per-channel
// hal.Calibration to raw interleaved hardware samples, producing planar
// virtual channel data ready to be wrapped in a core/frame.Frame. It is a
// pure function over its inputs: no state, no I/O, safe to call from the
// hot device-read path.
package mapper
