package frame

import (
	"fmt"
	"sync/atomic"
)

// SharedVector is an immutable, reference-counted vector of 64-bit float
// samples. Cloning bumps the reference count only; the backing array is
// never copied and never mutated in place. A node that wants to change the
// data under a channel name constructs a fresh SharedVector and replaces the
// map entry — it never writes through an existing one.
type SharedVector struct {
	data []float64
	refs *int64
}

// NewSharedVector wraps data in a SharedVector with an initial reference
// count of one. Callers must not mutate data after this call; ownership of
// the backing array transfers to the SharedVector.
func NewSharedVector(data []float64) SharedVector {
	count := int64(1)
	return SharedVector{data: data, refs: &count}
}

// Data returns the underlying sample slice. Callers must treat it as
// read-only; mutating it violates the sharing contract for every clone
// holding the same backing array.
func (v SharedVector) Data() []float64 {
	return v.data
}

// Len returns the number of samples.
func (v SharedVector) Len() int {
	return len(v.data)
}

// Clone bumps the reference count and returns a new handle to the same
// backing array. O(1): no sample copying occurs.
func (v SharedVector) Clone() SharedVector {
	if v.refs != nil {
		atomic.AddInt64(v.refs, 1)
	}
	return v
}

// Release decrements the reference count. It must be called exactly once
// per handle obtained from NewSharedVector or Clone — a Frame clone's
// Release call nets out against the original construction plus one Clone
// per fanout branch.
func (v SharedVector) Release() {
	if v.refs != nil {
		atomic.AddInt64(v.refs, -1)
	}
}

// RefCount reports the current reference count. Intended for tests and
// diagnostics, not for control flow.
func (v SharedVector) RefCount() int64 {
	if v.refs == nil {
		return 0
	}
	return atomic.LoadInt64(v.refs)
}

// Frame is the unit of data flowing on every pipeline edge: a monotonic
// microsecond timestamp, a monotonically increasing sequence id within its
// stream, a channel-name -> SharedVector payload, and a small string
// metadata map.
//
// A Frame is logically immutable once published on a channel. Cloning it —
// as the fanout task does for every downstream edge — is O(1): it bumps the
// reference count of every SharedVector in the payload and copies the
// (small, string-keyed) metadata map, but never touches sample data.
type Frame struct {
	TimestampUs int64
	Seq         uint64

	channels map[string]SharedVector
	metadata map[string]string
}

// New constructs an empty Frame with the given timestamp and sequence id.
// Channels are populated afterward with Set.
func New(timestampUs int64, seq uint64) *Frame {
	return &Frame{
		TimestampUs: timestampUs,
		Seq:         seq,
		channels:    make(map[string]SharedVector),
		metadata:    make(map[string]string),
	}
}

// Set installs (or replaces) the SharedVector for a named channel. Replacing
// an existing entry does not release the old vector automatically — callers
// that overwrite a channel while still holding the old handle elsewhere are
// responsible for its lifetime.
func (f *Frame) Set(channel string, vector SharedVector) {
	f.channels[channel] = vector
}

// Get retrieves the SharedVector for a named channel.
func (f *Frame) Get(channel string) (SharedVector, bool) {
	vector, ok := f.channels[channel]
	return vector, ok
}

// Channels returns the set of channel names present on this Frame. The
// returned slice is a fresh copy safe for the caller to range over.
func (f *Frame) Channels() []string {
	names := make([]string, 0, len(f.channels))
	for name := range f.channels {
		names = append(names, name)
	}
	return names
}

// SetMeta stores a metadata key/value pair.
func (f *Frame) SetMeta(key, value string) {
	f.metadata[key] = value
}

// Meta retrieves a metadata value.
func (f *Frame) Meta(key string) (string, bool) {
	value, ok := f.metadata[key]
	return value, ok
}

// Clone produces a new Frame sharing the same timestamp and sequence id,
// with every channel's SharedVector reference count bumped by one and the
// metadata map shallow-copied. No sample data is copied. This is what the
// fanout task calls once per downstream edge.
func (f *Frame) Clone() *Frame {
	clone := &Frame{
		TimestampUs: f.TimestampUs,
		Seq:         f.Seq,
		channels:    make(map[string]SharedVector, len(f.channels)),
		metadata:    make(map[string]string, len(f.metadata)),
	}
	for name, vector := range f.channels {
		clone.channels[name] = vector.Clone()
	}
	for key, value := range f.metadata {
		clone.metadata[key] = value
	}
	return clone
}

// Release decrements the reference count of every SharedVector the Frame
// holds. A sink calls this once it has finished observing a Frame; a
// transform that derives fresh output channels from its input should
// release the input Frame once it has read what it needs from it.
func (f *Frame) Release() {
	for _, vector := range f.channels {
		vector.Release()
	}
}

// String implements fmt.Stringer for debug logging.
func (f *Frame) String() string {
	return fmt.Sprintf("Frame{seq=%d ts=%dus channels=%v}", f.Seq, f.TimestampUs, f.Channels())
}
