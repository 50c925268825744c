// Package frame defines Frame, the unit of data that flows on every edge of
// a pipeline, and SharedVector, the reference-counted immutable payload a
// Frame carries per channel.
//
// Frames are never mutated after they are published. A node that wants to
// change a channel's data publishes a new SharedVector under that channel
// name; it never writes through an existing one. Cloning a Frame is O(1):
// only the SharedVector reference counts are bumped, never the underlying
// []float64 backing arrays. This is what makes fanout O(edges) instead of
// O(edges * samples) — see BufferPool in pool.go for the unrelated concern
// of recycling DSP scratch memory.
package frame
