// Package ringbuf implements the visualization ring buffer (§4.12): a
// fixed-size, memory-mapped file that a source node's writer appends
// planar channel samples to, and that external visualization readers
// consume concurrently without any locking. The writer increments the
// write sequence with release ordering after every append; readers load
// it with acquire ordering and tolerate torn reads by retrying or
// accepting bounded staleness.
package ringbuf
