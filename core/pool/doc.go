// Package pool bounds how many pipeline.Pipeline instances may run
// concurrently in one process, using a weighted semaphore so a deploy
// request beyond capacity blocks (or fails, under a deadline) rather than
// spawning unbounded goroutines. It is deliberately orthogonal to
// core/sched's priority queue: the semaphore only gates concurrent
// instance count, not per-frame scheduling order within a running
// pipeline.
package pool
