// Package sched implements the multi-level priority queue described in
// §4.9: four strict priority levels (Critical, High, Normal, Low), each
// with a descriptive scheduling budget used for reporting and metrics
// rather than enforcement.
//
// Push/Pop expose the queue passively: a caller drains items itself and
// decides how to execute them, in (priority desc, FIFO) order. Submit,
// Start, and WaitAll expose the same ordering as an active,
// bounded-concurrency admission path instead: Start's dispatch loop
// admits submitted tasks into an active set capped at the Queue's
// configured maximum concurrency, frees a slot and admits the next
// pending task as soon as one completes, and WaitAll drains both the
// active and pending sets, returning every task's recorded output.
//
// This intrinsic admission is a different concern from core/pool's
// semaphore: pool bounds how many pipeline.Pipeline instances run at
// once across the whole process; a Queue bounds how many of its own
// submitted tasks run at once. A caller may use both — e.g. pool
// admission around starting a pipeline, sched admission around the
// per-pipeline trigger requests it accepts once running.
package sched
