package metrics

import "sync/atomic"

// NodeMetrics holds three lock-free atomic counters for a single node:
// frames processed, errors, and cumulative processing latency in
// microseconds. Updates are relaxed; reads are a snapshot with no
// exactness guarantee beyond eventual visibility under concurrent writers.
type NodeMetrics struct {
	framesProcessed atomic.Uint64
	errors          atomic.Uint64
	cumulativeUs    atomic.Uint64
}

// RecordFrameProcessed increments the frames-processed counter.
func (m *NodeMetrics) RecordFrameProcessed() {
	m.framesProcessed.Add(1)
}

// RecordError increments the error counter.
func (m *NodeMetrics) RecordError() {
	m.errors.Add(1)
}

// FinishProcessing adds elapsedUs to the cumulative latency counter.
func (m *NodeMetrics) FinishProcessing(elapsedUs uint64) {
	m.cumulativeUs.Add(elapsedUs)
}

// Snapshot is an immutable point-in-time read of a NodeMetrics.
type Snapshot struct {
	FramesProcessed   uint64
	Errors            uint64
	CumulativeLatencyUs uint64
}

// MeanLatencyUs is the derived mean processing latency: cumulative divided
// by frames processed. Returns 0 if no frames have been processed.
func (s Snapshot) MeanLatencyUs() float64 {
	if s.FramesProcessed == 0 {
		return 0
	}
	return float64(s.CumulativeLatencyUs) / float64(s.FramesProcessed)
}

// Snapshot reads all three counters. The three loads are independent —
// under concurrent writers the combination may not represent a single
// consistent instant, which matches the "no exactness guarantee" clause.
func (m *NodeMetrics) Snapshot() Snapshot {
	return Snapshot{
		FramesProcessed:     m.framesProcessed.Load(),
		Errors:              m.errors.Load(),
		CumulativeLatencyUs: m.cumulativeUs.Load(),
	}
}
