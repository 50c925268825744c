package metrics

import "fmt"

// PipelineMonitor holds a reference to a Collector and formats a
// human-readable, per-node report (frames, errors, mean latency). It adds
// no state of its own beyond the report-formatting convenience.
type PipelineMonitor struct {
	collector *Collector
}

// NewPipelineMonitor wraps a Collector for reporting.
func NewPipelineMonitor(collector *Collector) *PipelineMonitor {
	return &PipelineMonitor{collector: collector}
}

// NodeReport is one line of a formatted report.
type NodeReport struct {
	NodeID          string
	FramesProcessed uint64
	Errors          uint64
	MeanLatencyUs   float64
}

// Report returns a NodeReport per registered node, sorted by node id.
func (m *PipelineMonitor) Report() []NodeReport {
	ids := m.collector.NodeIDs()
	reports := make([]NodeReport, 0, len(ids))
	for _, id := range ids {
		handle, ok := m.collector.Get(id)
		if !ok {
			continue
		}
		snap := handle.Snapshot()
		reports = append(reports, NodeReport{
			NodeID:          id,
			FramesProcessed: snap.FramesProcessed,
			Errors:          snap.Errors,
			MeanLatencyUs:   snap.MeanLatencyUs(),
		})
	}
	return reports
}

// FormatText renders the report as the one-line-per-node text format the
// CLI and debug logs use.
func (m *PipelineMonitor) FormatText() string {
	var out string
	for _, r := range m.Report() {
		out += fmt.Sprintf("%-24s frames=%-8d errors=%-6d mean_latency_us=%.2f\n",
			r.NodeID, r.FramesProcessed, r.Errors, r.MeanLatencyUs)
	}
	return out
}
