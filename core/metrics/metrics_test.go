package metrics

import "testing"

func TestNodeMetricsSnapshotAndMeanLatency(t *testing.T) {
	m := &NodeMetrics{}
	m.RecordFrameProcessed()
	m.RecordFrameProcessed()
	m.FinishProcessing(100)
	m.FinishProcessing(300)
	m.RecordError()

	snap := m.Snapshot()
	if snap.FramesProcessed != 2 {
		t.Fatalf("FramesProcessed = %d, want 2", snap.FramesProcessed)
	}
	if snap.Errors != 1 {
		t.Fatalf("Errors = %d, want 1", snap.Errors)
	}
	if snap.CumulativeLatencyUs != 400 {
		t.Fatalf("CumulativeLatencyUs = %d, want 400", snap.CumulativeLatencyUs)
	}
	if got := snap.MeanLatencyUs(); got != 200 {
		t.Fatalf("MeanLatencyUs() = %v, want 200", got)
	}
}

func TestMeanLatencyZeroFrames(t *testing.T) {
	var snap Snapshot
	if got := snap.MeanLatencyUs(); got != 0 {
		t.Fatalf("MeanLatencyUs() with zero frames = %v, want 0", got)
	}
}

func TestCollectorRegisterIsIdempotent(t *testing.T) {
	c := NewCollector("pipeline-1")

	first := c.Register("sine")
	second := c.Register("sine")
	if first != second {
		t.Fatalf("Register() should return the same handle for repeated calls")
	}
}

func TestCollectorSnapshotAll(t *testing.T) {
	c := NewCollector("pipeline-1")
	sine := c.Register("sine")
	sine.RecordFrameProcessed()

	gain := c.Register("gain")
	gain.RecordFrameProcessed()
	gain.RecordError()

	snapshots := c.SnapshotAll()
	if len(snapshots) != 2 {
		t.Fatalf("SnapshotAll() returned %d entries, want 2", len(snapshots))
	}
	if snapshots["gain"].Errors != 1 {
		t.Fatalf("gain.Errors = %d, want 1", snapshots["gain"].Errors)
	}
}

func TestPipelineMonitorReportSortedByID(t *testing.T) {
	c := NewCollector("pipeline-1")
	c.Register("zeta")
	c.Register("alpha")

	monitor := NewPipelineMonitor(c)
	report := monitor.Report()
	if len(report) != 2 {
		t.Fatalf("Report() returned %d entries, want 2", len(report))
	}
	if report[0].NodeID != "alpha" || report[1].NodeID != "zeta" {
		t.Fatalf("Report() not sorted by node id: %v", report)
	}
}
