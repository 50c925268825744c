package metrics

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the shared registry mapping node id to its NodeMetrics. The
// resilience wrapper registers one handle per node at pipeline start and
// updates it without ever touching the collector's map again, so the map
// itself only needs locking for registration/lookup, not for the hot path.
//
// Collector implements prometheus.Collector so the same atomic counters
// that back PipelineMonitor's text report can be scraped by a Prometheus
// server, without a second bookkeeping path.
type Collector struct {
	mu    sync.RWMutex
	nodes map[string]*NodeMetrics

	framesDesc  *prometheus.Desc
	errorsDesc  *prometheus.Desc
	latencyDesc *prometheus.Desc
}

// NewCollector creates an empty Collector scoped to one pipeline instance.
// pipelineID is attached as a label on every exported Prometheus series so
// multiple concurrently running pipeline instances (see core/pool) don't
// collide when both are registered with a global Prometheus registry.
func NewCollector(pipelineID string) *Collector {
	constLabels := prometheus.Labels{"pipeline_id": pipelineID}
	return &Collector{
		nodes: make(map[string]*NodeMetrics),
		framesDesc: prometheus.NewDesc(
			"audiotab_node_frames_processed_total",
			"Total frames processed by a node.",
			[]string{"node_id"}, constLabels,
		),
		errorsDesc: prometheus.NewDesc(
			"audiotab_node_errors_total",
			"Total processing errors recorded by a node.",
			[]string{"node_id"}, constLabels,
		),
		latencyDesc: prometheus.NewDesc(
			"audiotab_node_mean_latency_microseconds",
			"Mean per-frame processing latency in microseconds.",
			[]string{"node_id"}, constLabels,
		),
	}
}

// Register creates and returns a shared NodeMetrics handle for nodeID. If
// one already exists it is returned unchanged — Register is idempotent so
// callers that redeploy a graph do not lose prior counts by accident.
func (c *Collector) Register(nodeID string) *NodeMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.nodes[nodeID]; ok {
		return existing
	}
	m := &NodeMetrics{}
	c.nodes[nodeID] = m
	return m
}

// Get retrieves the handle for nodeID, if registered.
func (c *Collector) Get(nodeID string) (*NodeMetrics, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.nodes[nodeID]
	return m, ok
}

// SnapshotAll returns a node-id -> Snapshot map covering every registered
// node, sorted iteration order left to the caller.
func (c *Collector) SnapshotAll() map[string]Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]Snapshot, len(c.nodes))
	for id, m := range c.nodes {
		out[id] = m.Snapshot()
	}
	return out
}

// NodeIDs returns the registered node ids in sorted order.
func (c *Collector) NodeIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.nodes))
	for id := range c.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.framesDesc
	ch <- c.errorsDesc
	ch <- c.latencyDesc
}

// Collect implements prometheus.Collector, exporting the current snapshot
// of every registered node on each scrape.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, id := range c.NodeIDs() {
		m, ok := c.Get(id)
		if !ok {
			continue
		}
		snap := m.Snapshot()
		ch <- prometheus.MustNewConstMetric(c.framesDesc, prometheus.CounterValue, float64(snap.FramesProcessed), id)
		ch <- prometheus.MustNewConstMetric(c.errorsDesc, prometheus.CounterValue, float64(snap.Errors), id)
		ch <- prometheus.MustNewConstMetric(c.latencyDesc, prometheus.GaugeValue, snap.MeanLatencyUs(), id)
	}
}

var _ prometheus.Collector = (*Collector)(nil)
