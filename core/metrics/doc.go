// Package metrics implements the lock-free per-node counters the
// resilience wrapper updates on every frame, a central collector mapping
// node id to a shared counter set, and a PipelineMonitor that formats a
// human-readable report from a snapshot. Collector additionally
// implements prometheus.Collector so the same counters can be scraped
// instead of only printed.
package metrics
