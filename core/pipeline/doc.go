// Package pipeline is the async pipeline executor (§4.5): it takes a
// graph.Compiled bundle and turns it into a running set of goroutines,
// one per node, connected by bounded channels that mirror the graph's
// edges. Each node's executor is wrapped in a resilience.Shell so a
// single node's error never silently kills the whole pipeline, and every
// node's channel throughput is mirrored into a metrics.Collector.
//
// A Pipeline's lifecycle is mediated by core/state's PipelineState
// machine: Start moves it Idle -> Initializing -> Running, Stop moves it
// to Completed, and an unrecovered node error moves it to Error.
package pipeline
