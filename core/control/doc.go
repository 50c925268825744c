// Package control is the runtime control surface (§6): it exposes the
// operations an operator or UI drives a deployment through — listing the
// node registry, deploying a graph, querying and controlling pipeline
// instances, triggering frames, and discovering/configuring hardware —
// and fans pipeline state changes out to subscribers over a websocket
// event bus.
package control
