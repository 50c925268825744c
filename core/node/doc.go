// Package node defines the contract every processing node implements and the
// static metadata (ports, parameter schema) that describes a node type to
// the registry and graph loader.
//
// Polymorphism is capability-based: every node implements the same
// Executor interface. Whether a node behaves as a source, transform, or
// sink is derived from its declared input/output port counts, never from a
// separate interface or type switch.
package node
