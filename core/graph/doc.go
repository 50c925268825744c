// Package graph parses and validates the declarative JSON graph document of
// §6: node declarations with their configuration, directed edges between
// node ports, and optional pipeline-wide settings. Load performs every
// structural check the spec requires — unknown node types, unknown ports,
// type mismatches, self-loops, duplicate edges, cycles, and source-node
// uniqueness — before the pipeline executor ever touches the result.
package graph
