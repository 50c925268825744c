// Package registry is the process-wide catalog of node types: each entry
// pairs a node.Metadata with a zero-argument node.Factory. The set of
// entries is fixed for a given build — an explicit registration function
// called from main populates it once at program start, which is the
// observable behavior the spec asks for (an equivalent of compile-time
// macro-submitted inventories, reflection, or generated tables).
package registry
