package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/FYZAFH/audiotab/core/node"
)

// entry pairs a node type's static metadata with its factory.
type entry struct {
	metadata node.Metadata
	factory  node.Factory
}

// Registry is a thread-safe catalog of node types keyed by their stable
// string id. It is immutable after program start in practice — Register is
// only ever called during startup registration, never from a running
// pipeline — but the map itself is guarded for safety against concurrent
// readers (get_node_registry calls arriving while another registration is
// in flight during tests).
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a node type. It is an error to register the same id twice —
// unlike a tool catalog where later registrations silently replace earlier
// ones, a node-type collision is a build-configuration bug that should be
// caught immediately.
func (r *Registry) Register(metadata node.Metadata, factory node.Factory) error {
	if metadata.ID == "" {
		return fmt.Errorf("node metadata must have a non-empty ID")
	}
	if factory == nil {
		return fmt.Errorf("node type %q registered with a nil factory", metadata.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[metadata.ID]; exists {
		return fmt.Errorf("duplicate node type registration: %q", metadata.ID)
	}

	r.entries[metadata.ID] = entry{metadata: metadata, factory: factory}
	return nil
}

// MustRegister is Register, panicking on error. Intended for use inside an
// init-style registration function where a duplicate or malformed entry is
// a programming error that should fail fast at startup.
func (r *Registry) MustRegister(metadata node.Metadata, factory node.Factory) {
	if err := r.Register(metadata, factory); err != nil {
		panic(err)
	}
}

// Lookup returns the metadata and factory for a node-type id.
func (r *Registry) Lookup(typeID string) (node.Metadata, node.Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[typeID]
	if !ok {
		return node.Metadata{}, nil, false
	}
	return e.metadata, e.factory, true
}

// New instantiates a fresh, unconfigured node of the given type.
func (r *Registry) New(typeID string) (node.Executor, error) {
	_, factory, ok := r.Lookup(typeID)
	if !ok {
		return nil, fmt.Errorf("unknown node type %q", typeID)
	}
	return factory(), nil
}

// All returns every registered type's metadata, sorted by id for
// deterministic output to get_node_registry callers.
func (r *Registry) All() []node.Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]node.Metadata, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.metadata)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Size returns the number of registered node types.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
