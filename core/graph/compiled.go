package graph

import (
	"fmt"
	"sort"

	"github.com/FYZAFH/audiotab/core/errkind"
	"github.com/FYZAFH/audiotab/core/node"
	"github.com/FYZAFH/audiotab/core/registry"
)

// Edge is a validated directed connection, resolved down to node-id/port-id
// pairs. It is what core/pipeline wires channels from.
type Edge struct {
	FromNode string
	FromPort string
	ToNode   string
	ToPort   string
}

// Compiled is a loaded, validated, but not-yet-running graph: every node's
// type is known and resolvable, every edge is port- and type-checked, the
// graph is acyclic, and exactly one source node has been identified.
type Compiled struct {
	Nodes        map[string]NodeDecl
	Metadata     map[string]node.Metadata
	Instances    map[string]node.Executor
	Edges        []Edge
	Outgoing     map[string][]Edge
	Incoming     map[string][]Edge
	TopoOrder    []string
	SourceNodeID string
	Config       PipelineConfig
}

// Load validates doc against reg, then instantiates and configures every
// declared node via the registry's factory — producing a loaded but
// not-yet-running pipeline bundle, exactly as §4.4 describes. A Configure
// failure aborts loading synchronously with errkind.ErrInvalidConfig,
// before any node is spawned by core/pipeline.
func Load(doc Document, reg *registry.Registry) (*Compiled, error) {
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("%w: graph must declare at least one node", errkind.ErrInvalidGraph)
	}

	nodes := make(map[string]NodeDecl, len(doc.Nodes))
	metadata := make(map[string]node.Metadata, len(doc.Nodes))
	order := make([]string, 0, len(doc.Nodes))

	for _, decl := range doc.Nodes {
		if decl.ID == "" {
			return nil, fmt.Errorf("%w: node with empty id", errkind.ErrInvalidGraph)
		}
		if _, exists := nodes[decl.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate node id %q", errkind.ErrInvalidGraph, decl.ID)
		}
		typeMetadata, _, ok := reg.Lookup(decl.Type)
		if !ok {
			return nil, fmt.Errorf("%w: unknown node type %q (node %q)", errkind.ErrInvalidGraph, decl.Type, decl.ID)
		}
		nodes[decl.ID] = decl
		metadata[decl.ID] = typeMetadata
		order = append(order, decl.ID)
	}

	edges, err := resolveConnections(doc.Connections, nodes, metadata)
	if err != nil {
		return nil, err
	}

	inDegree, adjacency, outgoing, incoming := buildAdjacency(order, edges)

	topoOrder, err := kahnTopologicalSort(inDegree, adjacency, order)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errkind.ErrInvalidGraph, err)
	}

	sourceID, err := resolveSourceNode(order, incoming)
	if err != nil {
		return nil, err
	}

	instances, err := instantiateAndConfigure(order, nodes, reg)
	if err != nil {
		return nil, err
	}

	return &Compiled{
		Nodes:        nodes,
		Instances:    instances,
		Metadata:     metadata,
		Edges:        edges,
		Outgoing:     outgoing,
		Incoming:     incoming,
		TopoOrder:    topoOrder,
		SourceNodeID: sourceID,
		Config:       doc.PipelineConfig.Resolved(),
	}, nil
}

// instantiateAndConfigure creates a fresh executor for every declared node
// (via the registry factory) and calls Configure with its declared
// parameter subtree. A second Load of the same document would configure
// fresh instances again, satisfying the idempotence property that
// reconfiguring before start overrides rather than accumulates.
func instantiateAndConfigure(order []string, nodes map[string]NodeDecl, reg *registry.Registry) (map[string]node.Executor, error) {
	instances := make(map[string]node.Executor, len(order))
	for _, id := range order {
		decl := nodes[id]
		instance, err := reg.New(decl.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", errkind.ErrInvalidGraph, err)
		}
		if err := instance.Configure(decl.Config); err != nil {
			return nil, fmt.Errorf("%w: node %q: %s", errkind.ErrInvalidConfig, id, err)
		}
		instances[id] = instance
	}
	return instances, nil
}

// resolveConnections validates every ConnectionDecl and returns the
// resolved Edge list.
func resolveConnections(conns []ConnectionDecl, nodes map[string]NodeDecl, metadata map[string]node.Metadata) ([]Edge, error) {
	edges := make([]Edge, 0, len(conns))
	seen := make(map[string]bool, len(conns))

	for _, conn := range conns {
		from := parseEndpoint(conn.From)
		to := parseEndpoint(conn.To)

		if _, ok := nodes[from.nodeID]; !ok {
			return nil, fmt.Errorf("%w: edge references unknown source node %q", errkind.ErrInvalidGraph, from.nodeID)
		}
		if _, ok := nodes[to.nodeID]; !ok {
			return nil, fmt.Errorf("%w: edge references unknown target node %q", errkind.ErrInvalidGraph, to.nodeID)
		}

		if from.nodeID == to.nodeID {
			return nil, fmt.Errorf("%w: self-loop on node %q", errkind.ErrInvalidGraph, from.nodeID)
		}

		key := from.nodeID + "." + from.port + "->" + to.nodeID + "." + to.port
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate edge %s", errkind.ErrInvalidGraph, key)
		}
		seen[key] = true

		outPort, err := findPort(metadata[from.nodeID].Outputs, from.port)
		if err != nil {
			return nil, fmt.Errorf("%w: node %q has no output port %q", errkind.ErrInvalidGraph, from.nodeID, from.port)
		}
		inPort, err := findPort(metadata[to.nodeID].Inputs, to.port)
		if err != nil {
			return nil, fmt.Errorf("%w: node %q has no input port %q", errkind.ErrInvalidGraph, to.nodeID, to.port)
		}

		if outPort.Type != inPort.Type && outPort.Type != node.DataTypeAny && inPort.Type != node.DataTypeAny {
			return nil, fmt.Errorf("%w: port type mismatch on edge %s.%s -> %s.%s (%s vs %s)",
				errkind.ErrInvalidGraph, from.nodeID, from.port, to.nodeID, to.port, outPort.Type, inPort.Type)
		}

		edges = append(edges, Edge{FromNode: from.nodeID, FromPort: from.port, ToNode: to.nodeID, ToPort: to.port})
	}

	return edges, nil
}

func findPort(ports []node.Port, id string) (node.Port, error) {
	for _, p := range ports {
		if p.ID == id {
			return p, nil
		}
	}
	return node.Port{}, fmt.Errorf("port %q not found", id)
}

// buildAdjacency derives node-level in-degree and adjacency (for cycle
// detection) plus the full per-node incoming/outgoing edge lists (for
// channel wiring) from the resolved edges.
func buildAdjacency(order []string, edges []Edge) (map[string]int, map[string][]string, map[string][]Edge, map[string][]Edge) {
	inDegree := make(map[string]int, len(order))
	adjacency := make(map[string][]string, len(order))
	outgoing := make(map[string][]Edge, len(order))
	incoming := make(map[string][]Edge, len(order))

	for _, id := range order {
		inDegree[id] = 0
		adjacency[id] = nil
		outgoing[id] = nil
		incoming[id] = nil
	}

	for _, e := range edges {
		adjacency[e.FromNode] = append(adjacency[e.FromNode], e.ToNode)
		inDegree[e.ToNode]++
		outgoing[e.FromNode] = append(outgoing[e.FromNode], e)
		incoming[e.ToNode] = append(incoming[e.ToNode], e)
	}

	return inDegree, adjacency, outgoing, incoming
}

// resolveSourceNode identifies the unique node with no incoming edges. Per
// the Open Question 1 decision recorded in DESIGN.md, multiple roots are
// rejected rather than broadcast to.
func resolveSourceNode(order []string, incoming map[string][]Edge) (string, error) {
	roots := make([]string, 0, 1)
	for _, id := range order {
		if len(incoming[id]) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)

	switch len(roots) {
	case 0:
		return "", fmt.Errorf("%w: no source node (every node has an inbound edge)", errkind.ErrInvalidGraph)
	case 1:
		return roots[0], nil
	default:
		return "", fmt.Errorf("%w: multiple source nodes %v; this runtime requires a single root", errkind.ErrInvalidGraph, roots)
	}
}
