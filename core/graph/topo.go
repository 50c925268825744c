package graph

import (
	"fmt"
	"sort"
)

// kahnTopologicalSort performs Kahn's algorithm over a node-level adjacency
// list, simultaneously detecting cycles and producing a deterministic
// ordering (nodes are broken out of in-degree-0 ties by their declaration
// order in nodeOrder).
func kahnTopologicalSort(inDegree map[string]int, adjacency map[string][]string, nodeOrder []string) ([]string, error) {
	position := make(map[string]int, len(nodeOrder))
	for i, id := range nodeOrder {
		position[id] = i
	}

	frontier := make([]string, 0)
	for id, degree := range inDegree {
		if degree == 0 {
			frontier = append(frontier, id)
		}
	}
	sort.Slice(frontier, func(i, j int) bool { return position[frontier[i]] < position[frontier[j]] })

	order := make([]string, 0, len(inDegree))
	remaining := make(map[string]int, len(inDegree))
	for id, degree := range inDegree {
		remaining[id] = degree
	}

	for len(frontier) > 0 {
		order = append(order, frontier...)

		next := make([]string, 0)
		for _, id := range frontier {
			for _, neighbor := range adjacency[id] {
				remaining[neighbor]--
				if remaining[neighbor] == 0 {
					next = append(next, neighbor)
				}
			}
		}
		sort.Slice(next, func(i, j int) bool { return position[next[i]] < position[next[j]] })
		frontier = next
	}

	if len(order) != len(inDegree) {
		cyclic := make([]string, 0)
		for id, degree := range remaining {
			if degree > 0 {
				cyclic = append(cyclic, id)
			}
		}
		sort.Strings(cyclic)
		return nil, fmt.Errorf("cycle through nodes %v", cyclic)
	}

	return order, nil
}
