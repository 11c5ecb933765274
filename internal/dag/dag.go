package dag

import (
	"fmt"
	"slices"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{
		id:         id,
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is returned
// if either node does not exist. A self-edge is stored and later reported by
// DetectCycles.
func (g *Graph) AddEdge(fromID, toID string) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	toNode.deps[fromID] = fromNode
	fromNode.dependents[toID] = toNode

	return nil
}

// Has reports whether the node exists.
func (g *Graph) Has(id string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns every node ID in sorted order.
func (g *Graph) Nodes() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return g.sortedIDs()
}

// Dependencies returns the sorted IDs of nodes that the given node depends on.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedKeys(n.deps), nil
}

// Dependents returns the sorted IDs of nodes that depend on the given node.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedKeys(n.dependents), nil
}

// DetectCycles checks the graph for cycles with a depth-first walk along
// dependency edges, visiting nodes in ID order. The first cycle found is
// returned as a *CycleError carrying the full path.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	const (
		unvisited = iota
		visiting
		done
	)
	marks := make(map[string]int, len(g.nodes))
	var stack []string

	var visit func(n *node) error
	visit = func(n *node) error {
		switch marks[n.id] {
		case done:
			return nil
		case visiting:
			start := slices.Index(stack, n.id)
			path := append(slices.Clone(stack[start:]), n.id)
			return &CycleError{Path: path}
		}

		marks[n.id] = visiting
		stack = append(stack, n.id)
		for _, depID := range sortedKeys(n.deps) {
			if err := visit(n.deps[depID]); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		marks[n.id] = done
		return nil
	}

	for _, id := range g.sortedIDs() {
		if err := visit(g.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}

// Layers groups nodes by their longest dependency chain: layer 0 holds nodes
// without dependencies and every node sits one layer after its deepest
// dependency. Each layer is sorted by ID. The graph must be acyclic.
func (g *Graph) Layers() ([][]string, error) {
	if err := g.DetectCycles(); err != nil {
		return nil, err
	}

	g.mutex.RLock()
	defer g.mutex.RUnlock()

	depth := make(map[string]int, len(g.nodes))
	var measure func(n *node) int
	measure = func(n *node) int {
		if d, ok := depth[n.id]; ok {
			return d
		}
		d := 0
		for _, dep := range n.deps {
			if dd := measure(dep) + 1; dd > d {
				d = dd
			}
		}
		depth[n.id] = d
		return d
	}

	var layers [][]string
	for _, id := range g.sortedIDs() {
		d := measure(g.nodes[id])
		for len(layers) <= d {
			layers = append(layers, nil)
		}
		layers[d] = append(layers[d], id)
	}
	return layers, nil
}

// Closure returns the given nodes plus everything they transitively depend
// on, sorted by ID.
func (g *Graph) Closure(ids ...string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	seen := make(map[string]struct{})
	var walk func(n *node)
	walk = func(n *node) {
		if _, ok := seen[n.id]; ok {
			return
		}
		seen[n.id] = struct{}{}
		for _, dep := range n.deps {
			walk(dep)
		}
	}
	for _, id := range ids {
		n, ok := g.nodes[id]
		if !ok {
			return nil, fmt.Errorf("node not found: %s", id)
		}
		walk(n)
	}
	return sortedKeys(seen), nil
}

func (g *Graph) sortedIDs() []string {
	return sortedKeys(g.nodes)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
