// SPDX-License-Identifier: MPL-2.0

// Package dag provides a string-keyed directed graph with transitive closure
// and cycle detection. It backs the ontology term graph: nodes are accessions
// and an edge from A to B means "A is a parent of B".
//
// Despite the name the graph does not reject cycles. Closures are computed
// with an explicit visited set so they terminate on cyclic input, and
// TopologicalSort reports the nodes that take part in a cycle.
package dag

import (
	"fmt"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle contains the nodes left with unresolved in-degree after Kahn's
		// algorithm: every cycle member plus the nodes reachable only through one.
		Cycle []string
	}

	// Graph is a directed graph keyed by string identifiers.
	// Edges are stored in both directions so parent and child lookups are O(1).
	// A Graph is not safe for concurrent mutation; once fully built it may be
	// read from any number of goroutines.
	Graph struct {
		// successors maps each node to its outgoing neighbors (children).
		successors map[string][]string
		// predecessors maps each node to its incoming neighbors (parents).
		predecessors map[string][]string
		// edges deduplicates (from, to) pairs.
		edges map[edgeKey]struct{}
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes []string
		// nodeSet provides O(1) lookup for node existence.
		nodeSet map[string]bool
	}

	edgeKey struct {
		from string
		to   string
	}

	// Direction selects which edges a traversal follows.
	Direction int
)

const (
	// Down follows edges from a node to its successors (parent to child).
	Down Direction = iota
	// Up follows edges from a node to its predecessors (child to parent).
	Up
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		successors:   make(map[string][]string),
		predecessors: make(map[string][]string),
		edges:        make(map[edgeKey]struct{}),
		nodeSet:      make(map[string]bool),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a directed edge from -> to. Both nodes are implicitly added if
// they don't exist. Adding the same edge twice is a no-op and reports false.
func (g *Graph) AddEdge(from, to string) bool {
	g.AddNode(from)
	g.AddNode(to)

	key := edgeKey{from: from, to: to}
	if _, dup := g.edges[key]; dup {
		return false
	}
	g.edges[key] = struct{}{}
	g.successors[from] = append(g.successors[from], to)
	g.predecessors[to] = append(g.predecessors[to], from)
	return true
}

// HasNode reports whether name is a node of the graph.
func (g *Graph) HasNode(name string) bool {
	return g.nodeSet[name]
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Successors returns the direct successors of name. Unknown nodes have none.
func (g *Graph) Successors(name string) []string {
	return clone(g.successors[name])
}

// Predecessors returns the direct predecessors of name. Unknown nodes have none.
func (g *Graph) Predecessors(name string) []string {
	return clone(g.predecessors[name])
}

// Descendants returns every node reachable from name by following edges
// forward. The start node is never included, even when a cycle leads back to it.
func (g *Graph) Descendants(name string) []string {
	return g.Reachable(name, Down)
}

// Ancestors returns every node reachable from name by following edges
// backward. The start node is never included.
func (g *Graph) Ancestors(name string) []string {
	return g.Reachable(name, Up)
}

// Reachable performs a breadth-first traversal from start in the given
// direction and returns each reached node exactly once, in visit order.
//
// The traversal is iterative and marks nodes visited when they are enqueued,
// so diamonds are expanded once and back edges terminate. Cost is O(V+E) for
// the reachable subgraph. An unknown start node yields nil.
func (g *Graph) Reachable(start string, dir Direction) []string {
	if !g.nodeSet[start] {
		return nil
	}

	adjacency := g.successors
	if dir == Up {
		adjacency = g.predecessors
	}

	visited := map[string]bool{start: true}
	queue := []string{start}
	var result []string

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		for _, next := range adjacency[node] {
			if visited[next] {
				continue
			}
			visited[next] = true
			result = append(result, next)
			queue = append(queue, next)
		}
	}

	return result
}

// TopologicalSort returns a parent-before-child ordering using Kahn's algorithm.
// Returns CycleError if the graph contains a cycle.
// The returned order is deterministic: nodes at the same topological level
// appear in the order they were first added to the graph.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	// Compute in-degrees.
	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = len(g.predecessors[node])
	}

	// Seed the queue with nodes that have no incoming edges, in insertion order.
	queue := make([]string, 0)
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.successors[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var cycleNodes []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				cycleNodes = append(cycleNodes, node)
			}
		}
		return nil, &CycleError{Cycle: cycleNodes}
	}

	return result, nil
}

func clone(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
