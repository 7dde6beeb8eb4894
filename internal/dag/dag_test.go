// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

func sorted(in []string) []string {
	out := slices.Clone(in)
	slices.Sort(out)
	return out
}

func TestAddEdge_Dedup(t *testing.T) {
	t.Parallel()
	g := New()
	if !g.AddEdge("root", "leaf") {
		t.Fatal("first AddEdge should report a new edge")
	}
	if g.AddEdge("root", "leaf") {
		t.Error("duplicate AddEdge should report false")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if got := g.Successors("root"); !slices.Equal(got, []string{"leaf"}) {
		t.Errorf("Successors(root) = %v, want [leaf]", got)
	}
	if got := g.Predecessors("leaf"); !slices.Equal(got, []string{"root"}) {
		t.Errorf("Predecessors(leaf) = %v, want [root]", got)
	}
}

func TestNodes_InsertionOrder(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode("c")
	g.AddEdge("a", "b")
	g.AddNode("c")

	if got := g.Nodes(); !slices.Equal(got, []string{"c", "a", "b"}) {
		t.Errorf("Nodes() = %v, want [c a b]", got)
	}
	if g.Len() != 3 {
		t.Errorf("Len() = %d, want 3", g.Len())
	}
	if !g.HasNode("a") || g.HasNode("z") {
		t.Error("HasNode mismatch")
	}
}

func TestSuccessors_ReturnsCopy(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("a", "b")
	got := g.Successors("a")
	got[0] = "mutated"
	if g.Successors("a")[0] != "b" {
		t.Error("Successors must not expose internal storage")
	}
}

func TestReachable(t *testing.T) {
	t.Parallel()

	// root -> x -> y -> z, root -> w -> y (diamond through y)
	build := func() *Graph {
		g := New()
		g.AddEdge("root", "x")
		g.AddEdge("x", "y")
		g.AddEdge("y", "z")
		g.AddEdge("root", "w")
		g.AddEdge("w", "y")
		return g
	}

	tests := []struct {
		name  string
		start string
		dir   Direction
		want  []string
	}{
		{"descendants of root", "root", Down, []string{"w", "x", "y", "z"}},
		{"descendants of leaf", "z", Down, nil},
		{"ancestors of leaf", "z", Up, []string{"root", "w", "x", "y"}},
		{"ancestors of root", "root", Up, nil},
		{"unknown node", "missing", Down, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := build().Reachable(tt.start, tt.dir)
			if !slices.Equal(sorted(got), tt.want) {
				t.Errorf("Reachable(%q) = %v, want %v", tt.start, got, tt.want)
			}
		})
	}
}

func TestReachable_DiamondVisitedOnce(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("a", "c")
	g.AddEdge("b", "d")
	g.AddEdge("c", "d")

	got := g.Descendants("a")
	if len(got) != 3 {
		t.Errorf("Descendants(a) = %v, want 3 distinct nodes", got)
	}
	if got := g.Ancestors("d"); len(got) != 3 {
		t.Errorf("Ancestors(d) = %v, want 3 distinct nodes", got)
	}
}

func TestReachable_CycleTerminatesAndExcludesStart(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")

	if got := sorted(g.Descendants("a")); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("Descendants(a) = %v, want [b c]", got)
	}
	if got := sorted(g.Ancestors("a")); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("Ancestors(a) = %v, want [b c]", got)
	}
}

func TestReachable_SelfLoop(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("a", "a")
	if got := g.Descendants("a"); got != nil {
		t.Errorf("Descendants(a) = %v, want nil", got)
	}
}

func TestReachable_DeepChain(t *testing.T) {
	t.Parallel()
	const depth = 100_000
	g := New()
	for i := range depth - 1 {
		g.AddEdge(fmt.Sprintf("n%d", i), fmt.Sprintf("n%d", i+1))
	}

	if got := len(g.Descendants("n0")); got != depth-1 {
		t.Errorf("len(Descendants(n0)) = %d, want %d", got, depth-1)
	}
	if got := len(g.Ancestors(fmt.Sprintf("n%d", depth-1))); got != depth-1 {
		t.Errorf("len(Ancestors(last)) = %d, want %d", got, depth-1)
	}
}

func TestTopologicalSort_EmptyGraph(t *testing.T) {
	t.Parallel()
	order, err := New().TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != nil {
		t.Errorf("expected nil, got %v", order)
	}
}

func TestTopologicalSort_ParentsFirst(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("root", "mid")
	g.AddEdge("mid", "leaf")
	g.AddNode("island")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 4 {
		t.Fatalf("expected 4 nodes, got %v", order)
	}
	if slices.Index(order, "root") > slices.Index(order, "mid") ||
		slices.Index(order, "mid") > slices.Index(order, "leaf") {
		t.Errorf("parents must precede children in %v", order)
	}
}

func TestTopologicalSort_Cycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		edges   [][2]string
		minSize int
	}{
		{"self loop", [][2]string{{"a", "a"}}, 1},
		{"two node", [][2]string{{"a", "b"}, {"b", "a"}}, 2},
		{"three node", [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := New()
			for _, e := range tt.edges {
				g.AddEdge(e[0], e[1])
			}
			_, err := g.TopologicalSort()
			var cycleErr *CycleError
			if !errors.As(err, &cycleErr) {
				t.Fatalf("expected *CycleError, got %T: %v", err, err)
			}
			if len(cycleErr.Cycle) < tt.minSize {
				t.Errorf("expected at least %d nodes in cycle, got %v", tt.minSize, cycleErr.Cycle)
			}
		})
	}
}

func TestCycleError_Message(t *testing.T) {
	t.Parallel()
	err := &CycleError{Cycle: []string{"A", "B", "C"}}
	expected := "cycle detected: A -> B -> C"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}
