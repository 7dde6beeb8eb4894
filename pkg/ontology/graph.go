// SPDX-License-Identifier: MPL-2.0

package ontology

import (
	"errors"
	"iter"
	"maps"
	"slices"

	"github.com/ontoreg/ontoreg/internal/dag"
)

// Graph is the term graph of one vocabulary. Nodes are terms indexed by
// accession; an edge P -> C means P is a parent of C. A term may have several
// parents and the source data may contain cycles.
//
// Graph is immutable and safe for concurrent use. Every query takes a Term
// but resolves it by accession only; an accession that is not a node is
// unknown, which yields an empty result rather than an error.
type Graph struct {
	vocabulary   string
	terms        map[string]Term
	placeholders int
	adj          *dag.Graph
}

// Vocabulary returns the vocabulary identifier the graph was built for.
func (g *Graph) Vocabulary() string { return g.vocabulary }

// Len returns the number of nodes, placeholders included.
func (g *Graph) Len() int { return g.adj.Len() }

// EdgeCount returns the number of parent-child edges.
func (g *Graph) EdgeCount() int { return g.adj.EdgeCount() }

// PlaceholderCount returns the number of nodes that were referenced as a
// parent but never defined.
func (g *Graph) PlaceholderCount() int { return g.placeholders }

// Node returns the stored term for accession.
func (g *Graph) Node(accession string) (Term, bool) {
	t, ok := g.terms[accession]
	return t, ok
}

// Terms iterates over all nodes in accession order.
func (g *Graph) Terms() iter.Seq[Term] {
	return func(yield func(Term) bool) {
		for _, acc := range slices.Sorted(maps.Keys(g.terms)) {
			if !yield(g.terms[acc]) {
				return
			}
		}
	}
}

// DirectChildren returns the terms that declare t as a parent.
func (g *Graph) DirectChildren(t Term) TermSet {
	return g.collect(g.adj.Successors(t.accession))
}

// DirectParents returns the terms t declares as parents.
func (g *Graph) DirectParents(t Term) TermSet {
	return g.collect(g.adj.Predecessors(t.accession))
}

// AllChildren returns every transitive descendant of t, each once.
// t itself is excluded even when a cycle leads back to it.
func (g *Graph) AllChildren(t Term) TermSet {
	return g.collect(g.adj.Descendants(t.accession))
}

// AllParents returns every transitive ancestor of t, each once, excluding t.
func (g *Graph) AllParents(t Term) TermSet {
	return g.collect(g.adj.Ancestors(t.accession))
}

// IsObsolete reports whether t's accession names an obsolete node.
// Unknown accessions are not obsolete.
func (g *Graph) IsObsolete(t Term) bool {
	stored, ok := g.terms[t.accession]
	return ok && stored.obsolete
}

// Roots returns the terms without parents.
func (g *Graph) Roots() TermSet {
	out := TermSet{terms: make(map[string]Term)}
	for acc, t := range g.terms {
		if len(g.adj.Predecessors(acc)) == 0 {
			out.terms[acc] = t
		}
	}
	return out
}

// CycleMembers returns the accessions involved in (or only reachable through)
// a parent cycle, or nil when the graph is acyclic.
func (g *Graph) CycleMembers() []string {
	_, err := g.adj.TopologicalSort()
	var cycleErr *dag.CycleError
	if errors.As(err, &cycleErr) {
		return cycleErr.Cycle
	}
	return nil
}

func (g *Graph) collect(accessions []string) TermSet {
	out := TermSet{terms: make(map[string]Term, len(accessions))}
	for _, acc := range accessions {
		out.terms[acc] = g.terms[acc]
	}
	return out
}
