// SPDX-License-Identifier: MPL-2.0

package ontology

import (
	"github.com/ontoreg/ontoreg/internal/dag"
)

// Builder assembles a Graph. It is single-use and not safe for concurrent use;
// the Graph returned by Build is immutable.
type Builder struct {
	vocabulary string
	terms      map[string]Term
	defined    map[string]bool
	adj        *dag.Graph
	built      bool
}

// NewBuilder starts a graph for the named vocabulary.
func NewBuilder(vocabulary string) *Builder {
	return &Builder{
		vocabulary: vocabulary,
		terms:      make(map[string]Term),
		defined:    make(map[string]bool),
		adj:        dag.New(),
	}
}

// AddTerm records a fully defined term. When the accession was already
// defined the two definitions are merged and AddTerm reports true.
// Defining an accession previously seen only as a parent reference replaces
// its placeholder.
func (b *Builder) AddTerm(t Term) (merged bool) {
	b.mustBeOpen()
	acc := t.accession
	b.adj.AddNode(acc)
	if b.defined[acc] {
		b.terms[acc] = b.terms[acc].merge(t)
		return true
	}
	b.defined[acc] = true
	b.terms[acc] = t
	return false
}

// AddParent records that parent is a parent of child. Either endpoint that
// has no definition yet gets a placeholder node carrying only its accession.
// It reports false for a self reference or a repeated edge; neither changes
// the graph.
func (b *Builder) AddParent(child, parent string) bool {
	b.mustBeOpen()
	if child == parent {
		return false
	}
	b.ensureNode(child)
	b.ensureNode(parent)
	return b.adj.AddEdge(parent, child)
}

// Defined reports whether accession has a full definition.
func (b *Builder) Defined(accession string) bool {
	return b.defined[accession]
}

// Placeholders returns the accessions that are referenced as parents but
// were never defined, in first-seen order.
func (b *Builder) Placeholders() []string {
	var out []string
	for _, acc := range b.adj.Nodes() {
		if !b.defined[acc] {
			out = append(out, acc)
		}
	}
	return out
}

// Build freezes the graph. The Builder must not be used afterwards.
func (b *Builder) Build() *Graph {
	b.mustBeOpen()
	b.built = true
	return &Graph{
		vocabulary:   b.vocabulary,
		terms:        b.terms,
		placeholders: len(b.adj.Nodes()) - len(b.defined),
		adj:          b.adj,
	}
}

func (b *Builder) ensureNode(acc string) {
	if _, ok := b.terms[acc]; !ok {
		b.terms[acc] = Term{accession: acc}
	}
	b.adj.AddNode(acc)
}

func (b *Builder) mustBeOpen() {
	if b.built {
		panic("ontology: Builder used after Build")
	}
}
