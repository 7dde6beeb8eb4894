// SPDX-License-Identifier: MPL-2.0

package ontology

type (
	// Access is the read-only query surface of one loaded vocabulary.
	// It exclusively owns its Graph and is safe for concurrent use.
	Access struct {
		graph *Graph
	}

	// Stats summarizes a vocabulary's graph.
	Stats struct {
		Vocabulary   string `json:"vocabulary"`
		Terms        int    `json:"terms"`
		Edges        int    `json:"edges"`
		Obsolete     int    `json:"obsolete"`
		Roots        int    `json:"roots"`
		Placeholders int    `json:"placeholders"`
	}
)

// NewAccess wraps a built graph.
func NewAccess(g *Graph) *Access {
	return &Access{graph: g}
}

// Vocabulary returns the vocabulary identifier.
func (a *Access) Vocabulary() string { return a.graph.vocabulary }

// Len returns the number of terms in the vocabulary.
func (a *Access) Len() int { return a.graph.Len() }

// TermForAccession resolves an accession to its term. An empty or unknown
// accession reports false.
func (a *Access) TermForAccession(accession string) (Term, bool) {
	if accession == "" {
		return Term{}, false
	}
	return a.graph.Node(accession)
}

// DirectChildren returns the terms that declare t as a parent.
func (a *Access) DirectChildren(t Term) TermSet { return a.graph.DirectChildren(t) }

// AllChildren returns every transitive descendant of t, excluding t.
func (a *Access) AllChildren(t Term) TermSet { return a.graph.AllChildren(t) }

// DirectParents returns the terms t declares as parents.
func (a *Access) DirectParents(t Term) TermSet { return a.graph.DirectParents(t) }

// AllParents returns every transitive ancestor of t, excluding t.
func (a *Access) AllParents(t Term) TermSet { return a.graph.AllParents(t) }

// IsObsolete reports whether t is a known, obsolete term.
func (a *Access) IsObsolete(t Term) bool { return a.graph.IsObsolete(t) }

// Roots returns the terms that have no parents.
func (a *Access) Roots() TermSet { return a.graph.Roots() }

// ValidTerms expands an accession into the set of terms acceptable in its
// place: the term itself, plus all of its descendants when allowChildren is
// set, minus every obsolete candidate when excludeObsolete is set. The
// starting term is subject to the obsolete filter too. An unknown accession
// yields an empty set.
func (a *Access) ValidTerms(accession string, allowChildren, excludeObsolete bool) TermSet {
	term, ok := a.TermForAccession(accession)
	if !ok {
		return TermSet{}
	}

	candidates := NewTermSet(term)
	if allowChildren {
		candidates = candidates.Union(a.graph.AllChildren(term))
	}
	if excludeObsolete {
		candidates = candidates.Filter(func(t Term) bool { return !t.obsolete })
	}
	return candidates
}

// Stats computes summary counts for the vocabulary.
func (a *Access) Stats() Stats {
	s := Stats{
		Vocabulary:   a.graph.vocabulary,
		Terms:        a.graph.Len(),
		Edges:        a.graph.EdgeCount(),
		Roots:        a.graph.Roots().Len(),
		Placeholders: a.graph.PlaceholderCount(),
	}
	for _, t := range a.graph.terms {
		if t.obsolete {
			s.Obsolete++
		}
	}
	return s
}
