// SPDX-License-Identifier: MPL-2.0

package ontology

import (
	"iter"
	"maps"
	"slices"
	"strings"
)

// TermSet is a set of Terms keyed by accession.
//
// The zero value is an empty set that can be queried; Add allocates on first use.
// Graph queries return fresh sets the caller owns.
type TermSet struct {
	terms map[string]Term
}

// NewTermSet creates a set holding the given terms.
func NewTermSet(terms ...Term) TermSet {
	s := TermSet{terms: make(map[string]Term, len(terms))}
	for _, t := range terms {
		s.terms[t.accession] = t
	}
	return s
}

// Add inserts t, replacing any term with the same accession.
func (s *TermSet) Add(t Term) {
	if s.terms == nil {
		s.terms = make(map[string]Term)
	}
	s.terms[t.accession] = t
}

// Remove deletes the term with the given accession, if present.
func (s *TermSet) Remove(accession string) {
	delete(s.terms, accession)
}

// Contains reports whether a term with t's accession is in the set.
func (s TermSet) Contains(t Term) bool {
	return s.ContainsAccession(t.accession)
}

// ContainsAccession reports whether accession is in the set.
func (s TermSet) ContainsAccession(accession string) bool {
	_, ok := s.terms[accession]
	return ok
}

// Get returns the stored term for accession.
func (s TermSet) Get(accession string) (Term, bool) {
	t, ok := s.terms[accession]
	return t, ok
}

// Len returns the number of terms.
func (s TermSet) Len() int { return len(s.terms) }

// IsEmpty reports whether the set has no terms.
func (s TermSet) IsEmpty() bool { return len(s.terms) == 0 }

// Terms returns the members sorted by accession.
func (s TermSet) Terms() []Term {
	out := make([]Term, 0, len(s.terms))
	for _, acc := range s.Accessions() {
		out = append(out, s.terms[acc])
	}
	return out
}

// Accessions returns the member accessions in sorted order.
func (s TermSet) Accessions() []string {
	return slices.Sorted(maps.Keys(s.terms))
}

// All iterates members in accession order.
func (s TermSet) All() iter.Seq[Term] {
	return func(yield func(Term) bool) {
		for _, acc := range s.Accessions() {
			if !yield(s.terms[acc]) {
				return
			}
		}
	}
}

// Union returns a new set holding the members of both sets.
// On accession collisions the receiver's term wins.
func (s TermSet) Union(other TermSet) TermSet {
	out := TermSet{terms: make(map[string]Term, len(s.terms)+len(other.terms))}
	maps.Copy(out.terms, other.terms)
	maps.Copy(out.terms, s.terms)
	return out
}

// Filter returns a new set with the members for which keep returns true.
func (s TermSet) Filter(keep func(Term) bool) TermSet {
	out := TermSet{terms: make(map[string]Term)}
	for acc, t := range s.terms {
		if keep(t) {
			out.terms[acc] = t
		}
	}
	return out
}

// String renders the sorted accessions, e.g. "{MI:0001, MI:0045}".
func (s TermSet) String() string {
	return "{" + strings.Join(s.Accessions(), ", ") + "}"
}
