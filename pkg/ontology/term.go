// SPDX-License-Identifier: MPL-2.0

package ontology

import (
	"slices"
	"strings"
)

type (
	// Term is one entry of a controlled vocabulary.
	//
	// Identity is the accession alone: two Terms with the same accession are
	// Equal regardless of name, synonyms or obsolescence, and TermSet keys on
	// the accession. This lets a lightweight lookup value built with NewTerm
	// stand in for the fully loaded term.
	//
	// Term is an immutable value. Accessors return copies.
	Term struct {
		accession string
		name      string
		synonyms  []string
		obsolete  bool
	}

	// TermOption configures optional Term fields.
	TermOption func(*Term)
)

// NewTerm creates a Term. Without options the result is a lookup value
// suitable for passing to graph queries.
func NewTerm(accession, name string, opts ...TermOption) Term {
	t := Term{accession: accession, name: name}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// WithSynonyms adds synonyms to the term. Duplicates and empty strings are
// dropped; comparison is case-sensitive.
func WithSynonyms(synonyms ...string) TermOption {
	return func(t *Term) {
		t.synonyms = mergeSynonyms(t.synonyms, synonyms)
	}
}

// Obsolete marks the term as obsolete.
func Obsolete() TermOption {
	return func(t *Term) {
		t.obsolete = true
	}
}

// Accession returns the vocabulary-unique identifier, e.g. "MI:0018".
func (t Term) Accession() string { return t.accession }

// PreferredName returns the human-readable name. It may be empty.
func (t Term) PreferredName() string { return t.name }

// Synonyms returns the term's synonyms sorted lexically.
func (t Term) Synonyms() []string {
	return slices.Clone(t.synonyms)
}

// HasSynonym reports whether s is one of the term's synonyms (exact match).
func (t Term) HasSynonym(s string) bool {
	_, found := slices.BinarySearch(t.synonyms, s)
	return found
}

// IsObsolete reports the term's own obsolescence flag.
func (t Term) IsObsolete() bool { return t.obsolete }

// IsZero reports whether t carries no accession.
func (t Term) IsZero() bool { return t.accession == "" }

// Equal reports whether both terms share an accession.
func (t Term) Equal(other Term) bool {
	return t.accession == other.accession
}

// String renders the term as "ACC (name)", or just the accession when unnamed.
func (t Term) String() string {
	if t.name == "" {
		return t.accession
	}
	var sb strings.Builder
	sb.WriteString(t.accession)
	sb.WriteString(" (")
	sb.WriteString(t.name)
	sb.WriteString(")")
	return sb.String()
}

// merge returns a term combining t with other: names fill in if t has none,
// synonyms are unioned, and obsolescence is sticky.
func (t Term) merge(other Term) Term {
	out := Term{
		accession: t.accession,
		name:      t.name,
		synonyms:  mergeSynonyms(t.synonyms, other.synonyms),
		obsolete:  t.obsolete || other.obsolete,
	}
	if out.name == "" {
		out.name = other.name
	}
	return out
}

// mergeSynonyms returns the sorted, duplicate-free union of both inputs.
func mergeSynonyms(existing, added []string) []string {
	if len(added) == 0 {
		return existing
	}
	out := make([]string, 0, len(existing)+len(added))
	out = append(out, existing...)
	for _, s := range added {
		if s != "" {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
