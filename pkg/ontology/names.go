// SPDX-License-Identifier: MPL-2.0

package ontology

import "slices"

// PreferredNames returns the distinct, non-empty preferred names of terms,
// sorted.
func PreferredNames(terms TermSet) []string {
	names := make([]string, 0, terms.Len())
	for _, t := range terms.terms {
		if t.name != "" {
			names = append(names, t.name)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// TermNames returns every name a caller may use for the given terms: each
// preferred name plus all synonyms, deduplicated and sorted.
func TermNames(terms TermSet) []string {
	names := make([]string, 0, terms.Len())
	for _, t := range terms.terms {
		if t.name != "" {
			names = append(names, t.name)
		}
		names = append(names, t.synonyms...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}
