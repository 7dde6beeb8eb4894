// SPDX-License-Identifier: MPL-2.0

package ontology

import (
	"slices"
	"testing"
)

func twoHybridAccess(t *testing.T) *Access {
	t.Helper()

	b := NewBuilder("MI")
	b.AddTerm(NewTerm("MI:0018", "two hybrid", WithSynonyms(
		"2h", "classical two hybrid", "Gal4 transcription regeneration", "2 hybrid",
		"two-hybrid", "2H", "yeast two hybrid", "2-hybrid",
	)))
	b.AddTerm(NewTerm("MI:0397", "two hybrid array"))
	b.AddTerm(NewTerm("MI:0398", "two hybrid pooling", Obsolete()))
	b.AddTerm(NewTerm("MI:0217", "phosphorylation reaction", WithSynonyms("phosphorylation")))
	b.AddTerm(NewTerm("MI:0205", "obsolete parent", Obsolete()))
	b.AddTerm(NewTerm("MI:0206", "live child"))
	b.AddParent("MI:0397", "MI:0018")
	b.AddParent("MI:0398", "MI:0018")
	b.AddParent("MI:0206", "MI:0205")
	return NewAccess(b.Build())
}

func TestAccess_TermForAccession(t *testing.T) {
	t.Parallel()
	a := twoHybridAccess(t)

	term, ok := a.TermForAccession("MI:0018")
	if !ok || term.PreferredName() != "two hybrid" {
		t.Errorf("TermForAccession(MI:0018) = %v, %v", term, ok)
	}
	for _, acc := range []string{"", "MI:9999"} {
		if _, ok := a.TermForAccession(acc); ok {
			t.Errorf("TermForAccession(%q) must be absent", acc)
		}
	}
}

func TestAccess_ValidTerms(t *testing.T) {
	t.Parallel()
	a := twoHybridAccess(t)

	tests := []struct {
		name            string
		accession       string
		allowChildren   bool
		excludeObsolete bool
		want            []string
	}{
		{"term only", "MI:0018", false, true, []string{"MI:0018"}},
		{"with children", "MI:0018", true, false, []string{"MI:0018", "MI:0397", "MI:0398"}},
		{"with children minus obsolete", "MI:0018", true, true, []string{"MI:0018", "MI:0397"}},
		{"obsolete start excluded", "MI:0205", true, true, []string{"MI:0206"}},
		{"obsolete start kept", "MI:0205", false, false, []string{"MI:0205"}},
		{"unknown", "MI:9999", true, false, []string{}},
		{"empty", "", true, true, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := a.ValidTerms(tt.accession, tt.allowChildren, tt.excludeObsolete)
			if !slices.Equal(got.Accessions(), tt.want) {
				t.Errorf("ValidTerms = %v, want %v", got.Accessions(), tt.want)
			}
		})
	}
}

func TestAccess_ValidTermsCarriesSynonyms(t *testing.T) {
	t.Parallel()
	a := twoHybridAccess(t)

	terms := a.ValidTerms("MI:0018", false, true).Terms()
	if len(terms) != 1 {
		t.Fatalf("got %d terms, want 1", len(terms))
	}
	syns := terms[0].Synonyms()
	if len(syns) != 8 {
		t.Errorf("got %d synonyms, want 8: %v", len(syns), syns)
	}
	for _, want := range []string{"2h", "2H", "yeast two hybrid"} {
		if !terms[0].HasSynonym(want) {
			t.Errorf("missing synonym %q", want)
		}
	}
}

func TestNames(t *testing.T) {
	t.Parallel()
	a := twoHybridAccess(t)

	terms := a.ValidTerms("MI:0217", false, false)
	if got := PreferredNames(terms); !slices.Equal(got, []string{"phosphorylation reaction"}) {
		t.Errorf("PreferredNames = %v", got)
	}
	if got := TermNames(terms); !slices.Equal(got, []string{"phosphorylation", "phosphorylation reaction"}) {
		t.Errorf("TermNames = %v", got)
	}
	if got := TermNames(TermSet{}); len(got) != 0 {
		t.Errorf("TermNames(empty) = %v", got)
	}
}

func TestAccess_Stats(t *testing.T) {
	t.Parallel()
	a := twoHybridAccess(t)

	want := Stats{Vocabulary: "MI", Terms: 6, Edges: 3, Obsolete: 2, Roots: 3}
	if got := a.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
	if a.Vocabulary() != "MI" || a.Len() != 6 {
		t.Errorf("Vocabulary/Len = %q/%d", a.Vocabulary(), a.Len())
	}
}
