// SPDX-License-Identifier: MPL-2.0

package ontology

import (
	"fmt"
	"slices"
	"sync"
	"testing"
)

// footprintingGraph builds a small MI-shaped hierarchy:
//
//	MI:0000 -> MI:0001 -> MI:0045 -> MI:0013 -> MI:0417
//	MI:0417 -> MI:0409, MI:0814
//	MI:0409 -> MI:0602, MI:0605
//	MI:0602 -> MI:0603, MI:0604
//	MI:0605 -> MI:0606, MI:0409 -> MI:0606 (diamond)
func footprintingGraph(t *testing.T) *Graph {
	t.Helper()

	b := NewBuilder("MI")
	for acc, name := range map[string]string{
		"MI:0000": "molecular interaction",
		"MI:0001": "interaction detection method",
		"MI:0045": "experimental interaction detection",
		"MI:0013": "biophysical",
		"MI:0417": "footprinting",
		"MI:0409": "dna footprinting",
		"MI:0814": "protease accessibility laddering",
		"MI:0602": "chemical footprinting",
		"MI:0605": "enzymatic footprinting",
		"MI:0603": "dimethylsulphate footprinting",
		"MI:0604": "potassium permanganate footprinting",
		"MI:0606": "DNase I footprinting",
	} {
		b.AddTerm(NewTerm(acc, name))
	}
	for _, e := range [][2]string{
		{"MI:0001", "MI:0000"},
		{"MI:0045", "MI:0001"},
		{"MI:0013", "MI:0045"},
		{"MI:0417", "MI:0013"},
		{"MI:0409", "MI:0417"},
		{"MI:0814", "MI:0417"},
		{"MI:0602", "MI:0409"},
		{"MI:0605", "MI:0409"},
		{"MI:0603", "MI:0602"},
		{"MI:0604", "MI:0602"},
		{"MI:0606", "MI:0605"},
		{"MI:0606", "MI:0409"},
	} {
		b.AddParent(e[0], e[1])
	}
	return b.Build()
}

func lookup(acc string) Term { return NewTerm(acc, "") }

func TestGraph_Closures(t *testing.T) {
	t.Parallel()
	g := footprintingGraph(t)

	tests := []struct {
		name string
		got  TermSet
		want []string
	}{
		{"all parents of MI:0013", g.AllParents(lookup("MI:0013")), []string{"MI:0000", "MI:0001", "MI:0045"}},
		{"direct children of MI:0417", g.DirectChildren(lookup("MI:0417")), []string{"MI:0409", "MI:0814"}},
		{"all children of MI:0417", g.AllChildren(lookup("MI:0417")), []string{
			"MI:0409", "MI:0602", "MI:0603", "MI:0604", "MI:0605", "MI:0606", "MI:0814",
		}},
		{"direct parents of diamond tip", g.DirectParents(lookup("MI:0606")), []string{"MI:0409", "MI:0605"}},
		{"all children of leaf", g.AllChildren(lookup("MI:0606")), []string{}},
		{"all parents of root", g.AllParents(lookup("MI:0000")), []string{}},
		{"unknown direct children", g.DirectChildren(lookup("MI:9999")), []string{}},
		{"unknown all parents", g.AllParents(lookup("MI:9999")), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.got.Accessions(); !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGraph_ResultsCarryStoredTerms(t *testing.T) {
	t.Parallel()
	g := footprintingGraph(t)

	parents := g.AllParents(lookup("MI:0013"))
	got, ok := parents.Get("MI:0045")
	if !ok || got.PreferredName() != "experimental interaction detection" {
		t.Errorf("closure must return the stored term, got %v", got)
	}
}

func TestGraph_ClosureMatchesDirectUnion(t *testing.T) {
	t.Parallel()
	g := footprintingGraph(t)

	for term := range g.Terms() {
		all := g.AllChildren(term)
		direct := g.DirectChildren(term)
		for child := range direct.All() {
			if !all.Contains(child) {
				t.Errorf("%s: direct child %s missing from closure", term.Accession(), child.Accession())
			}
			for grand := range g.AllChildren(child).All() {
				if !all.Contains(grand) {
					t.Errorf("%s: descendant %s missing from closure", term.Accession(), grand.Accession())
				}
			}
		}
		if all.Contains(term) {
			t.Errorf("%s: closure must not contain its start", term.Accession())
		}
	}
}

func TestGraph_EveryEdgeEndpointIsNode(t *testing.T) {
	t.Parallel()
	g := footprintingGraph(t)

	for term := range g.Terms() {
		for child := range g.DirectChildren(term).All() {
			if _, ok := g.Node(child.Accession()); !ok {
				t.Errorf("edge %s -> %s points outside the graph", term.Accession(), child.Accession())
			}
			if !g.DirectParents(child).Contains(term) {
				t.Errorf("parent and child views disagree on %s -> %s", term.Accession(), child.Accession())
			}
		}
	}
}

func TestGraph_Idempotent(t *testing.T) {
	t.Parallel()
	g := footprintingGraph(t)

	first := g.AllChildren(lookup("MI:0417")).Accessions()
	for range 5 {
		if got := g.AllChildren(lookup("MI:0417")).Accessions(); !slices.Equal(got, first) {
			t.Fatalf("repeated query diverged: %v vs %v", got, first)
		}
	}
}

func TestGraph_Cycle(t *testing.T) {
	t.Parallel()

	b := NewBuilder("CYC")
	for _, acc := range []string{"C:1", "C:2", "C:3"} {
		b.AddTerm(NewTerm(acc, acc))
	}
	b.AddParent("C:2", "C:1")
	b.AddParent("C:3", "C:2")
	b.AddParent("C:1", "C:3")
	g := b.Build()

	if got := g.AllChildren(lookup("C:1")).Accessions(); !slices.Equal(got, []string{"C:2", "C:3"}) {
		t.Errorf("AllChildren(C:1) = %v", got)
	}
	if got := g.AllParents(lookup("C:1")).Accessions(); !slices.Equal(got, []string{"C:2", "C:3"}) {
		t.Errorf("AllParents(C:1) = %v", got)
	}
	if members := g.CycleMembers(); len(members) != 3 {
		t.Errorf("CycleMembers() = %v", members)
	}
	if members := footprintingGraph(t).CycleMembers(); members != nil {
		t.Errorf("acyclic graph reported cycle %v", members)
	}
}

func TestGraph_IsObsolete(t *testing.T) {
	t.Parallel()

	b := NewBuilder("OBS")
	b.AddTerm(NewTerm("O:1", "old", Obsolete()))
	b.AddTerm(NewTerm("O:2", "new"))
	g := b.Build()

	if !g.IsObsolete(lookup("O:1")) {
		t.Error("O:1 should be obsolete")
	}
	if g.IsObsolete(lookup("O:2")) {
		t.Error("O:2 should not be obsolete")
	}
	if g.IsObsolete(NewTerm("O:9", "", Obsolete())) {
		t.Error("unknown accessions are never obsolete, whatever the lookup value says")
	}
}

func TestGraph_Roots(t *testing.T) {
	t.Parallel()
	g := footprintingGraph(t)
	if got := g.Roots().Accessions(); !slices.Equal(got, []string{"MI:0000"}) {
		t.Errorf("Roots() = %v", got)
	}
}

func TestGraph_WideSubtree(t *testing.T) {
	t.Parallel()

	// root with 11 children, each with 112 children: 11 + 11*112 = 1243 descendants.
	b := NewBuilder("WIDE")
	b.AddTerm(NewTerm("W:root", "root"))
	for i := range 11 {
		mid := fmt.Sprintf("W:%d", i)
		b.AddTerm(NewTerm(mid, mid))
		b.AddParent(mid, "W:root")
		for j := range 112 {
			leaf := fmt.Sprintf("W:%d.%d", i, j)
			b.AddTerm(NewTerm(leaf, leaf))
			b.AddParent(leaf, mid)
		}
	}
	g := b.Build()

	if got := g.AllChildren(lookup("W:root")).Len(); got != 1243 {
		t.Errorf("AllChildren(root).Len() = %d, want 1243", got)
	}
}

func TestGraph_DeepChain(t *testing.T) {
	t.Parallel()

	const depth = 100_000
	b := NewBuilder("DEEP")
	for i := range depth {
		acc := fmt.Sprintf("D:%d", i)
		b.AddTerm(NewTerm(acc, ""))
		if i > 0 {
			b.AddParent(acc, fmt.Sprintf("D:%d", i-1))
		}
	}
	g := b.Build()

	if got := g.AllChildren(lookup("D:0")).Len(); got != depth-1 {
		t.Errorf("AllChildren(D:0).Len() = %d, want %d", got, depth-1)
	}
	if got := g.AllParents(lookup(fmt.Sprintf("D:%d", depth-1))).Len(); got != depth-1 {
		t.Errorf("AllParents(last).Len() = %d, want %d", got, depth-1)
	}
}

func TestGraph_ConcurrentReads(t *testing.T) {
	t.Parallel()
	g := footprintingGraph(t)
	want := g.AllChildren(lookup("MI:0417")).Accessions()

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			for range 200 {
				got := g.AllChildren(lookup("MI:0417")).Accessions()
				if !slices.Equal(got, want) {
					t.Errorf("concurrent read diverged: %v", got)
					return
				}
				g.AllParents(lookup("MI:0606"))
				g.IsObsolete(lookup("MI:0001"))
			}
		})
	}
	wg.Wait()
}

func TestBuilder_Placeholders(t *testing.T) {
	t.Parallel()

	b := NewBuilder("PH")
	b.AddTerm(NewTerm("P:child", "child"))
	b.AddParent("P:child", "P:missing")

	if got := b.Placeholders(); !slices.Equal(got, []string{"P:missing"}) {
		t.Errorf("Placeholders() = %v", got)
	}
	if b.Defined("P:missing") {
		t.Error("placeholder must not count as defined")
	}

	// Defining the accession later replaces the placeholder.
	b.AddTerm(NewTerm("P:missing", "found"))
	if got := b.Placeholders(); len(got) != 0 {
		t.Errorf("Placeholders() after definition = %v", got)
	}

	g := b.Build()
	parent, ok := g.Node("P:missing")
	if !ok || parent.PreferredName() != "found" {
		t.Errorf("Node(P:missing) = %v, %v", parent, ok)
	}
	if g.PlaceholderCount() != 0 {
		t.Errorf("PlaceholderCount() = %d", g.PlaceholderCount())
	}
}

func TestBuilder_RejectsSelfAndDuplicateEdges(t *testing.T) {
	t.Parallel()

	b := NewBuilder("E")
	b.AddTerm(NewTerm("E:1", ""))
	b.AddTerm(NewTerm("E:2", ""))

	if b.AddParent("E:1", "E:1") {
		t.Error("self parent must be rejected")
	}
	if !b.AddParent("E:2", "E:1") {
		t.Error("first edge must be accepted")
	}
	if b.AddParent("E:2", "E:1") {
		t.Error("duplicate edge must be reported")
	}
	if g := b.Build(); g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}

func TestBuilder_MergesDuplicateDefinitions(t *testing.T) {
	t.Parallel()

	b := NewBuilder("M")
	if b.AddTerm(NewTerm("M:1", "first", WithSynonyms("a"))) {
		t.Error("first definition must not report a merge")
	}
	if !b.AddTerm(NewTerm("M:1", "second", WithSynonyms("b"))) {
		t.Error("second definition must report a merge")
	}
	term, _ := b.Build().Node("M:1")
	if term.PreferredName() != "first" || !slices.Equal(term.Synonyms(), []string{"a", "b"}) {
		t.Errorf("merged term = %v %v", term, term.Synonyms())
	}
}

func TestBuilder_UseAfterBuildPanics(t *testing.T) {
	t.Parallel()

	b := NewBuilder("P")
	b.Build()
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	b.AddTerm(NewTerm("P:1", ""))
}
