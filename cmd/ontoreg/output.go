// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ontoreg/ontoreg/pkg/ontology"
)

type (
	// termView is the JSON shape of one term.
	termView struct {
		Accession string   `json:"accession"`
		Name      string   `json:"name"`
		Synonyms  []string `json:"synonyms,omitempty"`
		Obsolete  bool     `json:"obsolete"`
	}

	// termDetailView is the JSON shape of `ontoreg term`.
	termDetailView struct {
		termView
		Vocabulary string     `json:"vocabulary"`
		Parents    []termView `json:"parents"`
		Children   []termView `json:"children"`
	}
)

func newTermView(t ontology.Term) termView {
	return termView{
		Accession: t.Accession(),
		Name:      t.PreferredName(),
		Synonyms:  t.Synonyms(),
		Obsolete:  t.IsObsolete(),
	}
}

func newTermViews(set ontology.TermSet) []termView {
	terms := set.Terms()
	out := make([]termView, 0, len(terms))
	for _, t := range terms {
		out = append(out, newTermView(t))
	}
	return out
}

// printJSON writes v as indented JSON followed by a newline.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatTerm renders "ACC  name", marking obsolete terms.
func formatTerm(t ontology.Term) string {
	line := CmdStyle.Render(t.Accession())
	if name := t.PreferredName(); name != "" {
		line += "  " + name
	}
	if t.IsObsolete() {
		line += " " + WarningStyle.Render("(obsolete)")
	}
	return line
}

// printTermSet writes one term per line, in accession order.
func printTermSet(w io.Writer, set ontology.TermSet) {
	for _, t := range set.Terms() {
		fmt.Fprintln(w, formatTerm(t))
	}
}

// printTermList writes the terms as text or JSON depending on jsonOutput.
func printTermList(w io.Writer, set ontology.TermSet, jsonOutput bool) error {
	if jsonOutput {
		return printJSON(w, newTermViews(set))
	}
	printTermSet(w, set)
	return nil
}

// printStrings writes names as text lines or a JSON array.
func printStrings(w io.Writer, values []string, jsonOutput bool) error {
	if jsonOutput {
		if values == nil {
			values = []string{}
		}
		return printJSON(w, values)
	}
	if len(values) > 0 {
		fmt.Fprintln(w, strings.Join(values, "\n"))
	}
	return nil
}
