// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ontoreg/ontoreg/pkg/ontology"
)

type (
	// hierarchyDirection selects which side of the graph a query walks.
	hierarchyDirection int

	// validFlagValues are the expansion switches shared by `valid` and `names`.
	validFlagValues struct {
		children        bool
		excludeObsolete bool
	}
)

const (
	hierarchyChildren hierarchyDirection = iota
	hierarchyParents
)

// newTermCommand creates `ontoreg term <vocabulary> <accession>`.
func newTermCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "term <vocabulary> <accession>",
		Short: "Show a term with its direct parents and children",
		Args:  cobra.ExactArgs(2),
		RunE: runE(app, func(cmd *cobra.Command, args []string) error {
			access, err := app.vocabulary(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			term, err := lookupTerm(access, args[1])
			if err != nil {
				return err
			}
			return showTerm(app.stdout, access, term, app.flags.jsonOutput)
		}),
	}
}

func showTerm(w io.Writer, access *ontology.Access, term ontology.Term, jsonOutput bool) error {
	parents := access.DirectParents(term)
	children := access.DirectChildren(term)

	if jsonOutput {
		return printJSON(w, termDetailView{
			termView:   newTermView(term),
			Vocabulary: access.Vocabulary(),
			Parents:    newTermViews(parents),
			Children:   newTermViews(children),
		})
	}

	fmt.Fprintln(w, formatTerm(term))
	if syns := term.Synonyms(); len(syns) > 0 {
		fmt.Fprintf(w, "%s: %s\n", SubtitleStyle.Render("synonyms"), strings.Join(syns, "; "))
	}
	for _, section := range []struct {
		title string
		set   ontology.TermSet
	}{
		{"parents", parents},
		{"children", children},
	} {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s (%d):\n", TitleStyle.Render(section.title), section.set.Len())
		for _, t := range section.set.Terms() {
			fmt.Fprintln(w, "  "+formatTerm(t))
		}
	}
	return nil
}

// newHierarchyCommand creates `ontoreg children` or `ontoreg parents`.
func newHierarchyCommand(app *App, dir hierarchyDirection) *cobra.Command {
	var all bool
	use, short := "children", "List the children of a term"
	if dir == hierarchyParents {
		use, short = "parents", "List the parents of a term"
	}

	cmd := &cobra.Command{
		Use:   use + " <vocabulary> <accession>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: runE(app, func(cmd *cobra.Command, args []string) error {
			access, err := app.vocabulary(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			term, err := lookupTerm(access, args[1])
			if err != nil {
				return err
			}
			return printTermList(app.stdout, hierarchy(access, term, dir, all), app.flags.jsonOutput)
		}),
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "follow the hierarchy transitively")
	return cmd
}

func hierarchy(access *ontology.Access, term ontology.Term, dir hierarchyDirection, all bool) ontology.TermSet {
	switch {
	case dir == hierarchyChildren && all:
		return access.AllChildren(term)
	case dir == hierarchyChildren:
		return access.DirectChildren(term)
	case all:
		return access.AllParents(term)
	default:
		return access.DirectParents(term)
	}
}

// newRootsCommand creates `ontoreg roots <vocabulary>`.
func newRootsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "roots <vocabulary>",
		Short: "List the terms that have no parents",
		Args:  cobra.ExactArgs(1),
		RunE: runE(app, func(cmd *cobra.Command, args []string) error {
			access, err := app.vocabulary(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printTermList(app.stdout, access.Roots(), app.flags.jsonOutput)
		}),
	}
}

// newValidCommand creates `ontoreg valid <vocabulary> <accession>`. An
// unknown accession yields an empty list rather than an error.
func newValidCommand(app *App) *cobra.Command {
	var flags validFlagValues
	cmd := &cobra.Command{
		Use:   "valid <vocabulary> <accession>",
		Short: "List the terms acceptable in place of an accession",
		Long: `List the terms acceptable in place of an accession: the term itself,
plus every descendant with --children, minus obsolete terms with
--exclude-obsolete. An unknown accession yields an empty list.`,
		Args: cobra.ExactArgs(2),
		RunE: runE(app, func(cmd *cobra.Command, args []string) error {
			access, err := app.vocabulary(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			set := access.ValidTerms(args[1], flags.children, flags.excludeObsolete)
			return printTermList(app.stdout, set, app.flags.jsonOutput)
		}),
	}
	flags.register(cmd)
	return cmd
}

// newNamesCommand creates `ontoreg names <vocabulary> <accession>`.
func newNamesCommand(app *App) *cobra.Command {
	var (
		flags    validFlagValues
		synonyms bool
	)
	cmd := &cobra.Command{
		Use:   "names <vocabulary> <accession>",
		Short: "List the names of the terms acceptable in place of an accession",
		Args:  cobra.ExactArgs(2),
		RunE: runE(app, func(cmd *cobra.Command, args []string) error {
			access, err := app.vocabulary(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			set := access.ValidTerms(args[1], flags.children, flags.excludeObsolete)
			names := ontology.PreferredNames(set)
			if synonyms {
				names = ontology.TermNames(set)
			}
			return printStrings(app.stdout, names, app.flags.jsonOutput)
		}),
	}
	flags.register(cmd)
	cmd.Flags().BoolVarP(&synonyms, "synonyms", "s", false, "include synonyms")
	return cmd
}

func (f *validFlagValues) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.children, "children", "c", false, "include every descendant")
	cmd.Flags().BoolVarP(&f.excludeObsolete, "exclude-obsolete", "x", false, "drop obsolete terms")
}
