// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	VocabularyNotFoundId
	DictionaryLoadFailedId
	ConfigLoadFailedId
	TermNotFoundId
)

type (
	// Id identifies an entry of the issue catalog.
	Id int

	// MarkdownMsg is the Markdown body of an issue page.
	MarkdownMsg string

	// HttpLink is a documentation link.
	HttpLink string

	// Issue is a catalog page explaining a class of failure and how to fix it.
	Issue struct {
		id       Id
		title    string
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id:    ManifestNotFoundId,
		title: "manifest not found",
		mdMsg: `
# No ontology manifest found!

The registry needs a manifest listing the vocabularies to load.

## Search order
1. The ` + "`--manifest`" + ` flag
2. The ` + "`manifest`" + ` key of your config file (or ` + "`ONTOREG_MANIFEST`" + `)
3. ` + "`ontologies.cue`, `ontologies.toml`, `ontologies.yaml`" + ` in the current directory

## Example manifest
~~~cue
vocabularies: [
	{id: "MI", loader: "obo", resource: "data/psi-mi.obo"},
	{id: "SO", loader: "obo", resource: "data/so/*.obo", parent_relations: ["is_a"]},
]
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	manifestParseErrorIssue = &Issue{
		id:    ManifestParseErrorId,
		title: "manifest parse error",
		mdMsg: `
# The ontology manifest is invalid!

Every entry needs an ` + "`id`" + `, a ` + "`loader`" + ` (` + "`obo`" + ` or ` + "`cue`" + `) and a ` + "`resource`" + `.
Identifiers must be unique and start with a letter.

## Things you can try
- Check the field path printed with the error
- Validate a CUE manifest directly:
~~~
$ cue vet ontologies.cue
~~~`,
	}

	vocabularyNotFoundIssue = &Issue{
		id:    VocabularyNotFoundId,
		title: "vocabulary not found",
		mdMsg: `
# Vocabulary not found!

The identifier is not declared in the manifest, or its dictionary failed to
load while the registry was running with ` + "`load_policy: \"skip\"`" + `.

## Things you can try
- List what is loaded:
~~~
$ ontoreg vocab list
~~~
- Identifiers are case-sensitive (` + "`MI`" + ` is not ` + "`mi`" + `)`,
	}

	dictionaryLoadFailedIssue = &Issue{
		id:    DictionaryLoadFailedId,
		title: "dictionary load failed",
		mdMsg: `
# A dictionary failed to load!

The registry could not read one vocabulary's dictionary. Loading stops at the
first failure unless ` + "`load_policy`" + ` is set to ` + "`skip`" + `.

## Common causes
- The resource path or glob matches no file (paths are relative to the manifest)
- A ` + "`[Term]`" + ` stanza has no ` + "`id:`" + ` line
- A CUE dictionary does not match the ` + "`#Dictionary`" + ` schema
- A ` + "`.gz`" + ` file is not valid gzip`,
		extLinks: []HttpLink{"https://owlcollab.github.io/oboformat/doc/GO.format.obo-1_2.html"},
	}

	configLoadFailedIssue = &Issue{
		id:    ConfigLoadFailedId,
		title: "config load failed",
		mdMsg: `
# Failed to load configuration!

## Things you can try
- Show where the config file is expected:
~~~
$ ontoreg config path
~~~
- Print a complete default configuration to start from:
~~~
$ ontoreg config dump > config.cue
~~~`,
	}

	termNotFoundIssue = &Issue{
		id:    TermNotFoundId,
		title: "term not found",
		mdMsg: `
# Term not found!

No term with that accession exists in the vocabulary. Accessions include the
prefix and are case-sensitive, e.g. ` + "`MI:0018`" + `.

## Things you can try
- Browse from a root term:
~~~
$ ontoreg children MI MI:0000
~~~`,
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():     manifestNotFoundIssue,
		manifestParseErrorIssue.Id():   manifestParseErrorIssue,
		vocabularyNotFoundIssue.Id():   vocabularyNotFoundIssue,
		dictionaryLoadFailedIssue.Id(): dictionaryLoadFailedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		termNotFoundIssue.Id():         termNotFoundIssue,
	}
)

// Id returns the catalog identifier.
func (i *Issue) Id() Id { return i.id }

// Title returns a short lower-case title.
func (i *Issue) Title() string { return i.title }

// MarkdownMsg returns the page body.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// DocLinks returns the documentation links.
func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// ExtLinks returns external reference links.
func (i *Issue) ExtLinks() []HttpLink { return slices.Clone(i.extLinks) }

// Render renders the page with glamour using the given style ("dark",
// "light", "notty" or a style file path).
func (i *Issue) Render(stylePath string) (string, error) {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range slices.Concat(i.docLinks, i.extLinks) {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(sb.String(), stylePath)
}

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := slices.Collect(maps.Values(issues))
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
