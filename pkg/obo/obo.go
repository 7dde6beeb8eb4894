// SPDX-License-Identifier: MPL-2.0

// Package obo reads OBO 1.2 flat files into term records.
//
// Only [Term] stanzas are decoded; other stanza types are counted and
// skipped. Trailing "!" comments, trailing "{...}" qualifier blocks and
// backslash escapes are handled as the format describes. Recoverable
// anomalies are returned as Warnings; only a term stanza without an id
// tag fails the parse.
package obo

import (
	"errors"
	"fmt"
)

// Warning codes.
const (
	CodeEmptySynonym      = "empty_synonym"
	CodeUnterminatedQuote = "unterminated_quote"
	CodeMissingName       = "missing_name"
)

// ErrMissingID is returned when a [Term] stanza has no id tag.
var ErrMissingID = errors.New("term stanza has no id")

type (
	// Document is the decoded content of one OBO file.
	Document struct {
		// Header holds the tag-value pairs preceding the first stanza.
		Header map[string][]string
		// Terms are the [Term] stanzas in file order.
		Terms []Record
		// Skipped counts stanzas of other types ([Typedef], [Instance]).
		Skipped int
		// Warnings lists recoverable problems.
		Warnings []Warning
	}

	// Record is one [Term] stanza.
	Record struct {
		ID            string
		Name          string
		Namespace     string
		Def           string
		Synonyms      []Synonym
		IsA           []string
		Relationships []Relationship
		Obsolete      bool
		// Line is the line number of the stanza header.
		Line int
	}

	// Synonym is a synonym tag value.
	Synonym struct {
		Text string
		// Scope is EXACT, NARROW, BROAD or RELATED. Untyped synonyms are RELATED.
		Scope string
	}

	// Relationship is a typed link from a term to another accession.
	Relationship struct {
		Type   string
		Target string
	}

	// Warning is a recoverable problem found while parsing.
	Warning struct {
		Line    int
		Code    string
		Message string
	}

	// SyntaxError reports the line at which parsing failed.
	SyntaxError struct {
		Line int
		Err  error
	}
)

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// FormatVersion returns the declared format-version header, if any.
func (d *Document) FormatVersion() string {
	if v := d.Header["format-version"]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// Parents returns the accessions this record names as parents: every is_a
// target plus the targets of relationships whose type is in relations.
func (r *Record) Parents(relations []string) []string {
	out := make([]string, 0, len(r.IsA)+len(r.Relationships))
	out = append(out, r.IsA...)
	for _, rel := range r.Relationships {
		for _, allowed := range relations {
			if rel.Type == allowed {
				out = append(out, rel.Target)
				break
			}
		}
	}
	return out
}

// SynonymTexts returns the synonym strings without their scopes.
func (r *Record) SynonymTexts() []string {
	out := make([]string, 0, len(r.Synonyms))
	for _, s := range r.Synonyms {
		out = append(out, s.Text)
	}
	return out
}
