// SPDX-License-Identifier: MPL-2.0

package dictionary

import (
	"errors"
	"fmt"
	"io"

	"github.com/ontoreg/ontoreg/pkg/obo"
)

func decodeOBO(r io.Reader, path string, relations []string) ([]record, []Diagnostic, error) {
	doc, err := obo.Parse(r)
	if err != nil {
		var syntaxErr *obo.SyntaxError
		if errors.As(err, &syntaxErr) && errors.Is(err, obo.ErrMissingID) {
			return nil, nil, fmt.Errorf("%w: %s:%d: term stanza has no id", ErrMalformedRecord, path, syntaxErr.Line)
		}
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	diags := make([]Diagnostic, 0, len(doc.Warnings))
	for _, w := range doc.Warnings {
		diags = append(diags, Diagnostic{
			Severity: severityFor(w.Code),
			Code:     w.Code,
			Message:  w.Message,
			Path:     path,
			Line:     w.Line,
		})
	}

	records := make([]record, 0, len(doc.Terms))
	for i := range doc.Terms {
		t := &doc.Terms[i]
		records = append(records, record{
			ID:       t.ID,
			Name:     t.Name,
			Synonyms: t.SynonymTexts(),
			Parents:  t.Parents(relations),
			Obsolete: t.Obsolete,
			Path:     path,
			Line:     t.Line,
		})
	}
	return records, diags, nil
}

// severityFor maps parser warning codes onto diagnostic severities.
// A missing name is common in real dictionaries and only informational.
func severityFor(code string) Severity {
	if code == obo.CodeMissingName {
		return SeverityInfo
	}
	return SeverityWarning
}
