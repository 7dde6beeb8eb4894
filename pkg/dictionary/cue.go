// SPDX-License-Identifier: MPL-2.0

package dictionary

import (
	_ "embed"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/ontoreg/ontoreg/pkg/cueutil"
)

//go:embed dictionary_schema.cue
var dictionarySchema []byte

type (
	cueDictionary struct {
		Vocabulary  string    `json:"vocabulary,omitempty"`
		Description string    `json:"description,omitempty"`
		Terms       []cueTerm `json:"terms"`
	}

	cueTerm struct {
		ID            string            `json:"id"`
		Name          string            `json:"name,omitempty"`
		Synonyms      []string          `json:"synonyms,omitempty"`
		Parents       []string          `json:"parents,omitempty"`
		Relationships []cueRelationship `json:"relationships,omitempty"`
		Obsolete      bool              `json:"obsolete,omitempty"`
		Def           string            `json:"def,omitempty"`
	}

	cueRelationship struct {
		Type   string `json:"type"`
		Target string `json:"target"`
	}
)

func decodeCUE(r io.Reader, path string, relations []string) ([]record, []Diagnostic, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	parsed, err := cueutil.ParseAndDecode[cueDictionary](dictionarySchema, data, "#Dictionary", cueutil.WithFilename(path))
	if err != nil {
		return nil, nil, err
	}

	var diags []Diagnostic
	records := make([]record, 0, len(parsed.Value.Terms))
	for i, t := range parsed.Value.Terms {
		if strings.TrimSpace(t.ID) == "" {
			return nil, nil, fmt.Errorf("%w: %s: terms[%d] has an empty id", ErrMalformedRecord, path, i)
		}

		synonyms := make([]string, 0, len(t.Synonyms))
		for _, s := range t.Synonyms {
			if s == "" {
				diags = append(diags, Diagnostic{
					Severity: SeverityWarning,
					Code:     CodeEmptySynonym,
					Message:  fmt.Sprintf("empty synonym on %s ignored", t.ID),
					Path:     path,
				})
				continue
			}
			synonyms = append(synonyms, s)
		}

		parents := slices.Clone(t.Parents)
		for _, rel := range t.Relationships {
			if slices.Contains(relations, rel.Type) {
				parents = append(parents, rel.Target)
			}
		}

		records = append(records, record{
			ID:       t.ID,
			Name:     t.Name,
			Synonyms: synonyms,
			Parents:  parents,
			Obsolete: t.Obsolete,
			Path:     path,
		})
	}
	return records, diags, nil
}
