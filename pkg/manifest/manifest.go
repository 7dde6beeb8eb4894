// SPDX-License-Identifier: MPL-2.0

// Package manifest reads the list of vocabularies an ontology registry
// loads. A manifest names each vocabulary, the loader kind for its
// dictionary and the resource to read it from.
//
// Manifests may be written in CUE (validated against an embedded #Manifest
// schema), TOML or YAML; the format is chosen by file extension.
package manifest

import (
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ontoreg/ontoreg/pkg/dictionary"
)

var (
	// ErrInvalidVocabularyID is returned when an entry id is empty or malformed.
	ErrInvalidVocabularyID = errors.New("invalid vocabulary id")
	// ErrInvalidResource is returned when an entry has no resource.
	ErrInvalidResource = errors.New("invalid resource")
	// ErrDuplicateVocabulary is returned when two entries share an id.
	ErrDuplicateVocabulary = errors.New("duplicate vocabulary id")
	// ErrInvalidEntry is the sentinel error wrapped by InvalidEntryError.
	ErrInvalidEntry = errors.New("invalid manifest entry")
	// ErrInvalidManifest is the sentinel error wrapped by InvalidManifestError.
	ErrInvalidManifest = errors.New("invalid manifest")
	// ErrUnsupportedFormat is returned for a manifest file extension that has no reader.
	ErrUnsupportedFormat = errors.New("unsupported manifest format")

	vocabularyIDPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.-]*$`)
)

type (
	// VocabularyID identifies a vocabulary, e.g. "MI" or "MOD".
	VocabularyID string

	// InvalidVocabularyIDError is returned when a VocabularyID is malformed.
	// It wraps ErrInvalidVocabularyID for errors.Is() compatibility.
	InvalidVocabularyIDError struct {
		Value VocabularyID
	}

	// Entry declares one vocabulary.
	Entry struct {
		ID          VocabularyID    `json:"id" toml:"id" yaml:"id"`
		Loader      dictionary.Kind `json:"loader" toml:"loader" yaml:"loader"`
		Resource    string          `json:"resource" toml:"resource" yaml:"resource"`
		Description string          `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`
		// ParentRelations overrides the relationship types that become parent
		// edges. Nil selects dictionary.DefaultParentRelations.
		ParentRelations []string `json:"parent_relations,omitempty" toml:"parent_relations,omitempty" yaml:"parent_relations,omitempty"`
	}

	// InvalidEntryError is returned when an Entry has invalid fields.
	// It wraps ErrInvalidEntry for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidEntryError struct {
		ID          VocabularyID
		Index       int
		FieldErrors []error
	}

	// InvalidManifestError collects every problem found in a manifest.
	// It wraps ErrInvalidManifest for errors.Is() compatibility.
	InvalidManifestError struct {
		Path   string
		Errors []error
	}

	// Manifest is an ordered, validated list of vocabulary entries.
	Manifest struct {
		// Path is the manifest file, empty for manifests built in memory.
		Path string
		// Dir is the directory relative resources resolve against.
		Dir     string
		entries []Entry
	}
)

// String returns the id.
func (id VocabularyID) String() string { return string(id) }

// IsValid reports whether the id starts with a letter and contains only
// letters, digits, '_', '.' or '-'.
func (id VocabularyID) IsValid() (bool, []error) {
	if !vocabularyIDPattern.MatchString(string(id)) {
		return false, []error{&InvalidVocabularyIDError{Value: id}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidVocabularyIDError) Error() string {
	return fmt.Sprintf("invalid vocabulary id %q", string(e.Value))
}

// Unwrap returns ErrInvalidVocabularyID for errors.Is() compatibility.
func (e *InvalidVocabularyIDError) Unwrap() error { return ErrInvalidVocabularyID }

// IsValid returns whether the Entry has valid fields.
func (e Entry) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := e.ID.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if err := e.Loader.Validate(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(e.Resource) == "" {
		errs = append(errs, fmt.Errorf("%w: resource must not be empty", ErrInvalidResource))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidEntryError{ID: e.ID, FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidEntryError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("vocabularies[%d] (%s): %s", e.Index, e.ID, strings.Join(msgs, "; "))
}

// Unwrap returns the sentinel and the field errors so errors.Is matches
// either ErrInvalidEntry or a specific field sentinel.
func (e *InvalidEntryError) Unwrap() []error {
	return append([]error{ErrInvalidEntry}, e.FieldErrors...)
}

// Error implements the error interface.
func (e *InvalidManifestError) Error() string {
	where := e.Path
	if where == "" {
		where = "manifest"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("%s: %v", where, e.Errors[0])
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%s: %d problems:\n  %s", where, len(e.Errors), strings.Join(msgs, "\n  "))
}

// Unwrap exposes ErrInvalidManifest and each collected error.
func (e *InvalidManifestError) Unwrap() []error {
	return append([]error{ErrInvalidManifest}, e.Errors...)
}

// New validates entries and returns a manifest whose relative resources
// resolve against dir.
func New(dir string, entries ...Entry) (*Manifest, error) {
	m := &Manifest{Dir: dir, entries: entries}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// All iterates over (id, entry) pairs in declaration order.
func (m *Manifest) All() iter.Seq2[string, Entry] {
	return func(yield func(string, Entry) bool) {
		for _, e := range m.entries {
			if !yield(string(e.ID), e) {
				return
			}
		}
	}
}

// Entries returns a copy of the entries in declaration order.
func (m *Manifest) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of entries.
func (m *Manifest) Len() int { return len(m.entries) }

// Lookup returns the entry with the given id.
func (m *Manifest) Lookup(id string) (Entry, bool) {
	for _, e := range m.entries {
		if string(e.ID) == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Source converts an entry into the dictionary source the loader reads.
func (m *Manifest) Source(e Entry) dictionary.Source {
	return dictionary.Source{
		Vocabulary:      string(e.ID),
		Kind:            e.Loader,
		Resource:        e.Resource,
		BaseDir:         m.Dir,
		ParentRelations: e.ParentRelations,
	}
}

// Files returns the resource patterns of every entry resolved against Dir,
// plus the manifest itself. Watchers use it to decide what to observe.
func (m *Manifest) Files() []string {
	var out []string
	if m.Path != "" {
		out = append(out, m.Path)
	}
	for _, e := range m.entries {
		if filepath.IsAbs(e.Resource) {
			out = append(out, e.Resource)
			continue
		}
		out = append(out, filepath.Join(m.Dir, e.Resource))
	}
	return out
}

func (m *Manifest) validate() error {
	var errs []error
	seen := make(map[VocabularyID]int, len(m.entries))
	for i, e := range m.entries {
		if valid, entryErrs := e.IsValid(); !valid {
			for _, err := range entryErrs {
				var entryErr *InvalidEntryError
				if errors.As(err, &entryErr) {
					entryErr.Index = i
				}
				errs = append(errs, err)
			}
		}
		if first, dup := seen[e.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: %q at vocabularies[%d] and vocabularies[%d]", ErrDuplicateVocabulary, string(e.ID), first, i))
			continue
		}
		seen[e.ID] = i
	}
	if len(errs) > 0 {
		return &InvalidManifestError{Path: m.Path, Errors: errs}
	}
	return nil
}
