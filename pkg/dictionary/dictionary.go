// SPDX-License-Identifier: MPL-2.0

// Package dictionary loads one vocabulary's term dictionary into an
// ontology.Graph.
//
// A load is a one-shot batch: it reads every file the Source resolves to,
// builds the graph and returns it with the diagnostics collected on the way.
// Anomalies that still leave a consistent graph (unknown parents, duplicate
// stanzas, self references, cycles) are diagnostics. Anything else fails the
// load with a *LoadError.
package dictionary

import (
	"errors"
	"fmt"

	"github.com/ontoreg/ontoreg/pkg/ontology"
)

const (
	// KindOBO reads OBO 1.2 flat files, gunzipping files that end in ".gz".
	KindOBO Kind = "obo"
	// KindCUE reads CUE term dictionaries validated against #Dictionary.
	KindCUE Kind = "cue"

	// SeverityWarning marks a recoverable anomaly.
	SeverityWarning Severity = "warning"
	// SeverityInfo marks an observation that needs no action.
	SeverityInfo Severity = "info"
)

// Diagnostic codes.
const (
	CodePlaceholderParent = "placeholder_parent"
	CodeDuplicateTerm     = "duplicate_term"
	CodeSelfParent        = "self_parent"
	CodeCycleDetected     = "cycle_detected"
	CodeEmptySynonym      = "empty_synonym"
	CodeUnterminatedQuote = "unterminated_quote"
	CodeMissingName       = "missing_name"
)

var (
	// ErrResourceNotFound is returned when a resource names no existing file.
	ErrResourceNotFound = errors.New("dictionary resource not found")
	// ErrMalformedRecord is returned when a record cannot be assigned an accession.
	ErrMalformedRecord = errors.New("malformed dictionary record")
	// ErrUnknownKind is returned for a loader kind outside the supported set.
	ErrUnknownKind = errors.New("unknown dictionary kind")

	// DefaultParentRelations are the OBO relationship types that create
	// parent edges when a Source does not name its own.
	DefaultParentRelations = []string{"is_a", "part_of"}
)

type (
	// Kind selects the loader strategy for a dictionary.
	Kind string

	// Severity represents diagnostic severity.
	Severity string

	// Source describes where one vocabulary's dictionary lives.
	Source struct {
		// Vocabulary is the identifier the graph is built for (e.g. "MI").
		Vocabulary string
		// Kind selects the loader.
		Kind Kind
		// Resource is a file path or doublestar glob. Relative values resolve
		// against BaseDir.
		Resource string
		// BaseDir is usually the directory holding the manifest.
		BaseDir string
		// ParentRelations lists the relationship types that become parent
		// edges in addition to is_a. Nil means DefaultParentRelations.
		ParentRelations []string
	}

	// Result is a successfully loaded dictionary.
	Result struct {
		Graph *ontology.Graph
		// Files are the absolute paths read, in load order.
		Files []string
		// Diagnostics are non-fatal anomalies found while loading.
		Diagnostics []Diagnostic
		// Placeholders are accessions referenced as parents but never defined.
		Placeholders []string
	}

	// Diagnostic is a structured, non-fatal load anomaly.
	Diagnostic struct {
		// Severity is the diagnostic level.
		Severity Severity
		// Code is a machine-readable identifier (e.g., "placeholder_parent").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the file the anomaly was found in (optional).
		Path string
		// Line is the 1-based line number, or 0 when unknown.
		Line int
	}

	// LoadError describes a failed dictionary load.
	LoadError struct {
		Vocabulary string
		Kind       Kind
		Resource   string
		// Cause is the underlying error.
		Cause error
	}
)

// Kinds returns the supported loader kinds.
func Kinds() []Kind {
	return []Kind{KindOBO, KindCUE}
}

// String returns the kind name.
func (k Kind) String() string { return string(k) }

// Validate returns ErrUnknownKind wrapped with the offending value when k is
// not a supported kind.
func (k Kind) Validate() error {
	switch k {
	case KindOBO, KindCUE:
		return nil
	default:
		return fmt.Errorf("%w: %q (supported: obo, cue)", ErrUnknownKind, string(k))
	}
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load vocabulary %q (%s loader, %s): %v", e.Vocabulary, e.Kind, e.Resource, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error { return e.Cause }

// String renders the diagnostic as "path:line: [code] message".
func (d Diagnostic) String() string {
	loc := d.Path
	if loc != "" && d.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, d.Line)
	}
	if loc == "" {
		return fmt.Sprintf("[%s] %s", d.Code, d.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", loc, d.Code, d.Message)
}

// WarningCount returns the number of warning-level diagnostics.
func (r *Result) WarningCount() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

func (s Source) parentRelations() []string {
	if s.ParentRelations == nil {
		return DefaultParentRelations
	}
	return s.ParentRelations
}
