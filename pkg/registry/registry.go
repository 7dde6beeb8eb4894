// SPDX-License-Identifier: MPL-2.0

// Package registry loads every vocabulary a manifest declares and serves
// their query surfaces by identifier.
//
// A Registry is built once, sequentially, and is immutable afterwards.
// There is no global instance: callers construct one and pass it around,
// or keep one in a Holder when explicit reloads are needed.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/exp/maps"

	"github.com/ontoreg/ontoreg/pkg/dictionary"
	"github.com/ontoreg/ontoreg/pkg/manifest"
	"github.com/ontoreg/ontoreg/pkg/ontology"
)

const (
	// PolicyFailFast aborts construction at the first vocabulary that fails to load.
	PolicyFailFast LoadPolicy = "fail_fast"
	// PolicySkip records failed vocabularies and keeps loading the rest.
	// Access for a failed vocabulary returns a NotFoundError carrying the LoadError.
	PolicySkip LoadPolicy = "skip"
)

var (
	// ErrVocabularyNotFound is returned by Access for an identifier without a loaded vocabulary.
	ErrVocabularyNotFound = errors.New("vocabulary not found")
	// ErrInvalidLoadPolicy is returned when a LoadPolicy value is not recognized.
	ErrInvalidLoadPolicy = errors.New("invalid load policy")
)

type (
	// LoadPolicy decides what happens when one vocabulary fails to load.
	LoadPolicy string

	// InvalidLoadPolicyError is returned when a LoadPolicy value is not recognized.
	// It wraps ErrInvalidLoadPolicy for errors.Is() compatibility.
	InvalidLoadPolicyError struct {
		Value LoadPolicy
	}

	// NotFoundError is returned by Access when no vocabulary is loaded under ID.
	NotFoundError struct {
		ID string
		// Known lists the identifiers that are loaded.
		Known []string
		// LoadErr is set when ID was declared but failed to load.
		LoadErr error
	}

	// Option configures New.
	Option func(*options)

	options struct {
		policy LoadPolicy
		logger *slog.Logger
	}

	// Registry maps vocabulary identifiers to loaded ontologies.
	// It is immutable and safe for concurrent use.
	Registry struct {
		manifest    *manifest.Manifest
		order       []string
		vocabs      map[string]*vocabulary
		failures    map[string]*dictionary.LoadError
		policy      LoadPolicy
		constructed time.Time
	}

	vocabulary struct {
		entry  manifest.Entry
		access *ontology.Access
		result *dictionary.Result
	}

	// Summary describes one declared vocabulary.
	Summary struct {
		ID          string          `json:"id"`
		Loader      dictionary.Kind `json:"loader"`
		Resource    string          `json:"resource"`
		Description string          `json:"description,omitempty"`
		Loaded      bool            `json:"loaded"`
		Stats       ontology.Stats  `json:"stats"`
		Files       []string        `json:"files,omitempty"`
		Warnings    int             `json:"warnings"`
		Error       string          `json:"error,omitempty"`
	}
)

// LoadPolicies returns the supported policies.
func LoadPolicies() []LoadPolicy {
	return []LoadPolicy{PolicyFailFast, PolicySkip}
}

// IsValid reports whether p is a supported policy.
func (p LoadPolicy) IsValid() (bool, []error) {
	switch p {
	case PolicyFailFast, PolicySkip:
		return true, nil
	default:
		return false, []error{&InvalidLoadPolicyError{Value: p}}
	}
}

// String returns the policy name.
func (p LoadPolicy) String() string { return string(p) }

// Error implements the error interface.
func (e *InvalidLoadPolicyError) Error() string {
	return fmt.Sprintf("invalid load policy %q (valid: fail_fast, skip)", string(e.Value))
}

// Unwrap returns ErrInvalidLoadPolicy for errors.Is() compatibility.
func (e *InvalidLoadPolicyError) Unwrap() error { return ErrInvalidLoadPolicy }

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.LoadErr != nil {
		return fmt.Sprintf("vocabulary %q not available: %v", e.ID, e.LoadErr)
	}
	return fmt.Sprintf("vocabulary %q not found", e.ID)
}

// Unwrap exposes ErrVocabularyNotFound and, when present, the load error.
func (e *NotFoundError) Unwrap() []error {
	if e.LoadErr != nil {
		return []error{ErrVocabularyNotFound, e.LoadErr}
	}
	return []error{ErrVocabularyNotFound}
}

// WithLoadPolicy sets the failure policy. The default is PolicyFailFast.
func WithLoadPolicy(p LoadPolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithLogger sets the logger used while loading. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New loads every vocabulary declared in m, in declaration order.
//
// Under PolicyFailFast the first failure is returned as *dictionary.LoadError
// and no Registry is produced. Under PolicySkip failures are recorded and
// reported through Failures and Access. ctx is checked between vocabularies;
// an individual dictionary load runs to completion.
func New(ctx context.Context, m *manifest.Manifest, opts ...Option) (*Registry, error) {
	o := options{policy: PolicyFailFast, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if valid, errs := o.policy.IsValid(); !valid {
		return nil, errs[0]
	}

	r := &Registry{
		manifest: m,
		vocabs:   make(map[string]*vocabulary, m.Len()),
		failures: make(map[string]*dictionary.LoadError),
		policy:   o.policy,
	}

	for id, entry := range m.All() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("registry construction interrupted before %q: %w", id, err)
		}
		r.order = append(r.order, id)

		started := time.Now()
		result, err := dictionary.Load(ctx, m.Source(entry))
		if err != nil {
			loadErr := asLoadError(err, entry)
			o.logger.Error("vocabulary failed to load",
				"vocabulary", id, "loader", entry.Loader, "resource", entry.Resource, "error", loadErr.Cause)
			if r.policy == PolicyFailFast {
				return nil, loadErr
			}
			r.failures[id] = loadErr
			continue
		}

		for _, d := range result.Diagnostics {
			if d.Severity == dictionary.SeverityWarning {
				o.logger.Warn(d.Message, "vocabulary", id, "code", d.Code, "path", d.Path, "line", d.Line)
			} else {
				o.logger.Debug(d.Message, "vocabulary", id, "code", d.Code, "path", d.Path, "line", d.Line)
			}
		}
		o.logger.Info("vocabulary loaded",
			"vocabulary", id,
			"terms", result.Graph.Len(),
			"edges", result.Graph.EdgeCount(),
			"files", len(result.Files),
			"duration", time.Since(started).Round(time.Millisecond))

		r.vocabs[id] = &vocabulary{
			entry:  entry,
			access: ontology.NewAccess(result.Graph),
			result: result,
		}
	}

	r.constructed = time.Now()
	return r, nil
}

// FromFile loads the manifest at path and builds a Registry from it.
func FromFile(ctx context.Context, path string, opts ...Option) (*Registry, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	return New(ctx, m, opts...)
}

// Access returns the query surface of the vocabulary id.
func (r *Registry) Access(id string) (*ontology.Access, error) {
	if v, ok := r.vocabs[id]; ok {
		return v.access, nil
	}
	notFound := &NotFoundError{ID: id, Known: r.IDs()}
	if loadErr, failed := r.failures[id]; failed {
		notFound.LoadErr = loadErr
	}
	return nil, notFound
}

// IDs returns the identifiers of the loaded vocabularies, sorted.
func (r *Registry) IDs() []string {
	return slices.Sorted(maps.Keys(r.vocabs))
}

// Len returns the number of loaded vocabularies.
func (r *Registry) Len() int { return len(r.vocabs) }

// Failures returns the load errors recorded under PolicySkip, keyed by id.
func (r *Registry) Failures() map[string]*dictionary.LoadError {
	out := make(map[string]*dictionary.LoadError, len(r.failures))
	maps.Copy(out, r.failures)
	return out
}

// Diagnostics returns the load diagnostics of the vocabulary id.
func (r *Registry) Diagnostics(id string) ([]dictionary.Diagnostic, error) {
	v, ok := r.vocabs[id]
	if !ok {
		_, err := r.Access(id)
		return nil, err
	}
	return slices.Clone(v.result.Diagnostics), nil
}

// Manifest returns the manifest the registry was built from.
func (r *Registry) Manifest() *manifest.Manifest { return r.manifest }

// Policy returns the load policy used at construction.
func (r *Registry) Policy() LoadPolicy { return r.policy }

// Constructed returns when construction finished.
func (r *Registry) Constructed() time.Time { return r.constructed }

// Summaries describes every declared vocabulary in manifest order,
// including failed ones.
func (r *Registry) Summaries() []Summary {
	out := make([]Summary, 0, len(r.order))
	for _, id := range r.order {
		entry, _ := r.manifest.Lookup(id)
		s := Summary{
			ID:          id,
			Loader:      entry.Loader,
			Resource:    entry.Resource,
			Description: entry.Description,
		}
		if v, ok := r.vocabs[id]; ok {
			s.Loaded = true
			s.Stats = v.access.Stats()
			s.Files = slices.Clone(v.result.Files)
			s.Warnings = v.result.WarningCount()
		} else if loadErr, failed := r.failures[id]; failed {
			s.Error = loadErr.Cause.Error()
		}
		out = append(out, s)
	}
	return out
}

func asLoadError(err error, entry manifest.Entry) *dictionary.LoadError {
	var loadErr *dictionary.LoadError
	if errors.As(err, &loadErr) {
		return loadErr
	}
	return &dictionary.LoadError{
		Vocabulary: string(entry.ID),
		Kind:       entry.Loader,
		Resource:   entry.Resource,
		Cause:      err,
	}
}
