// SPDX-License-Identifier: MPL-2.0

package dictionary

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ontoreg/ontoreg/pkg/ontology"
)

type (
	// record is the loader-independent form of one term definition.
	record struct {
		ID       string
		Name     string
		Synonyms []string
		Parents  []string
		Obsolete bool
		Path     string
		Line     int
	}

	// decodeFunc reads one file into records plus any diagnostics.
	decodeFunc func(r io.Reader, path string, relations []string) ([]record, []Diagnostic, error)

	loader struct {
		src     Source
		builder *ontology.Builder
		result  *Result
	}
)

var decoders = map[Kind]decodeFunc{
	KindOBO: decodeOBO,
	KindCUE: decodeCUE,
}

// Load reads the dictionary described by src.
//
// The context is checked before each file is opened; a single file is always
// read to completion. Every failure is returned as *LoadError.
func Load(ctx context.Context, src Source) (*Result, error) {
	fail := func(cause error) (*Result, error) {
		return nil, &LoadError{Vocabulary: src.Vocabulary, Kind: src.Kind, Resource: src.Resource, Cause: cause}
	}

	if err := src.Kind.Validate(); err != nil {
		return fail(err)
	}
	decode := decoders[src.Kind]

	files, err := ResolveResource(src.BaseDir, src.Resource)
	if err != nil {
		return fail(err)
	}

	l := &loader{
		src:     src,
		builder: ontology.NewBuilder(src.Vocabulary),
		result:  &Result{Files: files},
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		records, diags, err := readFile(path, decode, src.parentRelations())
		if err != nil {
			return fail(err)
		}
		l.result.Diagnostics = append(l.result.Diagnostics, diags...)
		l.addRecords(records)
	}

	l.result.Placeholders = l.builder.Placeholders()
	for _, acc := range l.result.Placeholders {
		l.diag(SeverityWarning, CodePlaceholderParent, "", 0,
			fmt.Sprintf("parent %s is referenced but never defined; added as placeholder", acc))
	}

	graph := l.builder.Build()
	if members := graph.CycleMembers(); len(members) > 0 {
		l.diag(SeverityWarning, CodeCycleDetected, "", 0,
			fmt.Sprintf("parent cycle involving %d terms: %s", len(members), summarize(members, 10)))
	}
	l.result.Graph = graph
	return l.result, nil
}

// ResolveResource expands resource against baseDir into a sorted list of
// absolute file paths. A resource with glob metacharacters must match at
// least one file; a plain path must exist.
func ResolveResource(baseDir, resource string) ([]string, error) {
	if strings.TrimSpace(resource) == "" {
		return nil, fmt.Errorf("%w: empty resource", ErrResourceNotFound)
	}
	pattern := resource
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(baseDir, pattern)
	}

	if !hasMeta(resource) {
		info, err := os.Stat(pattern)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, pattern)
			}
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", ErrResourceNotFound, pattern)
		}
		abs, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}
		return []string{abs}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid resource pattern %q: %w", resource, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no files match %s", ErrResourceNotFound, pattern)
	}
	for i, m := range matches {
		abs, err := filepath.Abs(m)
		if err != nil {
			return nil, err
		}
		matches[i] = abs
	}
	slices.Sort(matches)
	return matches, nil
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func readFile(path string, decode decodeFunc, relations []string) (records []record, diags []Diagnostic, err error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrResourceNotFound, path)
		}
		return nil, nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, gzErr := gzip.NewReader(f)
		if gzErr != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, gzErr)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	return decode(r, path, relations)
}

func (l *loader) addRecords(records []record) {
	for _, rec := range records {
		opts := []ontology.TermOption{ontology.WithSynonyms(rec.Synonyms...)}
		if rec.Obsolete {
			opts = append(opts, ontology.Obsolete())
		}
		if l.builder.AddTerm(ontology.NewTerm(rec.ID, rec.Name, opts...)) {
			l.diag(SeverityWarning, CodeDuplicateTerm, rec.Path, rec.Line,
				fmt.Sprintf("term %s is defined more than once; definitions merged", rec.ID))
		}

		for _, parent := range rec.Parents {
			if parent == rec.ID {
				l.diag(SeverityWarning, CodeSelfParent, rec.Path, rec.Line,
					fmt.Sprintf("term %s lists itself as parent; edge dropped", rec.ID))
				continue
			}
			l.builder.AddParent(rec.ID, parent)
		}
	}
}

func (l *loader) diag(sev Severity, code, path string, line int, msg string) {
	l.result.Diagnostics = append(l.result.Diagnostics, Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Path:     path,
		Line:     line,
	})
}

func summarize(items []string, limit int) string {
	if len(items) <= limit {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s, ... (%d more)", strings.Join(items[:limit], ", "), len(items)-limit)
}
