// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// OBOTerm describes one [Term] stanza for OBO.
type OBOTerm struct {
	ID       string
	Name     string
	Synonyms []string
	IsA      []string
	PartOf   []string
	Obsolete bool
}

// MustSetenv sets the environment variable key to value for the duration of
// the test. Tests using it must not call t.Parallel.
func MustSetenv(t testing.TB, key, value string) {
	t.Helper()
	originalValue, hadValue := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadValue {
			if err := os.Setenv(key, originalValue); err != nil {
				t.Errorf("failed to restore env %s: %v", key, err)
			}
			return
		}
		if err := os.Unsetenv(key); err != nil {
			t.Errorf("failed to unset env %s: %v", key, err)
		}
	})
}

// MustMkdirAll creates a directory along with any necessary parents.
// The test fails immediately if the operation fails.
func MustMkdirAll(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// MustWriteFile writes content to dir/name, creating parent directories,
// and returns the full path.
func MustWriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	MustMkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// MustGzipFile writes content gzip-compressed to dir/name and returns the
// full path.
func MustGzipFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	MustMkdirAll(t, filepath.Dir(path))

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(content)); err != nil {
		t.Fatalf("failed to compress %s: %v", path, err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("failed to finish %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close %s: %v", path, err)
	}
	return path
}

// OBO renders terms as an OBO 1.2 document.
func OBO(terms ...OBOTerm) string {
	var sb strings.Builder
	sb.WriteString("format-version: 1.2\n")
	for _, term := range terms {
		sb.WriteString("\n[Term]\n")
		fmt.Fprintf(&sb, "id: %s\n", term.ID)
		if term.Name != "" {
			fmt.Fprintf(&sb, "name: %s\n", term.Name)
		}
		for _, s := range term.Synonyms {
			fmt.Fprintf(&sb, "synonym: %q EXACT []\n", s)
		}
		for _, p := range term.IsA {
			fmt.Fprintf(&sb, "is_a: %s\n", p)
		}
		for _, p := range term.PartOf {
			fmt.Fprintf(&sb, "relationship: part_of %s\n", p)
		}
		if term.Obsolete {
			sb.WriteString("is_obsolete: true\n")
		}
	}
	return sb.String()
}

// Chain returns n OBO terms PREFIX:0 .. PREFIX:n-1 where each term is_a
// its predecessor.
func Chain(prefix string, n int) []OBOTerm {
	terms := make([]OBOTerm, n)
	for i := range n {
		terms[i] = OBOTerm{ID: fmt.Sprintf("%s:%d", prefix, i), Name: fmt.Sprintf("node %d", i)}
		if i > 0 {
			terms[i].IsA = []string{fmt.Sprintf("%s:%d", prefix, i-1)}
		}
	}
	return terms
}
