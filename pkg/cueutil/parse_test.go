// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testSchema = `
#Entry: {
	id:    string & =~"^[A-Za-z]+$"
	count: int & >=0 | *0
}
`

type testEntry struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		data      string
		wantID    string
		wantCount int
		wantPath  string
	}{
		{name: "valid", data: `id: "MI", count: 3`, wantID: "MI", wantCount: 3},
		{name: "default applied", data: `id: "SO"`, wantID: "SO"},
		{name: "pattern violation", data: `id: "not valid!"`, wantPath: "id"},
		{name: "missing required field", data: `count: 1`, wantPath: "id"},
		{name: "negative count", data: `id: "X", count: -1`, wantPath: "count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := ParseAndDecode[testEntry]([]byte(testSchema), []byte(tt.data), "#Entry", WithFilename("entry.cue"))
			if tt.wantPath != "" {
				var cueErr *Error
				if !errors.As(err, &cueErr) {
					t.Fatalf("expected *Error, got %T: %v", err, err)
				}
				if cueErr.File != "entry.cue" {
					t.Errorf("File = %q", cueErr.File)
				}
				found := false
				for _, issue := range cueErr.Issues {
					if issue.Path == tt.wantPath {
						found = true
					}
				}
				if !found {
					t.Errorf("no issue at %q in %v", tt.wantPath, cueErr.Issues)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Value.ID != tt.wantID || result.Value.Count != tt.wantCount {
				t.Errorf("decoded %+v", *result.Value)
			}
		})
	}
}

func TestParseAndDecode_SyntaxError(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[testEntry]([]byte(testSchema), []byte(`id: "unterminated`), "#Entry")
	var cueErr *Error
	if !errors.As(err, &cueErr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if !strings.HasPrefix(err.Error(), "<input>") {
		t.Errorf("default filename missing: %v", err)
	}
}

func TestParseAndDecode_SchemaProblems(t *testing.T) {
	t.Parallel()

	if _, err := ParseAndDecode[testEntry]([]byte(`#Entry: {`), []byte(`id: "X"`), "#Entry"); err == nil ||
		!strings.Contains(err.Error(), "internal error") {
		t.Errorf("broken schema: %v", err)
	}
	if _, err := ParseAndDecode[testEntry]([]byte(testSchema), []byte(`id: "X"`), "#Missing"); err == nil ||
		!strings.Contains(err.Error(), "#Missing") {
		t.Errorf("missing definition: %v", err)
	}
}

func TestParseAndDecode_SizeLimit(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[testEntry]([]byte(testSchema), []byte(`id: "ABCDEFGH"`), "#Entry", WithMaxFileSize(4))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "entry.cue")
	if err := os.WriteFile(path, []byte(`id: "GO", count: 2`), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := ParseFile[testEntry]([]byte(testSchema), path, "#Entry")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if result.Value.ID != "GO" || result.Value.Count != 2 {
		t.Errorf("decoded %+v", *result.Value)
	}

	if _, err := ParseFile[testEntry]([]byte(testSchema), filepath.Join(dir, "missing.cue"), "#Entry"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}
	if _, err := ParseFile[testEntry]([]byte(testSchema), path, "#Entry", WithMaxFileSize(3)); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("oversized file: %v", err)
	}
}
