// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ontoreg/ontoreg/pkg/cueutil"
)

const (
	// FormatCUE is a schema-validated CUE manifest.
	FormatCUE Format = "cue"
	// FormatTOML is a TOML manifest.
	FormatTOML Format = "toml"
	// FormatYAML is a YAML manifest.
	FormatYAML Format = "yaml"
)

//go:embed manifest_schema.cue
var manifestSchema []byte

// DefaultFileNames are the names searched, in order, when a directory is
// given instead of a manifest file.
var DefaultFileNames = []string{"ontologies.cue", "ontologies.toml", "ontologies.yaml", "ontologies.yml"}

type (
	// Format is a manifest file format.
	Format string

	// file is the on-disk shape shared by every format.
	file struct {
		Vocabularies []Entry `json:"vocabularies" toml:"vocabularies" yaml:"vocabularies"`
	}

	// ParseError is returned when a manifest cannot be decoded.
	ParseError struct {
		Path   string
		Format Format
		Err    error
	}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s manifest %s: %v", e.Format, e.Path, e.Err)
}

// Unwrap returns the decoding error.
func (e *ParseError) Unwrap() error { return e.Err }

// FormatFor selects the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return FormatCUE, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s (use .cue, .toml, .yaml or .yml)", ErrUnsupportedFormat, path)
	}
}

// Find resolves path to a manifest file. A directory is searched for the
// DefaultFileNames in order.
func Find(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return path, nil
	}
	for _, name := range DefaultFileNames {
		candidate := filepath.Join(path, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no manifest in %s (looked for %s): %w", path, strings.Join(DefaultFileNames, ", "), os.ErrNotExist)
}

// Load reads and validates the manifest at path. Relative resources resolve
// against the manifest's directory.
func Load(path string) (*Manifest, error) {
	path, err := Find(path)
	if err != nil {
		return nil, err
	}
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, format, abs)
}

// Parse decodes manifest data. path is used for error messages and to
// resolve relative resources; it may be empty for in-memory data.
func Parse(data []byte, format Format, path string) (*Manifest, error) {
	entries, err := decode(data, format, path)
	if err != nil {
		return nil, &ParseError{Path: path, Format: format, Err: err}
	}

	m := &Manifest{Path: path, entries: entries}
	if path != "" {
		m.Dir = filepath.Dir(path)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func decode(data []byte, format Format, path string) ([]Entry, error) {
	var f file
	switch format {
	case FormatCUE:
		name := path
		if name == "" {
			name = "manifest.cue"
		}
		result, err := cueutil.ParseAndDecode[file](manifestSchema, data, "#Manifest", cueutil.WithFilename(name))
		if err != nil {
			return nil, err
		}
		f = *result.Value
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, err
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document decodes as io.EOF and declares no vocabularies.
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
	return f.Vocabularies, nil
}
