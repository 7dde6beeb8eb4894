// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrFileTooLarge is returned when input exceeds the configured size limit.
var ErrFileTooLarge = errors.New("file too large")

type (
	// Error is a CUE compile or validation failure for one file.
	Error struct {
		// File is the file being decoded.
		File string
		// Issues lists each failing field, in the order CUE reported them.
		Issues []Issue
		// Err is the original error from the CUE API.
		Err error
	}

	// Issue is one field-level problem.
	Issue struct {
		// Path is the JSON-path style location (e.g. "vocabularies[0].id").
		// It is empty for file-level errors such as syntax errors.
		Path    string
		Message string
	}

	// SizeError reports input larger than the allowed maximum.
	SizeError struct {
		File string
		Size int64
		Max  int64
	}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("%s: %s", e.File, e.Issues[0])
	}
	lines := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		lines[i] = issue.String()
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.File, strings.Join(lines, "\n  "))
}

// Unwrap returns the underlying CUE error.
func (e *Error) Unwrap() error { return e.Err }

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%s: file size %d bytes exceeds maximum %d bytes", e.File, e.Size, e.Max)
}

// Unwrap returns ErrFileTooLarge.
func (e *SizeError) Unwrap() error { return ErrFileTooLarge }

// FormatError converts an error from the CUE API into *Error with one Issue
// per reported problem. Non-CUE errors are wrapped with the file path.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrs := cueerrors.Errors(err)
	if len(cueErrs) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	out := &Error{File: filePath, Err: err}
	for _, e := range cueErrs {
		pathStr := formatPath(cueerrors.Path(e))
		msg := e.Error()

		// CUE sometimes repeats the path at the start of the message.
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, pathStr), ":"))
		}
		out.Issues = append(out.Issues, Issue{Path: pathStr, Message: msg})
	}
	return out
}

// formatPath renders CUE's flat path (["vocabularies", "0", "id"]) in
// JSON-path notation ("vocabularies[0].id").
func formatPath(path []string) string {
	var sb strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			sb.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part)
	}
	return sb.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize returns *SizeError when data is longer than maxSize.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return &SizeError{File: filename, Size: int64(len(data)), Max: maxSize}
	}
	return nil
}
