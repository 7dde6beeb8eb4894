// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/ontoreg/ontoreg/internal/issue"
)

// Process exit codes.
const (
	ExitFailure  = 1
	ExitSource   = 2
	ExitNotFound = 3
	ExitDegraded = 4
)

var errTermNotFound = errors.New("term not found")

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor maps a command error to the process exit code. An explicit
// ExitError wins; catalogued failures map by issue; anything else is 1.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		switch ae.IssueID {
		case issue.ManifestNotFoundId, issue.ManifestParseErrorId, issue.DictionaryLoadFailedId, issue.ConfigLoadFailedId:
			return ExitSource
		case issue.VocabularyNotFoundId, issue.TermNotFoundId:
			return ExitNotFound
		}
	}
	return ExitFailure
}
