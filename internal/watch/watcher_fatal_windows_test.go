// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"fmt"
	"syscall"
	"testing"
)

func TestIsFatalFsnotifyError(t *testing.T) {
	t.Parallel()

	fatal := []error{errnoTooManyOpenFiles, errnoInvalidHandle, errnoNotEnoughMemory, fmt.Errorf("watch: %w", errnoInvalidHandle)}
	for _, err := range fatal {
		if !isFatalFsnotifyError(err) {
			t.Errorf("%v should be fatal", err)
		}
	}

	recoverable := []error{syscall.Errno(2), syscall.Errno(5), fmt.Errorf("queue overflow")}
	for _, err := range recoverable {
		if isFatalFsnotifyError(err) {
			t.Errorf("%v should not be fatal", err)
		}
	}
}
