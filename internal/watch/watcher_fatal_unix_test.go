// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"fmt"
	"syscall"
	"testing"
)

func TestIsFatalFsnotifyError(t *testing.T) {
	t.Parallel()

	fatal := []error{syscall.ENOSPC, syscall.EMFILE, syscall.ENFILE, fmt.Errorf("inotify_add_watch: %w", syscall.ENOSPC)}
	for _, err := range fatal {
		if !isFatalFsnotifyError(err) {
			t.Errorf("%v should be fatal", err)
		}
	}

	recoverable := []error{syscall.EPERM, syscall.EACCES, syscall.ENOENT, fmt.Errorf("queue overflow")}
	for _, err := range recoverable {
		if isFatalFsnotifyError(err) {
			t.Errorf("%v should not be fatal", err)
		}
	}
}
