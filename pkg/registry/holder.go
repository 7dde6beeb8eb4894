// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"sync"
	"sync/atomic"
)

// Holder keeps the current Registry and replaces it on explicit reload.
//
// Readers call Current and keep using the returned Registry for as long as
// they need a consistent view. Reload builds a complete replacement and
// swaps it in only when construction succeeds, so a failed reload leaves
// the previous Registry in place.
type Holder struct {
	current atomic.Pointer[Registry]
	// reloadMu serializes Reload calls.
	reloadMu sync.Mutex
	build    func(context.Context) (*Registry, error)
}

// NewHolder builds the initial Registry with build and returns a Holder
// that uses the same function for every reload.
func NewHolder(ctx context.Context, build func(context.Context) (*Registry, error)) (*Holder, error) {
	r, err := build(ctx)
	if err != nil {
		return nil, err
	}
	h := &Holder{build: build}
	h.current.Store(r)
	return h, nil
}

// FileHolder returns a Holder that re-reads the manifest at path on every reload.
func FileHolder(ctx context.Context, path string, opts ...Option) (*Holder, error) {
	return NewHolder(ctx, func(ctx context.Context) (*Registry, error) {
		return FromFile(ctx, path, opts...)
	})
}

// Current returns the active Registry.
func (h *Holder) Current() *Registry {
	return h.current.Load()
}

// Reload builds a new Registry and makes it current. On error the active
// Registry is unchanged and the error is returned.
func (h *Holder) Reload(ctx context.Context) (*Registry, error) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	r, err := h.build(ctx)
	if err != nil {
		return nil, err
	}
	h.current.Store(r)
	return r, nil
}
