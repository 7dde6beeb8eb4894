// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/ontoreg/ontoreg/pkg/registry"
)

type (
	// Reloader rebuilds a registry.Holder whenever a manifest or dictionary
	// file changes. A failed rebuild keeps the previous registry serving.
	Reloader struct {
		Holder   *registry.Holder
		Ignore   []string
		Debounce time.Duration
		Logger   *slog.Logger

		// OnReload, when set, observes every rebuild attempt. reg is nil when
		// err is non-nil.
		OnReload func(reg *registry.Registry, changed []string, err error)
	}
)

// Run watches the files of the current manifest until ctx is cancelled.
// When a reload changes the manifest's file set the watcher is recreated so
// newly declared resources are observed too.
func (r *Reloader) Run(ctx context.Context) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	for {
		patterns := r.Holder.Current().Manifest().Files()

		wctx, cancel := context.WithCancel(ctx)
		var restart atomic.Bool

		w, err := New(Config{
			Patterns: patterns,
			Ignore:   r.Ignore,
			Debounce: r.Debounce,
			Logger:   logger,
			OnChange: func(ctx context.Context, changed []string) error {
				reg, err := r.Holder.Reload(ctx)
				if r.OnReload != nil {
					r.OnReload(reg, changed, err)
				}
				if err != nil {
					return err
				}
				logger.Info("registry reloaded", "vocabularies", reg.Len(), "changed", len(changed))
				if !slices.Equal(reg.Manifest().Files(), patterns) {
					restart.Store(true)
					cancel()
				}
				return nil
			},
		})
		if err != nil {
			cancel()
			return err
		}

		logger.Debug("watching", "directories", w.Watched())
		err = w.Run(wctx)
		cancel()
		if err != nil {
			return err
		}
		if ctx.Err() != nil || !restart.Load() {
			return nil
		}
		logger.Info("manifest file set changed, re-registering watches")
	}
}
