// SPDX-License-Identifier: MPL-2.0

// Package watch rebuilds the ontology registry when its sources change.
//
// A Watcher observes the directories that hold the files matched by a set of
// absolute doublestar patterns and invokes a callback after a quiet period.
// Events inside the debounce window are coalesced so the callback fires once
// with every changed path. Reloader drives a registry.Holder with a Watcher.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce lets an editor's write-then-rename settle into one event batch.
const defaultDebounce = 500 * time.Millisecond

var (
	// ErrNoPatterns is returned by New when there is nothing to watch.
	ErrNoPatterns = errors.New("watch: no patterns")

	// defaultIgnores are editor and VCS artifacts that never trigger a reload.
	defaultIgnores = []string{
		"**/.git/**",
		"**/*.swp",
		"**/*.swo",
		"**/*~",
		"**/.#*",
		"**/.DS_Store",
	}
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Patterns are absolute doublestar patterns (or plain absolute file
		// paths) of the files that trigger callbacks.
		Patterns []string

		// Ignore are extra doublestar patterns matched against the path with
		// its root stripped, merged with the built-in ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before the callback
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// OnChange is called after the debounce window closes with the
		// deduplicated, sorted list of changed absolute paths.
		OnChange func(ctx context.Context, changed []string) error

		// Logger defaults to slog.Default().
		Logger *slog.Logger
	}

	// Watcher monitors the directories behind Patterns and fires a debounced
	// callback when a matching file changes. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		patterns []string
		ignores  []string
		// recursive holds roots whose patterns contain "**"; directories
		// created beneath them are added as they appear.
		recursive []string
		logger    *slog.Logger
		debounce  time.Duration
		started   atomic.Bool
	}
)

// New creates a Watcher. Each pattern is split into its static directory
// prefix and glob remainder; the prefix directory is watched, recursively when
// the remainder contains "**". Directories that do not exist yet are skipped
// with a warning.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Patterns) == 0 {
		return nil, ErrNoPatterns
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	patterns := make([]string, 0, len(cfg.Patterns))
	for _, p := range cfg.Patterns {
		if !filepath.IsAbs(p) {
			return nil, fmt.Errorf("watch: pattern %q is not absolute", p)
		}
		p = filepath.ToSlash(filepath.Clean(p))
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("watch: invalid watch pattern %q: %w", p, doublestar.ErrBadPattern)
		}
		patterns = append(patterns, p)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		patterns: patterns,
		ignores:  slices.Concat(defaultIgnores, cfg.Ignore),
		logger:   logger,
		debounce: debounce,
	}

	if err := w.addRoots(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("watch: close after init failure", "error", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// Watched returns the directories currently registered with fsnotify.
func (w *Watcher) Watched() []string {
	list := w.fsw.WatchList()
	slices.Sort(list)
	return list
}

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on clean cancellation and
// propagates fatal watcher errors. A second call returns an error immediately.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire drains the pending set and invokes OnChange. It may be scheduled
	// after ctx is cancelled, so it checks ctx first. A callback still running
	// when the timer fires again pushes the batch back by one debounce period.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("watch: previous reload still running, deferring")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("watch: callback failed", "error", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("watch: close fsnotify", "error", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}

			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}
			if w.isIgnored(evt.Name) || !w.matches(evt.Name) {
				continue
			}

			w.logger.Debug("watch: change", "path", evt.Name, "op", evt.Op.String())
			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			// isFatalFsnotifyError is platform-specific (see watcher_fatal_*.go).
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("watch: fsnotify error", "error", err)
		}
	}
}

// addRoots registers the static prefix directory of every pattern.
func (w *Watcher) addRoots() error {
	seen := make(map[string]bool)
	for _, p := range w.patterns {
		// A plain file path splits into its directory and file name.
		base, rest := doublestar.SplitPattern(p)
		dir := filepath.FromSlash(base)
		recursive := strings.Contains(rest, "**")
		if recursive {
			w.recursive = append(w.recursive, dir)
		}
		if seen[dir] && !recursive {
			continue
		}
		seen[dir] = true

		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			w.logger.Warn("watch: skipping missing directory", "dir", dir)
			continue
		}
		if recursive {
			if err := w.addTree(dir); err != nil {
				return err
			}
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", dir, err)
		}
	}
	return nil
}

// addTree adds dir and every non-ignored directory below it.
func (w *Watcher) addTree(root string) error {
	walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			w.logger.Warn("watch: skipping inaccessible path", "path", path, "error", walkDirErr)
			return nil //nolint:nilerr // intentional skip of inaccessible paths
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (w.isIgnored(path) || w.isIgnored(path+"/")) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return nil
}

// maybeAddDir starts watching a directory created beneath a recursive root.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if w.isIgnored(path) || w.isIgnored(path+"/") {
		return
	}
	for _, root := range w.recursive {
		if rel, relErr := filepath.Rel(root, path); relErr == nil && !strings.HasPrefix(rel, "..") {
			if addErr := w.addTree(path); addErr != nil {
				w.logger.Warn("watch: add new directory", "dir", path, "error", addErr)
			}
			return
		}
	}
}

// matches reports whether path matches at least one watch pattern.
func (w *Watcher) matches(path string) bool {
	normalized := filepath.ToSlash(path)
	for _, pat := range w.patterns {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// isIgnored matches ignore patterns against path without its volume and
// leading separator, so "**/*.swp" applies anywhere.
func (w *Watcher) isIgnored(path string) bool {
	normalized := strings.TrimPrefix(filepath.ToSlash(strings.TrimPrefix(path, filepath.VolumeName(path))), "/")
	for _, pat := range w.ignores {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

// validatePatterns checks that every pattern is a valid doublestar glob.
func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, pat, doublestar.ErrBadPattern)
		}
	}
	return nil
}
