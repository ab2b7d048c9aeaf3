// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch triggers rebuilds when documentation sources change.
// See docs/ARCHITECTURE § Watching.
package watch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/docpages/pkg/types"
)

// Watcher monitors a source tree and fires a debounced callback after
// changes settle. Rapid editor save bursts collapse into one rebuild.
type Watcher struct {
	cfg    types.WatchConfig
	fsw    *fsnotify.Watcher
	ignore map[string]bool
}

// New creates a Watcher. ignoreDirs lists directory names never watched
// (the build and staging directories, on top of cfg.IgnoreDirs); hidden
// directories are always skipped.
func New(cfg types.WatchConfig, ignoreDirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	// Ignore entries may arrive as paths (e.g. "docs/_build"); matching is
	// by directory name.
	ignore := make(map[string]bool)
	for _, name := range cfg.IgnoreDirs {
		ignore[filepath.Base(name)] = true
	}
	for _, name := range ignoreDirs {
		ignore[filepath.Base(name)] = true
	}

	if cfg.Debounce <= 0 {
		cfg.Debounce = 2 * time.Second
	}

	return &Watcher{cfg: cfg, fsw: fsw, ignore: ignore}, nil
}

// Close releases the underlying file watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// AddTree watches root and every subdirectory not ignored.
func (w *Watcher) AddTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// Run blocks, invoking rebuild after each settled burst of changes, until
// ctx is cancelled. Rebuild failures are reported on log and do not stop
// the loop; the next save gets another chance.
func (w *Watcher) Run(ctx context.Context, rebuild func(context.Context) error, log io.Writer) error {
	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}

			// New directories join the watch so edits inside them count.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !w.skipDir(filepath.Base(event.Name)) {
						_ = w.fsw.Add(event.Name)
					}
				}
			}

			fmt.Fprintf(log, "changed: %s\n", event.Name)
			if debounce == nil {
				debounce = time.NewTimer(w.cfg.Debounce)
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(w.cfg.Debounce)
			}
			fire = debounce.C

		case <-fire:
			fire = nil
			if err := rebuild(ctx); err != nil {
				fmt.Fprintf(log, "rebuild failed: %v\n", err)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(log, "watch error: %v\n", err)
		}
	}
}

// relevant filters events down to content changes in watched files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") && base != "." {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(event.Name), "/") {
		if w.ignore[part] {
			return false
		}
	}
	return true
}

// skipDir reports whether a directory name is excluded from watching.
func (w *Watcher) skipDir(name string) bool {
	return w.ignore[name] || strings.HasPrefix(name, ".")
}
