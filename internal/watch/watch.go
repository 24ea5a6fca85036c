// Package watch reruns the formatter whenever watched files change.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tsreorg/tsreorg/internal/cache"
	"github.com/tsreorg/tsreorg/internal/driver"
	"github.com/tsreorg/tsreorg/internal/fileutil"
)

// Debounce is how long the loop waits after the last event before
// formatting. Editors often write a file in several steps; the window
// collapses the burst into one pass.
const Debounce = 100 * time.Millisecond

// Handler receives the outcome of each formatting pass.
type Handler func(results []driver.Result, sum driver.Summary)

// Run watches the roots and reformats changed files until the context
// is canceled. Directory roots are watched recursively, and
// directories created while watching are picked up as they appear.
func Run(ctx context.Context, roots []string, extensions, exclude []string, opts driver.Options, store *cache.Cache, handle Handler) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			if err := watcher.Add(filepath.Dir(root)); err != nil {
				return err
			}
			continue
		}
		if err := addTree(watcher, root, exclude); err != nil {
			return err
		}
	}

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	// A fresh timer per arm keeps a stale tick from a superseded timer
	// out of the select.
	arm := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.NewTimer(Debounce)
		fire = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if !skipDir(ev.Name, exclude) {
						if err := addTree(watcher, ev.Name, exclude); err != nil {
							slog.Warn("watch new directory", "dir", ev.Name, "err", err)
						}
					}
					continue
				}
			}
			if !fileutil.HasValidExtension(ev.Name, extensions) || fileutil.Excluded(ev.Name, exclude) {
				continue
			}
			if _, err := os.Stat(ev.Name); err != nil {
				continue // renamed away or already gone
			}
			pending[ev.Name] = struct{}{}
			arm()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "err", err)

		case <-fire:
			timer = nil
			fire = nil
			files := make([]string, 0, len(pending))
			for f := range pending {
				files = append(files, f)
			}
			clear(pending)
			sort.Strings(files)

			results, sum, err := driver.Process(ctx, files, opts, store)
			if err != nil {
				return err
			}
			if handle != nil {
				handle(results, sum)
			}
		}
	}
}

func addTree(w *fsnotify.Watcher, root string, exclude []string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(path, exclude) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func skipDir(path string, exclude []string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || base == "node_modules" || fileutil.Excluded(path, exclude)
}
