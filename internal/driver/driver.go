// Package driver runs the formatting pipeline across many files in
// parallel and aggregates per-file outcomes.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tsreorg/tsreorg/internal/cache"
	"github.com/tsreorg/tsreorg/internal/diff"
	"github.com/tsreorg/tsreorg/internal/pipeline"
	"github.com/tsreorg/tsreorg/internal/reorg"
)

// Options controls one batch run.
type Options struct {
	Write   bool
	Diff    bool
	Workers int
	Rules   reorg.Rules
}

// Result is the outcome for a single file. A per-file failure lands in
// Err and never aborts the rest of the batch.
type Result struct {
	Path    string
	Changed bool
	Cached  bool
	Diff    string
	Err     error

	// content to record as clean once the batch completes, nil when
	// the file is still dirty on disk
	cleanContent []byte
}

// Summary counts batch outcomes.
type Summary struct {
	Total     int
	Changed   int
	Unchanged int
	Cached    int
	Failed    int
}

// Process formats every file and returns results in input order. Only
// context cancellation produces a non-nil error; everything else is
// reported per file. Cache updates are applied after all workers
// finish.
func Process(ctx context.Context, files []string, opts Options, store *cache.Cache) ([]Result, Summary, error) {
	if len(files) == 0 {
		return nil, Summary{}, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(workers, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = processFile(gctx, path, opts, store)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}

	sum := Summary{Total: len(files)}
	for i := range results {
		r := &results[i]
		if r.cleanContent != nil {
			store.MarkClean(r.Path, r.cleanContent)
		}
		switch {
		case r.Err != nil:
			sum.Failed++
		case r.Cached:
			sum.Cached++
			sum.Unchanged++
		case r.Changed:
			sum.Changed++
		default:
			sum.Unchanged++
		}
	}
	return results, sum, nil
}

func processFile(ctx context.Context, path string, opts Options, store *cache.Cache) Result {
	res := Result{Path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", path, err)
		return res
	}
	if store.Clean(path, content) {
		slog.Debug("cache hit", "file", path)
		res.Cached = true
		return res
	}

	out, changed, err := pipeline.Run(ctx, content, path, opts.Rules)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res
	}
	res.Changed = changed

	if !changed {
		res.cleanContent = content
		return res
	}
	if opts.Diff {
		res.Diff = diff.Unified(path, content, out)
	}
	if opts.Write {
		if err := writeFile(path, out); err != nil {
			res.Err = fmt.Errorf("write %s: %w", path, err)
			return res
		}
		res.cleanContent = out
	}
	return res
}

// writeFile keeps the file's existing permissions.
func writeFile(path string, content []byte) error {
	mode := os.FileMode(0o600)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, content, mode)
}
