// Package pipeline runs the whole per-file transformation: parse, plan,
// extract, print, recover, reinsert, style. One invocation owns all of
// its state, so callers can run any number of pipelines in parallel.
package pipeline

import (
	"context"

	"github.com/tsreorg/tsreorg/internal/doc"
	"github.com/tsreorg/tsreorg/internal/extract"
	"github.com/tsreorg/tsreorg/internal/identity"
	"github.com/tsreorg/tsreorg/internal/parse"
	"github.com/tsreorg/tsreorg/internal/position"
	"github.com/tsreorg/tsreorg/internal/printer"
	"github.com/tsreorg/tsreorg/internal/reinsert"
	"github.com/tsreorg/tsreorg/internal/reorg"
	"github.com/tsreorg/tsreorg/internal/source"
	"github.com/tsreorg/tsreorg/internal/style"
)

// Run formats content as the file named filename and reports whether the
// result differs from the input. Grammar flavor is chosen from the file
// extension. Content with syntax errors is rejected rather than half
// formatted.
func Run(ctx context.Context, content []byte, filename string, rules reorg.Rules) ([]byte, bool, error) {
	flavor := parse.FlavorForFile(filename)
	tree, err := parse.Parse(ctx, content, flavor)
	if err != nil {
		return nil, false, err
	}
	defer tree.Close()
	if err := parse.Check(tree); err != nil {
		return nil, false, err
	}

	src := source.New(content)
	d := doc.Build(tree.RootNode(), src, flavor)
	plan := reorg.BuildPlan(d, rules)

	// Already in order: the text passes through the style pass untouched
	// otherwise, and every comment stays exactly where it was.
	if !plan.Changed() {
		out := style.Apply(content, src.EndsWithNewline())
		return out, style.Changed(content, out), nil
	}

	ids := identity.Assign(d)
	pulled := extract.Pull(d, ids, plan.Dirty())
	skeleton := printer.Print(d, plan)

	positions, err := position.Recover(ctx, skeleton, flavor)
	if err != nil {
		return nil, false, err
	}
	restored, err := reinsert.Apply(skeleton, pulled, positions)
	if err != nil {
		return nil, false, err
	}

	out := style.Apply(restored, src.EndsWithNewline())
	return out, style.Changed(content, out), nil
}
