// Package position recovers node coordinates from a reorganized skeleton.
//
// After printing, every surviving declaration sits at a new location. The
// recoverer parses the skeleton again, assigns identities with the same
// scheme used on the original tree, and reports where each identity landed.
// Comments were stripped before printing, so the skeleton parse sees only
// the code the reinserter needs to anchor against.
package position

import (
	"context"

	"github.com/tsreorg/tsreorg/internal/doc"
	"github.com/tsreorg/tsreorg/internal/identity"
	"github.com/tsreorg/tsreorg/internal/parse"
	"github.com/tsreorg/tsreorg/internal/source"
)

// Position is where an identified declaration ended up in the skeleton.
// Rows are zero-based, matching tree-sitter points.
type Position struct {
	StartRow int
	EndRow   int
	EndCol   int
	Indent   string
}

// Recover parses skeleton with the given flavor and returns the position of
// every identity found in it. Items that carry no identity (object members,
// JSX attributes) are skipped; their comments were absorbed or diverted
// during extraction and never look anything up here.
func Recover(ctx context.Context, skeleton []byte, flavor parse.Flavor) (map[identity.ID]Position, error) {
	tree, err := parse.Parse(ctx, skeleton, flavor)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	src := source.New(skeleton)
	d := doc.Build(tree.RootNode(), src, flavor)
	ids := identity.Assign(d)

	positions := make(map[identity.ID]Position, len(ids))
	for _, s := range d.Scopes {
		for _, it := range s.Items {
			id, ok := ids[it]
			if !ok || id == "" {
				continue
			}
			positions[id] = Position{
				StartRow: it.StartRow,
				EndRow:   it.EndRow,
				EndCol:   it.EndCol,
				Indent:   src.Indent(it.StartRow),
			}
		}
	}
	return positions, nil
}
