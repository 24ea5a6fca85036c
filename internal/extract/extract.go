// Package extract pulls anchored comments off the items of scopes that
// are about to be rebuilt. Extracted comments are keyed by item identity
// rather than position, so they can be reinserted next to their item
// after it has moved. Scopes that print verbatim keep their comments in
// the text and are never touched here.
package extract

import (
	"github.com/tsreorg/tsreorg/internal/comments"
	"github.com/tsreorg/tsreorg/internal/doc"
	"github.com/tsreorg/tsreorg/internal/identity"
)

// Role says which side of its item a comment belongs to.
type Role int

const (
	RoleLeading Role = iota
	RoleTrailing
)

func (r Role) String() string {
	if r == RoleTrailing {
		return "trailing"
	}
	return "leading"
}

// ExtractedComment is one comment owned by one identified item.
type ExtractedComment struct {
	ID      identity.ID
	Role    Role
	Comment comments.Comment
	Ordinal int
}

// StandaloneComment is a comment owned by no item. It is reinserted at
// its original line with its original indentation.
type StandaloneComment struct {
	Comment  comments.Comment
	Line     int // original 0-based start row
	Depth    int // nesting depth of the scope it was found in
	Indent   string
	Isolated bool // blank lines on both sides in the original
}

// Result is everything the reinserter needs to restore comments.
type Result struct {
	ByID       map[identity.ID][]ExtractedComment
	Standalone []StandaloneComment
}

// Pull collects the comments anchored to items of the dirty scopes.
//
// The store over-attaches: every comment between item A and item B is
// anchored as trailing on A. The reassignment pass here corrects that
// using line adjacency, which is what a reader actually goes by: a
// comment on its own line that sits directly above B, with no blank
// line in between, belongs to B.
func Pull(d *doc.Document, ids map[*doc.Item]identity.ID, dirty map[*doc.Scope]bool) *Result {
	res := &Result{ByID: make(map[identity.ID][]ExtractedComment)}
	for _, s := range d.Scopes {
		if !dirty[s] {
			continue
		}
		pullScope(d, s, ids, res)
	}
	return res
}

type itemComments struct {
	leading  []comments.Comment
	trailing []comments.Comment
}

func pullScope(d *doc.Document, s *doc.Scope, ids map[*doc.Item]identity.ID, res *Result) {
	work := make([]itemComments, len(s.Items))
	for i, it := range s.Items {
		work[i].leading = append([]comments.Comment(nil), d.Store.Leading(it.StartByte)...)
		work[i].trailing = append([]comments.Comment(nil), d.Store.Trailing(it.EndByte)...)
	}

	// Reassignment: move trailing-anchored comments that are not on
	// their item's last line over to the next item when they are
	// line-adjacent to it.
	for i := 0; i+1 < len(s.Items); i++ {
		a, b := s.Items[i], s.Items[i+1]
		kept := work[i].trailing[:0]
		for _, c := range work[i].trailing {
			if c.StartRow > a.EndRow && c.EndRow < b.StartRow && !d.Src.HasBlankBetween(c.EndRow, b.StartRow) {
				work[i+1].leading = append(work[i+1].leading, c)
				continue
			}
			kept = append(kept, c)
		}
		work[i].trailing = kept
	}

	// A comment hanging below the last item has no next item to take
	// it. Appending it to the item's line would drag it along on a
	// reorder, so it keeps its original line instead.
	if n := len(s.Items); n > 0 {
		last := s.Items[n-1]
		kept := work[n-1].trailing[:0]
		for _, c := range work[n-1].trailing {
			if c.StartRow > last.EndRow {
				res.standalone(d, s, c)
				continue
			}
			kept = append(kept, c)
		}
		work[n-1].trailing = kept
	}

	for i, it := range s.Items {
		id := ids[it]
		ordinal := 0
		for _, c := range work[i].leading {
			if id == "" || comments.Classify(c, d.Src) == comments.Standalone {
				res.standalone(d, s, c)
				continue
			}
			res.ByID[id] = append(res.ByID[id], ExtractedComment{ID: id, Role: RoleLeading, Comment: c, Ordinal: ordinal})
			ordinal++
		}
		ordinal = 0
		for _, c := range work[i].trailing {
			if id == "" || comments.Classify(c, d.Src) == comments.Standalone {
				res.standalone(d, s, c)
				continue
			}
			res.ByID[id] = append(res.ByID[id], ExtractedComment{ID: id, Role: RoleTrailing, Comment: c, Ordinal: ordinal})
			ordinal++
		}
	}

	// Item-less comments in a rebuilt scope would otherwise vanish.
	for _, c := range s.Orphans {
		res.standalone(d, s, c)
	}
}

func (r *Result) standalone(d *doc.Document, s *doc.Scope, c comments.Comment) {
	r.Standalone = append(r.Standalone, StandaloneComment{
		Comment:  c,
		Line:     c.StartRow,
		Depth:    s.Depth,
		Indent:   d.Src.Indent(c.StartRow),
		Isolated: comments.Classify(c, d.Src) == comments.Standalone,
	})
}
