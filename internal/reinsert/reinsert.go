// Package reinsert splices extracted comments back into the skeleton at
// the positions their items were recovered at. Splices are applied in
// descending line order so that inserting new lines never invalidates
// the line numbers still waiting to be processed.
package reinsert

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsreorg/tsreorg/internal/extract"
	"github.com/tsreorg/tsreorg/internal/identity"
	"github.com/tsreorg/tsreorg/internal/position"
)

// MissingPositionError reports every extracted comment whose item could
// not be found in the skeleton. Nothing is inserted when this happens;
// a partial result would silently drop the rest.
type MissingPositionError struct {
	IDs []identity.ID
}

func (e *MissingPositionError) Error() string {
	parts := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		parts[i] = string(id)
	}
	return fmt.Sprintf("comments reference %d identities with no recovered position: %s",
		len(e.IDs), strings.Join(parts, ", "))
}

// Apply returns skeleton with all extracted comments restored. Anchored
// comments land next to their item's recovered position, standalone
// comments at their original line.
func Apply(skeleton []byte, res *extract.Result, positions map[identity.ID]position.Position) ([]byte, error) {
	var missing []identity.ID
	for id := range res.ByID {
		if _, ok := positions[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return nil, &MissingPositionError{IDs: missing}
	}

	lines := strings.Split(string(skeleton), "\n")
	multi := multiLineRows(positions)

	ops := buildOps(res, positions, lines, multi)
	sort.SliceStable(ops, func(i, j int) bool {
		if ops[i].line != ops[j].line {
			return ops[i].line > ops[j].line
		}
		if ops[i].insert != ops[j].insert {
			// Appends first: they target the item's line itself, which
			// an insert at the same index would push down.
			return !ops[i].insert
		}
		return ops[i].col < ops[j].col
	})
	for _, o := range ops {
		if o.insert {
			lines = spliceLines(lines, o.line, o.segments)
		} else {
			lines = appendToLine(lines, o.line, o.texts)
		}
	}

	lines = insertStandalone(lines, res.Standalone)
	return []byte(strings.Join(lines, "\n")), nil
}

// op is one pending text change, expressed in skeleton line numbers.
type op struct {
	line     int
	col      int
	insert   bool
	segments []string // leading: whole lines spliced in above the item
	texts    []string // trailing: texts space-joined onto the line end
}

func buildOps(res *extract.Result, positions map[identity.ID]position.Position, lines []string, multi map[int]bool) []op {
	ids := make([]identity.ID, 0, len(res.ByID))
	for id := range res.ByID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var ops []op
	for _, id := range ids {
		pos := positions[id]
		var leading, trailing []extract.ExtractedComment
		for _, ec := range res.ByID[id] {
			if ec.Role == extract.RoleLeading {
				leading = append(leading, ec)
			} else {
				trailing = append(trailing, ec)
			}
		}
		sort.SliceStable(leading, func(i, j int) bool { return leading[i].Ordinal < leading[j].Ordinal })
		sort.SliceStable(trailing, func(i, j int) bool { return trailing[i].Ordinal < trailing[j].Ordinal })

		if len(trailing) > 0 {
			texts := make([]string, len(trailing))
			for i, ec := range trailing {
				texts[i] = ec.Comment.Text
			}
			ops = append(ops, op{line: pos.EndRow, col: pos.EndCol, texts: texts})
		}
		if len(leading) > 0 {
			var segs []string
			for _, ec := range leading {
				segs = append(segs, strings.Split(pos.Indent+ec.Comment.Text, "\n")...)
			}
			ops = append(ops, op{line: leadingLine(pos, lines, multi), col: pos.EndCol, insert: true, segments: segs})
		}
	}
	return ops
}

// leadingLine is where an item's leading comments are spliced in:
// directly above the item, except when the item sits right under a lone
// line that itself follows a blank line. The comments then go above
// that neighbor, so the blank line keeps separating the group from
// what came before instead of ending up between the comments and their
// item. The hop never crosses a line belonging to a multi-line item;
// that keeps a member comment from escaping past its class header.
func leadingLine(pos position.Position, lines []string, multi map[int]bool) int {
	at := pos.StartRow
	if at >= 2 && !isBlank(lines[at-1]) && isBlank(lines[at-2]) && !multi[at-1] {
		at--
	}
	return at
}

// multiLineRows marks every skeleton row covered by an item that spans
// more than one line.
func multiLineRows(positions map[identity.ID]position.Position) map[int]bool {
	rows := make(map[int]bool)
	for _, p := range positions {
		if p.EndRow == p.StartRow {
			continue
		}
		for r := p.StartRow; r <= p.EndRow; r++ {
			rows[r] = true
		}
	}
	return rows
}

func spliceLines(lines []string, at int, segs []string) []string {
	if at < 0 {
		at = 0
	}
	if at > len(lines) {
		at = len(lines)
	}
	out := make([]string, 0, len(lines)+len(segs))
	out = append(out, lines[:at]...)
	out = append(out, segs...)
	out = append(out, lines[at:]...)
	return out
}

func appendToLine(lines []string, at int, texts []string) []string {
	if at >= len(lines) {
		at = len(lines) - 1
	}
	joined := lines[at] + " " + strings.Join(texts, " ")
	if !strings.Contains(joined, "\n") {
		lines[at] = joined
		return lines
	}
	// A block comment spanning lines re-splits the row it landed on.
	segs := strings.Split(joined, "\n")
	out := make([]string, 0, len(lines)+len(segs)-1)
	out = append(out, lines[:at]...)
	out = append(out, segs...)
	out = append(out, lines[at+1:]...)
	return out
}

// insertStandalone places unowned comments back at their original line,
// clamped to the end of the text. Comments that were blank-isolated get
// their isolation re-established, so a file header does not end up
// glued to whatever now follows it.
func insertStandalone(lines []string, standalone []extract.StandaloneComment) []string {
	if len(standalone) == 0 {
		return lines
	}
	ordered := append([]extract.StandaloneComment(nil), standalone...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Line > ordered[j].Line })

	for _, sc := range ordered {
		limit := len(lines)
		if limit > 0 && lines[limit-1] == "" {
			limit--
		}
		at := sc.Line
		if at > limit {
			at = limit
		}
		segs := strings.Split(sc.Indent+sc.Comment.Text, "\n")
		lines = spliceLines(lines, at, segs)
		if !sc.Isolated {
			continue
		}
		if below := at + len(segs); below < len(lines) && !isBlank(lines[below]) {
			lines = spliceLines(lines, below, []string{""})
		}
		if at > 0 && !isBlank(lines[at-1]) {
			lines = spliceLines(lines, at, []string{""})
		}
	}
	return lines
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
