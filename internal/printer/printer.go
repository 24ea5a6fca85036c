// Package printer emits skeleton text: the original bytes with every
// dirty scope rebuilt in plan order. Rebuilt scopes drop their
// store-anchored comments (the reinserter puts them back after position
// recovery) but keep absorbed inline comments, which travel inside item
// print spans. Clean scopes keep their original bytes untouched, so
// their comments never leave the text.
package printer

import (
	"bytes"

	"github.com/tsreorg/tsreorg/internal/doc"
	"github.com/tsreorg/tsreorg/internal/reorg"
)

// Print renders the whole document against the plan.
func Print(d *doc.Document, plan *reorg.Plan) []byte {
	rootPlan := plan.For(d.Root)
	if rootPlan.Dirty {
		return renderScope(d, plan, rootPlan)
	}
	var splices []doc.Splice
	collectSplices(d, plan, d.Root, &splices)
	return doc.SpliceAll(d.Src.Bytes(), 0, splices)
}

// renderScope produces the replacement text for a dirty scope's
// container span: verbatim prefix, items in plan order with gap rules,
// verbatim closing delimiter.
func renderScope(d *doc.Document, plan *reorg.Plan, sp *reorg.ScopePlan) []byte {
	s := sp.Scope
	prefixEnd := s.PrefixEnd
	if prefixEnd == 0 {
		prefixEnd = s.StartByte
	}
	suffixStart := s.SuffixStart
	if suffixStart == 0 {
		suffixStart = s.EndByte
	}

	var buf bytes.Buffer
	buf.Write(d.Src.Slice(s.StartByte, prefixEnd))

	switch s.Kind {
	case doc.ScopeTopLevel:
		renderTopLevel(d, plan, sp, &buf)
	case doc.ScopeClassBody:
		renderClassBody(d, plan, sp, &buf)
	case doc.ScopeObjectLiteral:
		renderObject(d, plan, sp, &buf)
	case doc.ScopeJSXAttributes:
		renderJSX(d, plan, sp, &buf)
	}

	buf.Write(d.Src.Slice(suffixStart, s.EndByte))
	return buf.Bytes()
}

func renderTopLevel(d *doc.Document, plan *reorg.Plan, sp *reorg.ScopePlan, buf *bytes.Buffer) {
	for i, it := range sp.Order {
		if i > 0 {
			buf.WriteString(topLevelGap(sp.Order[i-1], it))
		}
		buf.Write(renderItem(d, plan, it))
	}
	buf.WriteString("\n")
}

// topLevelGap decides the separator between two consecutive output
// items. A pair that was already adjacent in the input keeps its
// original spacing, capped at one blank line. A pair the reordering
// created gets one blank line, except imports and single-line type
// aliases, which read as tight groups.
func topLevelGap(a, b *doc.Item) string {
	if b.Index == a.Index+1 {
		if a.BlankAfter {
			return "\n\n"
		}
		return "\n"
	}
	if a.Kind == doc.KindImport && b.Kind == doc.KindImport {
		return "\n"
	}
	if a.Kind == doc.KindTypeAlias && b.Kind == doc.KindTypeAlias && singleLine(a) && singleLine(b) {
		return "\n"
	}
	return "\n\n"
}

func renderClassBody(d *doc.Document, plan *reorg.Plan, sp *reorg.ScopePlan, buf *bytes.Buffer) {
	s := sp.Scope
	indent := d.Src.Indent(s.Items[0].StartRow)
	closeIndent := d.Src.Indent(s.CloseRow)

	for i, it := range sp.Order {
		if i == 0 {
			buf.WriteString("\n" + indent)
		} else {
			buf.WriteString(classGap(sp.Order[i-1], it) + indent)
		}
		buf.Write(renderItem(d, plan, it))
	}
	buf.WriteString("\n" + closeIndent)
}

// classGap keeps original adjacent spacing; new adjacencies separate
// multi-line members with a blank line and stack one-liners tight.
func classGap(a, b *doc.Item) string {
	if b.Index == a.Index+1 {
		if a.BlankAfter {
			return "\n\n"
		}
		return "\n"
	}
	if !singleLine(a) || !singleLine(b) {
		return "\n\n"
	}
	return "\n"
}

func renderObject(d *doc.Document, plan *reorg.Plan, sp *reorg.ScopePlan, buf *bytes.Buffer) {
	s := sp.Scope
	indent := d.Src.Indent(s.Items[0].StartRow)
	closeIndent := d.Src.Indent(s.CloseRow)
	sep := ",\n"
	if sp.BlankBetween {
		sep = ",\n\n"
	}

	for i, it := range sp.Order {
		if i == 0 {
			buf.WriteString("\n" + indent)
		} else {
			buf.WriteString(sep + indent)
		}
		buf.Write(renderItem(d, plan, it))
	}
	// The sorted object keeps the original's trailing-comma choice.
	if s.Items[len(s.Items)-1].Comma != nil {
		buf.WriteString(",")
	}
	buf.WriteString("\n" + closeIndent)
}

func renderJSX(d *doc.Document, plan *reorg.Plan, sp *reorg.ScopePlan, buf *bytes.Buffer) {
	s := sp.Scope
	if s.OpenRow == s.CloseRow {
		for _, it := range sp.Order {
			buf.WriteString(" ")
			buf.Write(renderItem(d, plan, it))
		}
		if s.SelfClosing {
			buf.WriteString(" ")
		}
		return
	}

	indent := d.Src.Indent(s.Items[0].StartRow)
	for _, it := range sp.Order {
		buf.WriteString("\n" + indent)
		buf.Write(renderItem(d, plan, it))
	}
	buf.WriteString("\n" + d.Src.Indent(s.OpenRow))
}

// renderItem emits one item's print span with nested dirty scopes and
// pending rewrites spliced in.
func renderItem(d *doc.Document, plan *reorg.Plan, it *doc.Item) []byte {
	base := d.Src.Slice(it.PrintStart, it.PrintEnd)
	var splices []doc.Splice
	splices = append(splices, it.Rewrites...)
	for _, cs := range it.Scopes {
		csPlan := plan.For(cs)
		if csPlan != nil && csPlan.Dirty {
			splices = append(splices, doc.Splice{
				Start: cs.StartByte,
				End:   cs.EndByte,
				Text:  renderScope(d, plan, csPlan),
			})
		} else {
			collectSplices(d, plan, cs, &splices)
		}
	}
	return doc.SpliceAll(base, it.PrintStart, splices)
}

// collectSplices gathers replacements under a clean scope: rewrites on
// its items and full replacements for dirty descendant scopes. Offsets
// stay absolute because a clean scope's text is identical to the source
// outside those ranges.
func collectSplices(d *doc.Document, plan *reorg.Plan, s *doc.Scope, out *[]doc.Splice) {
	for _, it := range s.Items {
		*out = append(*out, it.Rewrites...)
		for _, cs := range it.Scopes {
			csPlan := plan.For(cs)
			if csPlan != nil && csPlan.Dirty {
				*out = append(*out, doc.Splice{
					Start: cs.StartByte,
					End:   cs.EndByte,
					Text:  renderScope(d, plan, csPlan),
				})
			} else {
				collectSplices(d, plan, cs, out)
			}
		}
	}
}

func singleLine(it *doc.Item) bool {
	return it.StartRow == it.EndRow
}
