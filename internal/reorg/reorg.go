// Package reorg plans the output order of every reorder unit in a
// document. Planning never touches text: it produces, per scope, the
// item order the printer should emit, plus in-place rewrites for
// specifier lists and union members. Identity is preserved by
// construction since items only move, they are never renamed.
package reorg

import (
	"log/slog"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tsreorg/tsreorg/internal/doc"
)

// Rules toggles the individual reordering passes.
type Rules struct {
	SortImports          bool
	SortImportSpecifiers bool
	SortTopLevel         bool
	SortClassMembers     bool
	SortObjectKeys       bool
	SortJSXAttributes    bool
	SortUnionMembers     bool
}

// DefaultRules enables every pass.
func DefaultRules() Rules {
	return Rules{
		SortImports:          true,
		SortImportSpecifiers: true,
		SortTopLevel:         true,
		SortClassMembers:     true,
		SortObjectKeys:       true,
		SortJSXAttributes:    true,
		SortUnionMembers:     true,
	}
}

// ScopePlan is the planned output for one scope.
type ScopePlan struct {
	Scope *doc.Scope
	Order []*doc.Item

	// Dirty scopes are rebuilt by the printer; clean scopes keep their
	// original text, comments included.
	Dirty bool

	// Uniform re-lays out a directive object one property per line,
	// with a blank line between properties when BlankBetween is set.
	Uniform      bool
	BlankBetween bool
}

// Plan holds the planned order for every scope of a document.
type Plan struct {
	byScope  map[*doc.Scope]*ScopePlan
	dirty    map[*doc.Scope]bool
	rewrites int
}

// BuildPlan decides the output order for every scope and attaches
// specifier/union rewrites to top-level items.
func BuildPlan(d *doc.Document, rules Rules) *Plan {
	p := &Plan{
		byScope: make(map[*doc.Scope]*ScopePlan),
		dirty:   make(map[*doc.Scope]bool),
	}

	for _, s := range d.Scopes {
		sp := planScope(s, rules)
		p.byScope[s] = sp
		if sp.Dirty {
			p.dirty[s] = true
		}
	}

	for _, it := range d.Root.Items {
		switch it.Kind {
		case doc.KindImport:
			if !rules.SortImportSpecifiers {
				continue
			}
			if sp := specifierRewrite(it, d.Src); sp != nil {
				it.Rewrites = append(it.Rewrites, *sp)
				p.rewrites++
			}
		case doc.KindTypeAlias:
			if !rules.SortUnionMembers {
				continue
			}
			if sp := unionRewrite(it, d.Src); sp != nil {
				it.Rewrites = append(it.Rewrites, *sp)
				p.rewrites++
			}
		}
	}
	return p
}

// For returns the plan for one scope.
func (p *Plan) For(s *doc.Scope) *ScopePlan {
	return p.byScope[s]
}

// Dirty returns the set of scopes the printer must rebuild.
func (p *Plan) Dirty() map[*doc.Scope]bool {
	return p.dirty
}

// Changed reports whether the plan moves or rewrites anything at all.
// When it is false the input text is already in order.
func (p *Plan) Changed() bool {
	return len(p.dirty) > 0 || p.rewrites > 0
}

func planScope(s *doc.Scope, rules Rules) *ScopePlan {
	sp := &ScopePlan{Scope: s, Order: append([]*doc.Item(nil), s.Items...)}

	switch s.Kind {
	case doc.ScopeTopLevel:
		planTopLevel(sp, rules)
	case doc.ScopeClassBody:
		// Single-line bodies keep their layout.
		if rules.SortClassMembers && s.OpenRow != s.CloseRow {
			planClassBody(sp)
		}
	case doc.ScopeObjectLiteral:
		planObject(sp, rules)
	case doc.ScopeJSXAttributes:
		if rules.SortJSXAttributes {
			planJSXAttrs(sp)
		}
	}

	if !sp.Dirty {
		sp.Dirty = orderChanged(s.Items, sp.Order)
	}
	return sp
}

func planTopLevel(sp *ScopePlan, rules Rules) {
	if rules.SortImports {
		sortRuns(sp.Order,
			func(it *doc.Item) bool { return it.Kind == doc.KindImport },
			func(it *doc.Item) bool { return isSideEffectImport(it.Decl) },
			func(a, b *doc.Item) bool { return a.Name < b.Name })
	}
	if rules.SortTopLevel {
		sortRuns(sp.Order, hoistable, never,
			func(a, b *doc.Item) bool { return a.Name < b.Name })
	}
}

// hoistable declarations can be reordered freely: the language hoists
// them, so relative order carries no runtime meaning. Classes and
// variables stay put because initialization order is observable.
func hoistable(it *doc.Item) bool {
	switch it.Kind {
	case doc.KindFunction, doc.KindInterface, doc.KindTypeAlias:
		return it.Name != ""
	}
	return false
}

func never(*doc.Item) bool { return false }

func planClassBody(sp *ScopePlan) {
	sortRuns(sp.Order,
		func(*doc.Item) bool { return true },
		func(it *doc.Item) bool { return memberBucket(it) < 0 },
		lessMembers)
}

// memberBucket orders class members by category: static fields,
// instance fields, constructor, static methods, instance methods.
// Anything else pins in place and splits the sortable run.
func memberBucket(it *doc.Item) int {
	if it.Name == "" && it.Kind != doc.KindCtor {
		return -1
	}
	switch it.Kind {
	case doc.KindField:
		if it.Static {
			return 0
		}
		return 1
	case doc.KindCtor:
		return 2
	case doc.KindMethod:
		if it.Static {
			return 3
		}
		return 4
	}
	return -1
}

func lessMembers(a, b *doc.Item) bool {
	ba, bb := memberBucket(a), memberBucket(b)
	if ba != bb {
		return ba < bb
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return accessorRank(a) < accessorRank(b)
}

// accessorRank keeps a get/set pair adjacent with the getter first.
func accessorRank(it *doc.Item) int {
	switch it.Accessor {
	case "get":
		return 0
	case "set":
		return 1
	}
	return 2
}

func planObject(sp *ScopePlan, rules Rules) {
	s := sp.Scope
	if !rules.SortObjectKeys || s.Directive == nil || len(s.Items) == 0 {
		return
	}
	opts, err := parseDirectiveOptions(s.Directive.Text)
	if err != nil {
		slog.Debug("skipping object with invalid directive",
			"line", s.Directive.StartRow+1, "err", err)
		return
	}

	sp.Uniform = true
	sp.BlankBetween = opts.WithNewline
	sp.Dirty = true
	sortRuns(sp.Order,
		func(*doc.Item) bool { return true },
		func(it *doc.Item) bool { return it.Kind != doc.KindProperty || it.Name == "" },
		func(a, b *doc.Item) bool { return compareKeys(a.Name, b.Name) })
}

func planJSXAttrs(sp *ScopePlan) {
	sortRuns(sp.Order,
		func(*doc.Item) bool { return true },
		func(it *doc.Item) bool { return it.Kind != doc.KindJSXAttr || it.Name == "" },
		lessAttrs)
}

// lessAttrs puts key and ref ahead of everything, then sorts by name.
func lessAttrs(a, b *doc.Item) bool {
	ra, rb := attrRank(a.Name), attrRank(b.Name)
	if ra != rb {
		return ra < rb
	}
	return a.Name < b.Name
}

func attrRank(name string) int {
	switch name {
	case "key":
		return 0
	case "ref":
		return 1
	}
	return 2
}

// sortRuns sorts maximal runs of items accepted by inRun, stably, with
// barrier items pinned in place splitting a run into independently
// sorted segments.
func sortRuns(items []*doc.Item, inRun, barrier func(*doc.Item) bool, less func(a, b *doc.Item) bool) {
	i := 0
	for i < len(items) {
		if !inRun(items[i]) {
			i++
			continue
		}
		j := i
		for j < len(items) && inRun(items[j]) {
			j++
		}
		segStart := i
		for k := i; k <= j; k++ {
			if k == j || barrier(items[k]) {
				sortSegment(items[segStart:k], less)
				segStart = k + 1
			}
		}
		i = j
	}
}

func sortSegment(seg []*doc.Item, less func(a, b *doc.Item) bool) {
	if len(seg) < 2 {
		return
	}
	sort.SliceStable(seg, func(i, j int) bool { return less(seg[i], seg[j]) })
}

func orderChanged(before, after []*doc.Item) bool {
	for i := range before {
		if before[i] != after[i] {
			return true
		}
	}
	return false
}

func isSideEffectImport(decl *sitter.Node) bool {
	if decl.Type() != "import_statement" {
		return false
	}
	for i := 0; i < int(decl.ChildCount()); i++ {
		if decl.Child(i).Type() == "import_clause" {
			return false
		}
	}
	return true
}
