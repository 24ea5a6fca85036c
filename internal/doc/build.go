package doc

import (
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tsreorg/tsreorg/internal/comments"
	"github.com/tsreorg/tsreorg/internal/parse"
	"github.com/tsreorg/tsreorg/internal/source"
)

// directiveRegex matches the keep-sorted annotation inside object
// literals. Only block comments qualify, mirroring how annotations are
// written next to the opening brace.
var directiveRegex = regexp.MustCompile(`(?s)/\*\*?.*?tsreorg:\s*keep-sorted\b.*?\*/`)

type builder struct {
	src    *source.Text
	flavor parse.Flavor
	doc    *Document
}

// Build constructs the document model for a parsed file.
func Build(root *sitter.Node, src *source.Text, flavor parse.Flavor) *Document {
	b := &builder{
		src:    src,
		flavor: flavor,
		doc:    &Document{Src: src, Flavor: flavor, Store: comments.NewStore()},
	}
	b.doc.Root = b.buildScope(root, ScopeTopLevel, nil, 0)
	return b.doc
}

type pendingComment struct {
	c      comments.Comment
	inline bool
}

func (b *builder) buildScope(container *sitter.Node, kind ScopeKind, owner *Item, depth int) *Scope {
	scope := &Scope{
		Kind:      kind,
		Owner:     owner,
		Depth:     depth,
		StartByte: container.StartByte(),
		EndByte:   container.EndByte(),
		OpenRow:   int(container.StartPoint().Row),
		CloseRow:  int(container.EndPoint().Row),
	}
	b.doc.Scopes = append(b.doc.Scopes, scope)
	if owner != nil {
		owner.Scopes = append(owner.Scopes, scope)
	}
	if kind == ScopeJSXAttributes {
		scope.SelfClosing = container.Type() == "jsx_self_closing_element"
		if nameNode := container.ChildByFieldName("name"); nameNode != nil {
			scope.ElementName = nodeText(nameNode, b.src)
		}
	}

	var prev *Item
	var pending []pendingComment
	// Object scopes keep everything up to and including the directive as a
	// verbatim prefix; only members after the annotation are sortable.
	waitingForDirective := kind == ScopeObjectLiteral

	for i := 0; i < int(container.ChildCount()); i++ {
		child := container.Child(i)
		ctype := child.Type()

		if waitingForDirective {
			scope.PrefixEnd = child.EndByte()
			if ctype == "comment" && directiveRegex.Match(b.src.Slice(child.StartByte(), child.EndByte())) {
				text := string(b.src.Slice(child.StartByte(), child.EndByte()))
				scope.Directive = &Directive{Text: text, StartRow: int(child.StartPoint().Row)}
				waitingForDirective = false
			}
			continue
		}

		if ctype == "comment" {
			c := comments.FromNode(child, b.src)
			cls := comments.Classify(c, b.src)
			if cls == comments.Inline {
				if prev != nil && c.StartRow == prev.EndRow {
					if c.EndByte > prev.PrintEnd {
						prev.PrintEnd = c.EndByte
					}
					continue
				}
				pending = append(pending, pendingComment{c: c, inline: true})
				continue
			}
			if prev != nil {
				b.doc.Store.AddTrailing(prev.EndByte, c)
				scope.HasStoreComments = true
			} else {
				pending = append(pending, pendingComment{c: c})
			}
			continue
		}

		if kind == ScopeJSXAttributes && ctype != "jsx_attribute" && ctype != "jsx_expression" {
			// element name, type arguments, and delimiters frame the
			// attribute list
			if len(scope.Items) == 0 {
				scope.PrefixEnd = child.EndByte()
			} else if scope.SuffixStart == 0 {
				scope.SuffixStart = child.StartByte()
			}
			continue
		}

		if punctuationTypes[ctype] {
			switch ctype {
			case ";":
				if kind == ScopeClassBody && prev != nil {
					oldEnd := prev.EndByte
					prev.EndByte = child.EndByte()
					prev.EndRow = int(child.EndPoint().Row)
					prev.EndCol = int(child.EndPoint().Column)
					if child.EndByte() > prev.PrintEnd {
						prev.PrintEnd = child.EndByte()
					}
					// Anything anchored between the member and its
					// semicolon is now inside the print span.
					b.doc.Store.AbsorbTrailing(oldEnd)
				}
			case ",":
				if kind == ScopeObjectLiteral && prev != nil && prev.Comma == nil {
					prev.Comma = child
				}
			case "{":
				if len(scope.Items) == 0 && scope.PrefixEnd == 0 {
					scope.PrefixEnd = child.EndByte()
				}
			case "}":
				if scope.SuffixStart == 0 {
					scope.SuffixStart = child.StartByte()
				}
			}
			continue
		}

		item := b.buildItem(child, scope)
		for _, p := range pending {
			if p.inline && p.c.EndRow == item.StartRow {
				if p.c.StartByte < item.PrintStart {
					item.PrintStart = p.c.StartByte
				}
				continue
			}
			b.doc.Store.AddLeading(item.StartByte, p.c)
			scope.HasStoreComments = true
		}
		pending = nil
		scope.Items = append(scope.Items, item)
		prev = item
	}

	// comments after the last item still need an anchor
	for _, p := range pending {
		if prev != nil {
			b.doc.Store.AddTrailing(prev.EndByte, p.c)
			scope.HasStoreComments = true
		} else {
			scope.Orphans = append(scope.Orphans, p.c)
		}
	}

	for i := 0; i < len(scope.Items)-1; i++ {
		scope.Items[i].BlankAfter = b.src.HasBlankBetween(scope.Items[i].EndRow, scope.Items[i+1].StartRow)
	}
	return scope
}

func (b *builder) buildItem(n *sitter.Node, scope *Scope) *Item {
	item := &Item{
		Node:       n,
		Decl:       n,
		Kind:       KindOther,
		StartByte:  n.StartByte(),
		EndByte:    n.EndByte(),
		StartRow:   int(n.StartPoint().Row),
		EndRow:     int(n.EndPoint().Row),
		EndCol:     int(n.EndPoint().Column),
		PrintStart: n.StartByte(),
		PrintEnd:   n.EndByte(),
		Index:      len(scope.Items),
	}

	switch scope.Kind {
	case ScopeTopLevel:
		b.fillTopLevel(item, scope)
	case ScopeClassBody:
		b.fillClassMember(item, scope)
	case ScopeObjectLiteral:
		b.fillObjectMember(item, scope)
	case ScopeJSXAttributes:
		b.fillJSXAttr(item, scope)
	}
	return item
}

func (b *builder) fillTopLevel(item *Item, scope *Scope) {
	decl, exported := unwrapExport(item.Node)
	item.Decl = decl
	item.Exported = exported

	kind, ok := topLevelKinds[decl.Type()]
	if !ok {
		item.Kind = KindStatement
		b.findNestedScopes(item.Node, item, nil, scope.Depth+1)
		return
	}
	item.Kind = kind

	switch kind {
	case KindImport:
		item.Name = importSource(decl, b.src)
		return
	case KindClass:
		item.Name = declName(decl, b.src)
		if body := decl.ChildByFieldName("body"); body != nil {
			classScope := b.buildScope(body, ScopeClassBody, item, scope.Depth+1)
			classScope.ClassName = item.Name
			b.findNestedScopes(item.Node, item, body, scope.Depth+1)
			return
		}
	default:
		item.Name = declName(decl, b.src)
	}
	b.findNestedScopes(item.Node, item, nil, scope.Depth+1)
}

func (b *builder) fillClassMember(item *Item, scope *Scope) {
	kind, ok := classMemberKinds[item.Node.Type()]
	if !ok {
		item.Kind = KindOther
		b.findNestedScopes(item.Node, item, nil, scope.Depth+1)
		return
	}
	item.Kind = kind
	if kind == KindMethod || kind == KindField {
		item.Name = memberName(item.Node, b.src)
		item.Static, item.Accessor = memberModifiers(item.Node)
		if kind == KindMethod && item.Name == "constructor" && item.Accessor == "" {
			item.Kind = KindCtor
		}
	}
	b.findNestedScopes(item.Node, item, nil, scope.Depth+1)
}

func (b *builder) fillObjectMember(item *Item, scope *Scope) {
	kind, ok := objectMemberKinds[item.Node.Type()]
	if !ok {
		item.Kind = KindOther
		b.findNestedScopes(item.Node, item, nil, scope.Depth+1)
		return
	}
	item.Kind = kind
	if kind == KindProperty {
		item.Name = propertyKey(item.Node, b.src)
	}
	b.findNestedScopes(item.Node, item, nil, scope.Depth+1)
}

func (b *builder) fillJSXAttr(item *Item, scope *Scope) {
	switch item.Node.Type() {
	case "jsx_attribute":
		item.Kind = KindJSXAttr
		item.Name = attrName(item.Node, b.src)
	case "jsx_expression":
		item.Kind = KindJSXSpread
	}
	b.findNestedScopes(item.Node, item, nil, scope.Depth+1)
}

// findNestedScopes walks an item's subtree for containers that become
// reorder units of their own: keep-sorted object literals and, under the
// tsx grammar, JSX attribute lists. A claimed container is not descended
// into here; its own items walk deeper.
func (b *builder) findNestedScopes(n *sitter.Node, owner *Item, skip *sitter.Node, depth int) {
	if skip != nil && sameNode(n, skip) {
		return
	}
	switch n.Type() {
	case "object":
		if int(n.StartPoint().Row) != int(n.EndPoint().Row) && b.objectHasDirective(n) {
			b.buildScope(n, ScopeObjectLiteral, owner, depth)
			return
		}
	case "jsx_opening_element", "jsx_self_closing_element":
		if b.flavor == parse.TSX && countJSXAttrs(n) >= 2 {
			b.buildScope(n, ScopeJSXAttributes, owner, depth)
			return
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		b.findNestedScopes(n.Child(i), owner, skip, depth)
	}
}

func (b *builder) objectHasDirective(n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() == "comment" && directiveRegex.Match(b.src.Slice(child.StartByte(), child.EndByte())) {
			return true
		}
	}
	return false
}

func countJSXAttrs(n *sitter.Node) int {
	count := 0
	for i := 0; i < int(n.ChildCount()); i++ {
		switch n.Child(i).Type() {
		case "jsx_attribute", "jsx_expression":
			count++
		}
	}
	return count
}
