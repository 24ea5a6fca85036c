// Package identity assigns position-independent identities to document
// items. An identity is derived only from properties that survive
// reordering (kind, name, shape, enclosing scope chain), never from byte
// offsets or line numbers, so an item keeps its identity across a
// reorganization and its comments can find it again afterwards.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tsreorg/tsreorg/internal/doc"
	"github.com/tsreorg/tsreorg/internal/source"
)

// ID is the stable identity of one item, or "" when the item's kind is
// not supported and its comments must fall back to standalone handling.
type ID string

// Assign computes identities for every item in the document. Scope
// qualifiers chain from the outside in, so a property named "id" inside
// two different objects gets two different identities. Sibling items
// that collide on the same identity are logged and left as-is; the
// later one wins comment attachment.
func Assign(d *doc.Document) map[*doc.Item]ID {
	ids := make(map[*doc.Item]ID)
	parents := parentScopes(d)
	quals := make(map[*doc.Scope]string)

	for _, s := range d.Scopes {
		quals[s] = scopeQualifier(s, parents, quals, ids)
		seen := make(map[ID]*doc.Item)
		for _, it := range s.Items {
			id := assignItem(it, quals[s], d.Src)
			ids[it] = id
			if id == "" {
				continue
			}
			if prev, ok := seen[id]; ok {
				slog.Warn("duplicate item identity",
					"scope", s.Kind.String(),
					"name", it.Name,
					"line", it.StartRow+1,
					"previousLine", prev.StartRow+1)
			}
			seen[id] = it
		}
	}
	return ids
}

// parentScopes maps each nested scope to the scope that contains its
// owner item. The document's scope list is ordered parents before
// children, so qualifiers for parents are always computed first.
func parentScopes(d *doc.Document) map[*doc.Scope]*doc.Scope {
	parents := make(map[*doc.Scope]*doc.Scope)
	for _, s := range d.Scopes {
		for _, it := range s.Items {
			for _, child := range it.Scopes {
				parents[child] = s
			}
		}
	}
	return parents
}

func scopeQualifier(s *doc.Scope, parents map[*doc.Scope]*doc.Scope, quals map[*doc.Scope]string, ids map[*doc.Item]ID) string {
	switch s.Kind {
	case doc.ScopeTopLevel:
		return ""
	case doc.ScopeClassBody:
		base := ""
		if p, ok := parents[s]; ok {
			base = quals[p]
		}
		return base + "/class:" + s.ClassName
	case doc.ScopeObjectLiteral:
		owner := ""
		if s.Owner != nil {
			owner = string(ids[s.Owner])
		}
		if owner == "" {
			return ""
		}
		return owner + "/obj:" + strings.Join(sortedNames(s, doc.KindProperty), ",")
	case doc.ScopeJSXAttributes:
		owner := ""
		if s.Owner != nil {
			owner = string(ids[s.Owner])
		}
		if owner == "" {
			return ""
		}
		return owner + "/jsx:" + s.ElementName + ":" + strings.Join(sortedNames(s, doc.KindJSXAttr), ",")
	}
	return ""
}

// sortedNames collects the names of a scope's items of one kind, sorted,
// so the qualifier is the same before and after the scope is reordered.
func sortedNames(s *doc.Scope, kind doc.Kind) []string {
	var names []string
	for _, it := range s.Items {
		if it.Kind == kind && it.Name != "" {
			names = append(names, it.Name)
		}
	}
	sort.Strings(names)
	return names
}

func assignItem(it *doc.Item, qual string, src *source.Text) ID {
	// Items inside an unidentifiable container cannot themselves be
	// identified across a rewrite.
	if qual == "" && (it.Kind == doc.KindProperty || it.Kind == doc.KindSpread ||
		it.Kind == doc.KindJSXAttr || it.Kind == doc.KindJSXSpread) {
		return ""
	}
	canon := canonical(it, src)
	if canon == "" {
		return ""
	}
	return hash(qual + "|" + canon)
}

func hash(s string) ID {
	sum := sha256.Sum256([]byte(s))
	return ID(hex.EncodeToString(sum[:]))
}

// canonical builds the per-kind identity string. Exported wrappers are
// folded in as a flag rather than as text, so `export function f` and a
// later un-exported `function f` are deliberately distinct.
func canonical(it *doc.Item, src *source.Text) string {
	var parts []string
	if it.Exported {
		parts = append(parts, "exported")
	}
	switch it.Kind {
	case doc.KindImport:
		parts = append(parts, "import", it.Name, importShape(it.Decl, src))
	case doc.KindFunction:
		parts = append(parts, "func", it.Name, functionShape(it.Decl, src))
	case doc.KindClass:
		parts = append(parts, "class", it.Name, heritage(it.Decl, src))
	case doc.KindInterface:
		parts = append(parts, "interface", it.Name, interfaceExtends(it.Decl, src))
	case doc.KindTypeAlias:
		parts = append(parts, "type", it.Name)
	case doc.KindEnum:
		tag := "enum"
		if c := it.Decl.Child(0); c != nil && c.Type() == "const" {
			tag = "const-enum"
		}
		parts = append(parts, tag, it.Name)
	case doc.KindVariable:
		parts = append(parts, "var", variableShape(it.Decl, src))
	case doc.KindField:
		parts = append(parts, "field", it.Name, memberFlags(it, src), valueTag(it.Decl.ChildByFieldName("value")))
	case doc.KindMethod:
		parts = append(parts, "method", it.Name, memberFlags(it, src), paramShape(it.Decl))
	case doc.KindCtor:
		parts = append(parts, "ctor", paramShape(it.Decl))
	case doc.KindProperty:
		parts = append(parts, "prop", it.Name, propertyTag(it.Decl))
	case doc.KindJSXAttr:
		parts = append(parts, "attr", it.Name, attrValueTag(it.Decl))
	case doc.KindStaticBlock, doc.KindIndexSignature, doc.KindSpread,
		doc.KindJSXSpread, doc.KindStatement:
		parts = append(parts, "text", maskedText(it, src))
	default:
		return ""
	}
	return strings.Join(parts, "|")
}

func memberFlags(it *doc.Item, src *source.Text) string {
	var flags []string
	if it.Static {
		flags = append(flags, "static")
	}
	if it.Accessor != "" {
		flags = append(flags, it.Accessor)
	}
	for i := 0; i < int(it.Decl.ChildCount()); i++ {
		if c := it.Decl.Child(i); c.Type() == "accessibility_modifier" {
			flags = append(flags, nodeString(c, src))
			break
		}
	}
	return strings.Join(flags, ",")
}

// maskedText is the item's declaration text with every nested reorder
// unit's span replaced by a placeholder, then whitespace-collapsed. The
// masking keeps the identity stable when only a nested object or JSX
// element inside the statement is rewritten.
func maskedText(it *doc.Item, src *source.Text) string {
	base := it.Decl.StartByte()
	text := src.Slice(base, it.Decl.EndByte())
	if len(it.Scopes) > 0 {
		var splices []doc.Splice
		for _, s := range it.Scopes {
			splices = append(splices, doc.Splice{Start: s.StartByte, End: s.EndByte, Text: []byte("#")})
		}
		text = doc.SpliceAll(text, base, splices)
	}
	return strings.Join(strings.Fields(string(text)), " ")
}

// importShape captures a static import's content independent of
// specifier order: sorted local names plus default/namespace names plus
// the type-only flag.
func importShape(decl *sitter.Node, src *source.Text) string {
	var names []string
	typeOnly := false
	for i := 0; i < int(decl.ChildCount()); i++ {
		child := decl.Child(i)
		switch child.Type() {
		case "type":
			typeOnly = true
		case "import_clause":
			for j := 0; j < int(child.ChildCount()); j++ {
				cl := child.Child(j)
				switch cl.Type() {
				case "identifier":
					names = append(names, "default:"+nodeString(cl, src))
				case "namespace_import":
					names = append(names, "ns:"+nodeString(cl, src))
				case "named_imports":
					for k := 0; k < int(cl.NamedChildCount()); k++ {
						spec := cl.NamedChild(k)
						if spec.Type() != "import_specifier" {
							continue
						}
						local := spec.ChildByFieldName("alias")
						if local == nil {
							local = spec.ChildByFieldName("name")
						}
						if local != nil {
							names = append(names, nodeString(local, src))
						}
					}
				}
			}
		}
	}
	sort.Strings(names)
	shape := strings.Join(names, ",")
	if typeOnly {
		shape = "type-only;" + shape
	}
	return shape
}

func functionShape(decl *sitter.Node, src *source.Text) string {
	var flags []string
	if decl.Type() == "generator_function_declaration" {
		flags = append(flags, "gen")
	}
	for i := 0; i < int(decl.ChildCount()); i++ {
		if decl.Child(i).Type() == "async" {
			flags = append(flags, "async")
			break
		}
	}
	return strings.Join(flags, ",") + ";" + paramShape(decl) + ";" + returnTag(decl)
}

// paramShape is a coarse per-parameter encoding: identifier, pattern,
// or rest, with an optional marker. It distinguishes overloads without
// depending on parameter names' exact spelling inside patterns.
func paramShape(decl *sitter.Node) string {
	params := decl.ChildByFieldName("parameters")
	if params == nil {
		return ""
	}
	var tags []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		tag := "x"
		pattern := p.ChildByFieldName("pattern")
		if pattern != nil {
			switch pattern.Type() {
			case "identifier", "this":
				tag = "i"
			case "object_pattern", "array_pattern":
				tag = "p"
			case "rest_pattern":
				tag = "r"
			}
		}
		if p.Type() == "optional_parameter" {
			tag += "?"
		}
		tags = append(tags, tag)
	}
	return strings.Join(tags, "")
}

func returnTag(decl *sitter.Node) string {
	ret := decl.ChildByFieldName("return_type")
	if ret == nil {
		return ""
	}
	if inner := ret.NamedChild(0); inner != nil {
		return inner.Type()
	}
	return ret.Type()
}

func heritage(decl *sitter.Node, src *source.Text) string {
	var parts []string
	for i := 0; i < int(decl.ChildCount()); i++ {
		child := decl.Child(i)
		if child.Type() != "class_heritage" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			cl := child.Child(j)
			switch cl.Type() {
			case "extends_clause":
				if v := cl.ChildByFieldName("value"); v != nil {
					parts = append(parts, "extends:"+nodeString(v, src))
				}
			case "implements_clause":
				var impls []string
				for k := 0; k < int(cl.NamedChildCount()); k++ {
					impls = append(impls, nodeString(cl.NamedChild(k), src))
				}
				sort.Strings(impls)
				parts = append(parts, "implements:"+strings.Join(impls, ","))
			}
		}
	}
	return strings.Join(parts, ";")
}

func interfaceExtends(decl *sitter.Node, src *source.Text) string {
	for i := 0; i < int(decl.ChildCount()); i++ {
		child := decl.Child(i)
		if child.Type() != "extends_type_clause" {
			continue
		}
		var names []string
		for j := 0; j < int(child.NamedChildCount()); j++ {
			names = append(names, nodeString(child.NamedChild(j), src))
		}
		sort.Strings(names)
		return "extends:" + strings.Join(names, ",")
	}
	return ""
}

// variableShape records the declaration keyword, the declared names in
// source order, and a coarse tag for the first initializer.
func variableShape(decl *sitter.Node, src *source.Text) string {
	keyword := ""
	if kw := decl.Child(0); kw != nil {
		keyword = kw.Type()
	}
	var names []string
	tag := ""
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		d := decl.NamedChild(i)
		if d.Type() != "variable_declarator" {
			continue
		}
		if name := d.ChildByFieldName("name"); name != nil {
			names = append(names, strings.Join(strings.Fields(nodeString(name, src)), ""))
		}
		if tag == "" {
			tag = valueTag(d.ChildByFieldName("value"))
		}
	}
	return keyword + ";" + strings.Join(names, ",") + ";" + tag
}

func propertyTag(n *sitter.Node) string {
	switch n.Type() {
	case "pair":
		return valueTag(n.ChildByFieldName("value"))
	case "shorthand_property_identifier":
		return "shorthand"
	case "method_definition":
		return "method;" + paramShape(n)
	}
	return n.Type()
}

func attrValueTag(n *sitter.Node) string {
	// jsx_attribute: name [= value]; a bare attribute has one child.
	if n.ChildCount() < 2 {
		return "bare"
	}
	return valueTag(n.Child(int(n.ChildCount()) - 1))
}

// valueTag buckets an expression into a coarse category. The bucket
// must survive formatting changes, so it looks only at the node type.
func valueTag(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "arrow_function":
		return "arrow"
	case "function_expression", "function":
		return "function"
	case "call_expression":
		return "call"
	case "object":
		return "object"
	case "array":
		return "array"
	case "new_expression":
		return "new"
	case "string", "template_string", "number", "true", "false", "null", "undefined":
		return "literal"
	case "identifier", "member_expression":
		return "reference"
	case "jsx_expression":
		if inner := n.NamedChild(0); inner != nil {
			return "expr:" + valueTag(inner)
		}
		return "expr"
	}
	return "other"
}

func nodeString(n *sitter.Node, src *source.Text) string {
	return string(src.Slice(n.StartByte(), n.EndByte()))
}
