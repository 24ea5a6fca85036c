package doc

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tsreorg/tsreorg/internal/source"
)

// topLevelKinds maps statement node types to item kinds. Anything absent
// falls back to KindStatement and never moves.
var topLevelKinds = map[string]Kind{
	"import_statement":               KindImport,
	"function_declaration":           KindFunction,
	"generator_function_declaration": KindFunction,
	"function_signature":             KindFunction,
	"class_declaration":              KindClass,
	"abstract_class_declaration":     KindClass,
	"interface_declaration":          KindInterface,
	"type_alias_declaration":         KindTypeAlias,
	"enum_declaration":               KindEnum,
	"lexical_declaration":            KindVariable,
	"variable_declaration":           KindVariable,
}

// classMemberKinds maps class body children to item kinds.
var classMemberKinds = map[string]Kind{
	"method_definition":         KindMethod,
	"abstract_method_signature": KindMethod,
	"public_field_definition":   KindField,
	"index_signature":           KindIndexSignature,
	"class_static_block":        KindStaticBlock,
}

// objectMemberKinds maps object literal children to item kinds.
var objectMemberKinds = map[string]Kind{
	"pair":                                  KindProperty,
	"shorthand_property_identifier":         KindProperty,
	"method_definition":                     KindProperty,
	"spread_element":                        KindSpread,
	"pair_pattern":                          KindProperty,
	"shorthand_property_identifier_pattern": KindProperty,
}

// punctuation tokens skipped while walking scope children.
var punctuationTypes = map[string]bool{
	"{": true, "}": true, "(": true, ")": true,
	"<": true, ">": true, "/": true, ",": true, ";": true,
}

func nodeText(n *sitter.Node, src *source.Text) string {
	return string(src.Slice(n.StartByte(), n.EndByte()))
}

// normalizeText collapses all whitespace runs to single spaces, giving a
// layout-independent rendering of a node for identity hashing.
func normalizeText(n *sitter.Node, src *source.Text) string {
	return strings.Join(strings.Fields(nodeText(n, src)), " ")
}

// unwrapExport returns the declaration inside an export statement, or the
// node itself when it is not an export wrapper.
func unwrapExport(n *sitter.Node) (decl *sitter.Node, exported bool) {
	if n.Type() != "export_statement" {
		return n, false
	}
	if d := n.ChildByFieldName("declaration"); d != nil {
		return d, true
	}
	return n, true
}

// declName extracts the declared name of a top-level declaration. Variable
// statements return the first declarator's name; destructuring patterns
// return their source text.
func declName(decl *sitter.Node, src *source.Text) string {
	switch decl.Type() {
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(decl.ChildCount()); i++ {
			child := decl.Child(i)
			if child.Type() == "variable_declarator" {
				if name := child.ChildByFieldName("name"); name != nil {
					return nodeText(name, src)
				}
			}
		}
		return ""
	default:
		if name := decl.ChildByFieldName("name"); name != nil {
			return nodeText(name, src)
		}
		return ""
	}
}

// importSource returns the unquoted module path of an import statement.
func importSource(decl *sitter.Node, src *source.Text) string {
	sourceNode := decl.ChildByFieldName("source")
	if sourceNode == nil {
		return ""
	}
	return strings.Trim(nodeText(sourceNode, src), "\"'`")
}

// propertyKey extracts the sort key of an object member, unquoting string
// keys and keeping computed keys verbatim.
func propertyKey(n *sitter.Node, src *source.Text) string {
	switch n.Type() {
	case "pair", "pair_pattern", "method_definition":
		keyNode := n.ChildByFieldName("key")
		if keyNode == nil {
			keyNode = n.ChildByFieldName("name")
		}
		if keyNode == nil {
			return nodeText(n, src)
		}
		switch keyNode.Type() {
		case "string":
			return strings.Trim(nodeText(keyNode, src), "\"'`")
		default:
			return nodeText(keyNode, src)
		}
	case "shorthand_property_identifier", "shorthand_property_identifier_pattern":
		return nodeText(n, src)
	default:
		return nodeText(n, src)
	}
}

// memberName extracts a class member's name.
func memberName(n *sitter.Node, src *source.Text) string {
	if name := n.ChildByFieldName("name"); name != nil {
		switch name.Type() {
		case "string":
			return strings.Trim(nodeText(name, src), "\"'`")
		default:
			return nodeText(name, src)
		}
	}
	return ""
}

// memberModifiers scans a class member's children for static and accessor
// markers.
func memberModifiers(n *sitter.Node) (static bool, accessor string) {
	for i := 0; i < int(n.ChildCount()); i++ {
		switch n.Child(i).Type() {
		case "static":
			static = true
		case "get":
			accessor = "get"
		case "set":
			accessor = "set"
		}
	}
	return static, accessor
}

// attrName extracts a JSX attribute's name.
func attrName(n *sitter.Node, src *source.Text) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() == "property_identifier" || child.Type() == "jsx_namespace_name" {
			return nodeText(child, src)
		}
	}
	return ""
}

// sameNode compares nodes by span and type; tree-sitter node wrappers are
// not pointer-stable across lookups.
func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}
