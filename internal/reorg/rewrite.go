package reorg

import (
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tsreorg/tsreorg/internal/doc"
	"github.com/tsreorg/tsreorg/internal/source"
)

// specifierRewrite sorts the named specifier list of an import in place.
// Returns nil when there is nothing to sort: no named list, a multi-line
// list, a commented list, or an already sorted one.
func specifierRewrite(it *doc.Item, src *source.Text) *doc.Splice {
	var named *sitter.Node
	for i := 0; i < int(it.Decl.ChildCount()); i++ {
		child := it.Decl.Child(i)
		if child.Type() != "import_clause" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			if cl := child.Child(j); cl.Type() == "named_imports" {
				named = cl
			}
		}
	}
	if named == nil || isMultiLine(named) || hasComment(named) {
		return nil
	}

	var specs []*sitter.Node
	for i := 0; i < int(named.NamedChildCount()); i++ {
		if spec := named.NamedChild(i); spec.Type() == "import_specifier" {
			specs = append(specs, spec)
		}
	}
	if len(specs) < 2 {
		return nil
	}

	texts := make([]string, len(specs))
	for i, spec := range specs {
		texts[i] = string(src.Slice(spec.StartByte(), spec.EndByte()))
	}
	sorted := append([]string(nil), texts...)
	sort.SliceStable(sorted, func(i, j int) bool { return compareKeys(sorted[i], sorted[j]) })
	if equalStrings(texts, sorted) {
		return nil
	}

	return &doc.Splice{
		Start: specs[0].StartByte(),
		End:   specs[len(specs)-1].EndByte(),
		Text:  []byte(strings.Join(sorted, ", ")),
	}
}

// unionRewrite sorts the members of a single-line union type alias.
func unionRewrite(it *doc.Item, src *source.Text) *doc.Splice {
	value := it.Decl.ChildByFieldName("value")
	if value == nil || value.Type() != "union_type" || isMultiLine(value) || hasComment(value) {
		return nil
	}

	members := unionMembers(value)
	if len(members) < 2 {
		return nil
	}

	texts := make([]string, len(members))
	for i, m := range members {
		texts[i] = string(src.Slice(m.StartByte(), m.EndByte()))
	}
	sorted := append([]string(nil), texts...)
	sort.SliceStable(sorted, func(i, j int) bool { return compareKeys(sorted[i], sorted[j]) })
	if equalStrings(texts, sorted) {
		return nil
	}

	return &doc.Splice{
		Start: value.StartByte(),
		End:   value.EndByte(),
		Text:  []byte(strings.Join(sorted, " | ")),
	}
}

// unionMembers flattens a nested union chain into its member types.
func unionMembers(n *sitter.Node) []*sitter.Node {
	if n.Type() != "union_type" {
		return []*sitter.Node{n}
	}
	var out []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() == "|" {
			continue
		}
		out = append(out, unionMembers(child)...)
	}
	return out
}

func isMultiLine(n *sitter.Node) bool {
	return n.StartPoint().Row != n.EndPoint().Row
}

func hasComment(n *sitter.Node) bool {
	if strings.Contains(n.Type(), "comment") {
		return true
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if hasComment(n.Child(i)) {
			return true
		}
	}
	return false
}

func equalStrings(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
