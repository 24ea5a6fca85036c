// Package doc builds the document model: the reorderable items and scopes
// of a parsed file, together with the anchor-keyed comment store.
package doc

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tsreorg/tsreorg/internal/comments"
	"github.com/tsreorg/tsreorg/internal/parse"
	"github.com/tsreorg/tsreorg/internal/source"
)

// Kind identifies what an item is, which drives identity, sorting
// eligibility, and printing.
type Kind int

const (
	KindImport Kind = iota
	KindFunction
	KindClass
	KindInterface
	KindTypeAlias
	KindEnum
	KindVariable
	KindStatement

	KindField
	KindMethod
	KindCtor
	KindStaticBlock
	KindIndexSignature

	KindProperty
	KindSpread

	KindJSXAttr
	KindJSXSpread

	KindOther
)

// ScopeKind identifies the container a reorder unit lives in.
type ScopeKind int

const (
	ScopeTopLevel ScopeKind = iota
	ScopeClassBody
	ScopeObjectLiteral
	ScopeJSXAttributes
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeTopLevel:
		return "top-level"
	case ScopeClassBody:
		return "class body"
	case ScopeObjectLiteral:
		return "object literal"
	case ScopeJSXAttributes:
		return "jsx attributes"
	}
	return "unknown"
}

// Splice is a byte-range replacement applied to original text.
type Splice struct {
	Start uint32
	End   uint32
	Text  []byte
}

// Item is one reorderable unit inside a scope.
type Item struct {
	Node *sitter.Node // full node, including an export wrapper
	Decl *sitter.Node // unwrapped declaration; equals Node unless exported

	Kind     Kind
	Name     string // declared name, property key, attribute name, module path for imports
	Exported bool
	Static   bool   // class members
	Accessor string // "get", "set", or ""

	// Syntax span, extended over a following member semicolon.
	StartByte uint32
	EndByte   uint32
	StartRow  int
	EndRow    int
	EndCol    int

	// Emission span, additionally extended over absorbed inline comments.
	PrintStart uint32
	PrintEnd   uint32

	Index      int  // position in the scope's original order
	BlankAfter bool // blank line between this and the next original item

	Comma *sitter.Node // object properties: the separating comma, if any

	Scopes   []*Scope // nested reorder units owned by this item
	Rewrites []Splice // in-place rewrites (sorted specifiers, unions)
}

// Scope is a reorder unit: a run of items plus the bookkeeping needed to
// rebuild its text.
type Scope struct {
	Kind      ScopeKind
	Owner     *Item  // nearest enclosing item; nil for the top level
	ClassName string // class body scopes: the declared class name

	Items []*Item
	Depth int

	// Container node span; the rebuilt text replaces exactly this range.
	StartByte uint32
	EndByte   uint32
	OpenRow   int
	CloseRow  int

	// Verbatim framing inside the container: everything up to PrefixEnd
	// (the opening brace, directive comment, or JSX element name) and
	// everything from SuffixStart (the closing delimiter) is copied
	// through unchanged by the printer.
	PrefixEnd   uint32
	SuffixStart uint32

	// Object scopes: the keep-sorted directive comment, re-emitted at the
	// top of the rebuilt object.
	Directive *Directive

	// JSX attribute scopes: element name and closing delimiter.
	ElementName string
	SelfClosing bool

	// Comments in an item-less scope; surfaced as standalone fallbacks.
	Orphans []comments.Comment

	// Whether any comment was anchored in this scope.
	HasStoreComments bool
}

// Directive is a keep-sorted annotation found inside an object literal.
type Directive struct {
	Text     string
	StartRow int
}

// Document is the built model for one file.
type Document struct {
	Src    *source.Text
	Flavor parse.Flavor
	Root   *Scope
	Scopes []*Scope // all scopes, parents before children
	Store  *comments.Store
}

// SpliceAll applies replacements to a copy of base, where base starts at
// byte offset baseOff in the original file. Replacements are applied
// end-to-start so earlier offsets stay valid.
func SpliceAll(base []byte, baseOff uint32, splices []Splice) []byte {
	if len(splices) == 0 {
		return base
	}
	sorted := make([]Splice, len(splices))
	copy(sorted, splices)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start > sorted[j].Start
	})

	out := make([]byte, len(base))
	copy(out, base)
	for _, sp := range sorted {
		start := int(sp.Start - baseOff)
		end := int(sp.End - baseOff)
		if start < 0 || end > len(out) || start > end {
			continue
		}
		before := out[:start]
		after := out[end:]
		merged := make([]byte, 0, len(before)+len(sp.Text)+len(after))
		merged = append(merged, before...)
		merged = append(merged, sp.Text...)
		merged = append(merged, after...)
		out = merged
	}
	return out
}
