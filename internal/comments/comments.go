// Package comments models source comments and classifies their structural
// role relative to the surrounding code.
package comments

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tsreorg/tsreorg/internal/source"
)

// Kind distinguishes line comments from block comments.
type Kind int

const (
	Line Kind = iota
	Block
)

// Comment is an immutable record of one source comment. Text includes the
// comment markers; rows and columns are 0-based byte positions taken from
// the parse tree.
type Comment struct {
	Kind      Kind
	Text      string
	StartByte uint32
	EndByte   uint32
	StartRow  int
	StartCol  int
	EndRow    int
	EndCol    int
}

// FromNode builds a Comment from a tree-sitter comment node.
func FromNode(n *sitter.Node, src *source.Text) Comment {
	text := string(src.Slice(n.StartByte(), n.EndByte()))
	kind := Line
	if strings.HasPrefix(text, "/*") {
		kind = Block
	}
	return Comment{
		Kind:      kind,
		Text:      text,
		StartByte: n.StartByte(),
		EndByte:   n.EndByte(),
		StartRow:  int(n.StartPoint().Row),
		StartCol:  int(n.StartPoint().Column),
		EndRow:    int(n.EndPoint().Row),
		EndCol:    int(n.EndPoint().Column),
	}
}

// Classification is the structural role of a comment.
type Classification int

const (
	// Inline comments sit between code on a single line and travel with
	// the surrounding text.
	Inline Classification = iota
	// Leading comments sit on their own line directly above code.
	Leading
	// Trailing comments follow code at the end of its line.
	Trailing
	// Standalone comments are isolated by blank lines on both sides and
	// belong to no node.
	Standalone
)

func (c Classification) String() string {
	switch c {
	case Inline:
		return "inline"
	case Leading:
		return "leading"
	case Trailing:
		return "trailing"
	case Standalone:
		return "standalone"
	}
	return "unknown"
}

// codeBefore reports whether text contains characters that read as code
// when they appear before a comment: identifiers, closers, semicolons.
func codeBefore(text []byte) bool {
	for _, b := range text {
		switch {
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
			return true
		case b == '_' || b == '$' || b == ')' || b == ']' || b == '}' || b == ';':
			return true
		}
	}
	return false
}

// codeAfter reports whether text after a comment contains anything beyond
// whitespace and trailing separators.
func codeAfter(text []byte) bool {
	s := strings.TrimSpace(string(text))
	s = strings.TrimRight(s, ";),")
	return strings.TrimSpace(s) != ""
}

// Classify determines the structural role of a comment from source text
// alone. It is a pure function and yields the same answer however many
// times it runs over the same input.
func Classify(c Comment, src *source.Text) Classification {
	startLine := src.Line(c.StartRow)
	var before []byte
	if c.StartCol <= len(startLine) {
		before = startLine[:c.StartCol]
	}
	endLine := src.Line(c.EndRow)
	var after []byte
	if c.EndCol <= len(endLine) {
		after = endLine[c.EndCol:]
	}

	hasBefore := codeBefore(before)
	hasAfter := codeAfter(after)

	switch {
	case hasBefore && hasAfter:
		return Inline
	case hasBefore:
		return Trailing
	case hasAfter:
		return Inline
	}

	if src.IsBlank(c.StartRow-1) && src.IsBlank(c.EndRow+1) {
		return Standalone
	}
	return Leading
}
