// Package source provides line-indexed access to a file's bytes.
package source

import (
	"bytes"
	"strings"
)

// Text wraps file content with a line index so that stages can answer
// line-based questions (blank lines, indentation) without rescanning.
type Text struct {
	data     []byte
	lineOffs []uint32 // byte offset of each line start
}

// New builds a Text over content. The content is not copied; callers must
// not mutate it afterwards.
func New(content []byte) *Text {
	t := &Text{data: content}
	t.lineOffs = append(t.lineOffs, 0)
	for i, b := range content {
		if b == '\n' {
			t.lineOffs = append(t.lineOffs, uint32(i+1))
		}
	}
	return t
}

// Bytes returns the underlying content.
func (t *Text) Bytes() []byte {
	return t.data
}

// Len returns the content length in bytes.
func (t *Text) Len() int {
	return len(t.data)
}

// NumLines returns the number of lines. A trailing newline does not start
// a new countable line unless characters follow it.
func (t *Text) NumLines() int {
	n := len(t.lineOffs)
	if n > 0 && int(t.lineOffs[n-1]) == len(t.data) && len(t.data) > 0 {
		return n - 1
	}
	return n
}

// Line returns the content of line row (0-based) without its newline.
// Out-of-range rows return nil.
func (t *Text) Line(row int) []byte {
	if row < 0 || row >= len(t.lineOffs) {
		return nil
	}
	start := t.lineOffs[row]
	end := uint32(len(t.data))
	if row+1 < len(t.lineOffs) {
		end = t.lineOffs[row+1]
	}
	line := t.data[start:end]
	return bytes.TrimRight(line, "\n")
}

// LineStart returns the byte offset where line row begins.
func (t *Text) LineStart(row int) uint32 {
	if row < 0 {
		return 0
	}
	if row >= len(t.lineOffs) {
		return uint32(len(t.data))
	}
	return t.lineOffs[row]
}

// IsBlank reports whether line row is empty or whitespace-only.
// Out-of-range rows count as blank, which matches how the classifier
// treats start-of-file and end-of-file.
func (t *Text) IsBlank(row int) bool {
	if row < 0 || row >= t.NumLines() {
		return true
	}
	return len(bytes.TrimSpace(t.Line(row))) == 0
}

// HasBlankBetween reports whether any blank line exists strictly between
// rows after and before.
func (t *Text) HasBlankBetween(after, before int) bool {
	for row := after + 1; row < before; row++ {
		if t.IsBlank(row) {
			return true
		}
	}
	return false
}

// Indent returns the leading whitespace of line row.
func (t *Text) Indent(row int) string {
	line := t.Line(row)
	trimmed := bytes.TrimLeft(line, " \t")
	return string(line[:len(line)-len(trimmed)])
}

// Slice returns the bytes in [lo, hi).
func (t *Text) Slice(lo, hi uint32) []byte {
	if lo > hi || int(hi) > len(t.data) {
		return nil
	}
	return t.data[lo:hi]
}

// EndsWithNewline reports whether the content ends with a newline.
// Empty content counts as true so that an empty file stays empty.
func (t *Text) EndsWithNewline() bool {
	if len(t.data) == 0 {
		return true
	}
	return t.data[len(t.data)-1] == '\n'
}

// IsBlankLine reports whether a raw line (no newline) is whitespace-only.
func IsBlankLine(line string) bool {
	return len(strings.TrimSpace(line)) == 0
}

// LineIndent returns the leading whitespace of a raw line.
func LineIndent(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	return line[:len(line)-len(trimmed)]
}
