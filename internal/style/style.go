// Package style is the last pass over produced text. It never reorders
// anything; it only trims trailing whitespace and normalizes the final
// newline to match the input file.
package style

import (
	"bytes"
	"strings"
)

// Apply strips trailing spaces and tabs from every line and makes the
// text end with exactly one newline when finalNewline is set, none
// otherwise.
func Apply(text []byte, finalNewline bool) []byte {
	lines := strings.Split(string(text), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	out := strings.Join(lines, "\n")
	out = strings.TrimRight(out, "\n")
	if finalNewline && out != "" {
		out += "\n"
	}
	return []byte(out)
}

// Changed reports whether formatting altered the content.
func Changed(before, after []byte) bool {
	return !bytes.Equal(before, after)
}
