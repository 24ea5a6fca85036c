package reorg

import (
	"fmt"
	"strings"
)

// directiveOptions are the settings an object's keep-sorted annotation
// can carry after the directive tag.
type directiveOptions struct {
	WithNewline bool
}

// parseDirectiveOptions reads the option words following "keep-sorted"
// inside the directive comment. An unknown option invalidates the whole
// directive; the object is then left untouched rather than half-sorted.
func parseDirectiveOptions(text string) (directiveOptions, error) {
	var opts directiveOptions

	parts := strings.SplitN(text, "keep-sorted", 2)
	if len(parts) < 2 {
		return opts, nil
	}
	rest := parts[1]
	if end := strings.Index(rest, "*/"); end >= 0 {
		rest = rest[:end]
	}

	// Multiline doc-style comments prefix continuation lines with "*".
	var cleaned []string
	for _, line := range strings.Split(rest, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	for _, opt := range strings.Fields(strings.Join(cleaned, " ")) {
		switch opt {
		case "with-newline":
			opts.WithNewline = true
		default:
			return opts, fmt.Errorf("unknown keep-sorted option %q", opt)
		}
	}
	return opts, nil
}
