// Package diff renders unified diffs for dry runs.
package diff

import (
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Unified returns a unified diff between the current and formatted
// content, labeled a/ and b/ the way git presents them. Identical
// inputs produce an empty string.
func Unified(path string, before, after []byte) string {
	edits := myers.ComputeEdits(span.URIFromPath(path), string(before), string(after))
	return fmt.Sprint(gotextdiff.ToUnified("a/"+path, "b/"+path, string(before), edits))
}
