package reorg

import (
	"fmt"
)

// compareKeys orders two object keys with type-aware comparison: numeric
// keys compare as numbers, booleans put false before true, everything
// else falls back to plain string order.
func compareKeys(a, b string) bool {
	var numA, numB float64
	_, errA := fmt.Sscanf(a, "%f", &numA)
	_, errB := fmt.Sscanf(b, "%f", &numB)
	if errA == nil && errB == nil {
		return numA < numB
	}

	if (a == "true" || a == "false") && (b == "true" || b == "false") {
		return a == "false" && b == "true"
	}

	return a < b
}
