// Package similarity measures how far apart two search queries are.
package similarity

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Distance returns the Levenshtein edit distance between the case-folded
// forms of a and b. Distances are counted in runes, not bytes.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(strings.ToLower(a), strings.ToLower(b))
}

// Within reports whether a and b are at most max edits apart.
func Within(a, b string, max int) bool {
	return Distance(a, b) <= max
}
