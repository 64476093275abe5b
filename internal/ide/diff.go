package ide

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// RenderUnifiedDiff renders a unified diff between before and after,
// labeling the two sides with path, for previewing a refactor or
// quick fix before it's applied.
func RenderUnifiedDiff(path, before, after string, context int) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: path,
		ToFile:   path,
		Context:  context,
	}
	return difflib.GetUnifiedDiffString(diff)
}

// IsNoOpDiff reports whether before and after are identical once
// trailing newlines are ignored — used to skip
// emitting an empty quick-fix preview.
func IsNoOpDiff(before, after string) bool {
	return strings.TrimRight(before, "\n") == strings.TrimRight(after, "\n")
}
