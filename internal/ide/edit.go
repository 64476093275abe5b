package ide

import (
	"fmt"
	"sort"
)

// Position is a zero-based line/column offset, matching the
// convention the navigation and completion operations use throughout.
type Position struct {
	Line   int
	Column int
}

// Range is a half-open [Start, End) span within one file.
type Range struct {
	Start Position
	End   Position
}

func (r Range) overlaps(o Range) bool {
	return posLess(r.Start, o.End) && posLess(o.Start, r.End)
}

func posLess(a, b Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}

// TextEdit replaces Range's contents with NewText within one file.
type TextEdit struct {
	Range   Range
	NewText string
}

// WorkspaceEdit is a set of TextEdits grouped by file path, the result
// of every refactoring and quick fix in this package.
type WorkspaceEdit struct {
	Changes map[string][]TextEdit
}

// NewWorkspaceEdit returns an empty edit ready to accumulate changes.
func NewWorkspaceEdit() *WorkspaceEdit {
	return &WorkspaceEdit{Changes: make(map[string][]TextEdit)}
}

// Add appends an edit for path. It does not itself check for overlap;
// call Validate once the edit is fully assembled.
func (w *WorkspaceEdit) Add(path string, edit TextEdit) {
	w.Changes[path] = append(w.Changes[path], edit)
}

// Validate enforces the hard invariant every refactoring in this
// package relies on: no two edits to the same file may overlap. A
// violation here means a bug in the refactoring that produced the
// edit, not a recoverable runtime condition — callers should treat it
// as fatal rather than attempt a partial apply.
func (w *WorkspaceEdit) Validate() error {
	for path, edits := range w.Changes {
		sorted := make([]TextEdit, len(edits))
		copy(sorted, edits)
		sort.Slice(sorted, func(i, j int) bool {
			return posLess(sorted[i].Range.Start, sorted[j].Range.Start)
		})
		for i := 1; i < len(sorted); i++ {
			if sorted[i-1].Range.overlaps(sorted[i].Range) {
				return fmt.Errorf("ide: overlapping edits in %s: %+v and %+v", path, sorted[i-1].Range, sorted[i].Range)
			}
		}
	}
	return nil
}

// ApplyEdits rewrites text according to edits, which must already
// satisfy Validate's non-overlap invariant. Edits are applied in
// descending offset order so earlier offsets stay valid as the string
// is rebuilt.
func ApplyEdits(text string, edits []TextEdit) string {
	lineStarts := lineStartOffsets(text)
	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		return posLess(sorted[j].Range.Start, sorted[i].Range.Start) // descending
	})
	for _, e := range sorted {
		start := offsetOf(lineStarts, text, e.Range.Start)
		end := offsetOf(lineStarts, text, e.Range.End)
		text = text[:start] + e.NewText + text[end:]
	}
	return text
}

// lineStartOffsets returns the byte offset each line begins at, with
// index 0 always 0.
func lineStartOffsets(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func offsetOf(lineStarts []int, text string, p Position) int {
	if p.Line >= len(lineStarts) {
		return len(text)
	}
	lineStart := lineStarts[p.Line]
	lineEnd := len(text)
	if p.Line+1 < len(lineStarts) {
		lineEnd = lineStarts[p.Line+1]
	}
	off := lineStart + p.Column
	if off > lineEnd {
		off = lineEnd
	}
	return off
}
