package ide

import (
	"fmt"
	"strings"

	"github.com/nova-lang/nova/internal/typecheck"
)

// CodeAction is one quick fix offered for a diagnostic: a label plus
// the edit applying it.
type CodeAction struct {
	Title string
	Edit  *WorkspaceEdit
}

// QuickFixOptions carries the call-site context a mechanical fix needs
// but a Diagnostic alone doesn't record.
type QuickFixOptions struct {
	// UnresolvedName is the symbol text the diagnostic's range spans —
	// the identifier to stub out for an unresolved-method fix.
	UnresolvedName string
	// StaticContext reports whether the unresolved reference occurred
	// in a static member, so the generated stub matches (a static call
	// site can only ever resolve to a static stub).
	StaticContext bool
}

// QuickFixes returns every quick fix available for diag. An
// unrecognized or fix-less diagnostic code returns no actions: most
// diagnostics (type mismatches, ambiguous overloads) need a human
// decision, not a mechanical fix.
func QuickFixes(path, text string, diag typecheck.Diagnostic, opts QuickFixOptions) []CodeAction {
	switch diag.Code {
	case typecheck.CodeUnusedImport:
		return removeUnusedImportFix(path, text, diag)
	case typecheck.CodeUnresolvedMethod:
		return createMethodStubFix(path, text, opts)
	default:
		return nil
	}
}

// removeUnusedImportFix deletes the whole source line the diagnostic's
// range falls on, per spec.md's unused-import diagnostic always
// spanning exactly one import declaration.
func removeUnusedImportFix(path, text string, diag typecheck.Diagnostic) []CodeAction {
	lineStarts := lineStartOffsets(text)
	line := 0
	offset := int(diag.Range.Start)
	for i, s := range lineStarts {
		if s > offset {
			break
		}
		line = i
	}
	lineStart := lineStarts[line]
	lineEnd := len(text)
	if line+1 < len(lineStarts) {
		lineEnd = lineStarts[line+1]
	}

	edit := NewWorkspaceEdit()
	edit.Add(path, TextEdit{
		Range:   Range{Start: positionOf(lineStarts, lineStart), End: positionOf(lineStarts, lineEnd)},
		NewText: "",
	})
	if err := edit.Validate(); err != nil {
		return nil
	}
	return []CodeAction{{Title: "Remove unused import", Edit: edit}}
}

// createMethodStubFix inserts a private stub method named
// opts.UnresolvedName right before the file's last closing brace, with
// an Object varargs signature loose enough to satisfy any call shape —
// the same "Object... args" placeholder the reference quick fix uses,
// since neither side has resolved argument types at the point an
// unresolved-method diagnostic fires.
func createMethodStubFix(path, text string, opts QuickFixOptions) []CodeAction {
	if opts.UnresolvedName == "" {
		return nil
	}
	lastBrace := strings.LastIndexByte(text, '}')
	if lastBrace < 0 {
		return nil
	}

	modifier := "private "
	if opts.StaticContext {
		modifier = "private static "
	}
	stub := fmt.Sprintf("    %sObject %s(Object... args) {\n        return null;\n    }\n", modifier, opts.UnresolvedName)

	lineStarts := lineStartOffsets(text)
	insertPos := positionOf(lineStarts, lastBrace)

	edit := NewWorkspaceEdit()
	edit.Add(path, TextEdit{Range: Range{Start: insertPos, End: insertPos}, NewText: stub})
	if err := edit.Validate(); err != nil {
		return nil
	}
	return []CodeAction{{Title: fmt.Sprintf("Create method '%s'", opts.UnresolvedName), Edit: edit}}
}

// createFieldStubFix inserts a private Object field named
// opts.UnresolvedName right before the file's last closing brace.
// Unlike createMethodStubFix this isn't wired to a Diagnostic code: the
// checker emits no diagnostic for a field read it cannot resolve, so
// callers that have found such a read invoke it directly.
func createFieldStubFix(path, text string, opts QuickFixOptions) []CodeAction {
	if opts.UnresolvedName == "" {
		return nil
	}
	lastBrace := strings.LastIndexByte(text, '}')
	if lastBrace < 0 {
		return nil
	}

	stub := fmt.Sprintf("    private Object %s;\n", opts.UnresolvedName)

	lineStarts := lineStartOffsets(text)
	insertPos := positionOf(lineStarts, lastBrace)

	edit := NewWorkspaceEdit()
	edit.Add(path, TextEdit{Range: Range{Start: insertPos, End: insertPos}, NewText: stub})
	if err := edit.Validate(); err != nil {
		return nil
	}
	return []CodeAction{{Title: fmt.Sprintf("Create field '%s'", opts.UnresolvedName), Edit: edit}}
}

// CreateFieldQuickFix is createFieldStubFix's exported entry point,
// kept separate from QuickFixes since no diagnostic code maps to it
// (see createFieldStubFix's doc comment).
func CreateFieldQuickFix(path, text string, opts QuickFixOptions) []CodeAction {
	return createFieldStubFix(path, text, opts)
}
