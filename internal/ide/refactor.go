package ide

import (
	"fmt"
	"strings"
)

// ExtractKind distinguishes what shape of declaration an extraction
// introduces.
type ExtractKind int

const (
	ExtractVariable ExtractKind = iota
	ExtractConstant
	ExtractField
)

// ExtractOptions mirrors the reference extractor's replace-all toggle:
// when set, every other literal occurrence of the extracted
// expression's text is rewritten to reference the new declaration too,
// not just the selected occurrence.
type ExtractOptions struct {
	ReplaceAll bool
}

// ExtractToDeclaration turns the expression spanning selection into a
// new declaration of kind, inserted on its own line immediately before
// the line selection starts on, and rewrites the extracted
// expression's text to declName at the selection site (and, with
// ReplaceAll, at every other literal occurrence of the same text in
// the file). Matching is purely textual rather than scope-aware: Nova's
// IDE surface has no expression-level AST to walk for true occurrence
// resolution, so "replace all" here is an approximation a caller should
// only offer for selections confirmed side-effect-free and free of
// shadowing.
//
// declaredType names the type the new declaration is given explicitly.
// It may be left empty only for ExtractVariable, where Java's local
// type inference ("var") applies; ExtractConstant and ExtractField
// declare fields, which Java has no inferred-type form for, so an
// empty declaredType there is an error.
func ExtractToDeclaration(path, text string, selection Range, kind ExtractKind, declaredType, declName string, opts ExtractOptions) (*WorkspaceEdit, error) {
	if declaredType == "" && kind != ExtractVariable {
		return nil, fmt.Errorf("ide: extracted field/constant needs an explicit type")
	}

	lineStarts := lineStartOffsets(text)
	startOff := offsetOf(lineStarts, text, selection.Start)
	endOff := offsetOf(lineStarts, text, selection.End)
	if endOff <= startOff {
		return nil, fmt.Errorf("ide: empty selection")
	}
	exprText := text[startOff:endOff]
	if strings.TrimSpace(exprText) == "" {
		return nil, fmt.Errorf("ide: selection is blank")
	}

	stmtLineStart := lineStarts[selection.Start.Line]
	indent := leadingWhitespace(text[stmtLineStart:])

	decl := declarationText(kind, indent, declaredType, declName, exprText)

	edit := NewWorkspaceEdit()
	insertPos := positionOf(lineStarts, stmtLineStart)
	edit.Add(path, TextEdit{Range: Range{Start: insertPos, End: insertPos}, NewText: decl})

	if opts.ReplaceAll {
		for _, r := range findLiteralOccurrences(text, lineStarts, exprText) {
			edit.Add(path, TextEdit{Range: r, NewText: declName})
		}
	} else {
		edit.Add(path, TextEdit{Range: selection, NewText: declName})
	}

	if err := edit.Validate(); err != nil {
		return nil, err
	}
	return edit, nil
}

func declarationText(kind ExtractKind, indent, declaredType, declName, exprText string) string {
	switch kind {
	case ExtractConstant:
		return fmt.Sprintf("%sprivate static final %s %s = %s;\n", indent, declaredType, declName, exprText)
	case ExtractField:
		return fmt.Sprintf("%sprivate %s %s = %s;\n", indent, declaredType, declName, exprText)
	default:
		ty := declaredType
		if ty == "" {
			ty = "var"
		}
		return fmt.Sprintf("%s%s %s = %s;\n", indent, ty, declName, exprText)
	}
}

func leadingWhitespace(lineAndRest string) string {
	i := 0
	for i < len(lineAndRest) && (lineAndRest[i] == ' ' || lineAndRest[i] == '\t') {
		i++
	}
	return lineAndRest[:i]
}

func positionOf(lineStarts []int, offset int) Position {
	line := 0
	for i, start := range lineStarts {
		if start > offset {
			break
		}
		line = i
	}
	return Position{Line: line, Column: offset - lineStarts[line]}
}

// findLiteralOccurrences returns the Range of every non-overlapping
// occurrence of needle in text.
func findLiteralOccurrences(text string, lineStarts []int, needle string) []Range {
	var out []Range
	if needle == "" {
		return out
	}
	for offset := 0; ; {
		idx := strings.Index(text[offset:], needle)
		if idx < 0 {
			break
		}
		start := offset + idx
		end := start + len(needle)
		out = append(out, Range{Start: positionOf(lineStarts, start), End: positionOf(lineStarts, end)})
		offset = end
	}
	return out
}

// ExtractMethodOptions names where the extracted method body is
// inserted: insertAt is the position of the enclosing method's closing
// brace (the caller resolves this from the HIR, since this package has
// no statement-level AST of its own).
type ExtractMethodOptions struct {
	InsertAt Position
	Indent   string
}

// ExtractMethod lifts the statement(s) spanning selection into a new
// private method named methodName, inserted at opts.InsertAt, and
// replaces the selection with a call to it.
func ExtractMethod(path, text string, selection Range, methodName string, opts ExtractMethodOptions) (*WorkspaceEdit, error) {
	lineStarts := lineStartOffsets(text)
	startOff := offsetOf(lineStarts, text, selection.Start)
	endOff := offsetOf(lineStarts, text, selection.End)
	if endOff <= startOff {
		return nil, fmt.Errorf("ide: empty selection")
	}
	body := strings.TrimRight(text[startOff:endOff], "\n")
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("ide: selection is blank")
	}

	decl := fmt.Sprintf("\n%sprivate void %s() {\n%s\n%s}\n", opts.Indent, methodName, reindent(body, opts.Indent+"    "), opts.Indent)

	edit := NewWorkspaceEdit()
	edit.Add(path, TextEdit{Range: Range{Start: opts.InsertAt, End: opts.InsertAt}, NewText: decl})

	edit.Add(path, TextEdit{Range: selection, NewText: fmt.Sprintf("%s();", methodName)})

	if err := edit.Validate(); err != nil {
		return nil, err
	}
	return edit, nil
}

func reindent(body, indent string) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		lines[i] = indent + trimmed
	}
	return strings.Join(lines, "\n")
}

// InlineMethodOptions mirrors the reference inliner's scope toggle:
// RemoveDeclaration also deletes the now-unused method declaration,
// appropriate only when the caller has confirmed this was its only
// usage (typically opts.InlineAll in the originating request).
type InlineMethodOptions struct {
	RemoveDeclaration bool
	DeclarationRange  Range
}

// InlineMethod replaces a single call site (callRange) with the
// target method's body text, optionally deleting the declaration too.
// methodBody is the already-extracted statement text to splice in; the
// caller resolves it via navigation (Index.FindMethodDeclaration) plus
// the source text for that method, since this package doesn't parse
// method bodies itself.
func InlineMethod(path string, callRange Range, methodBody string, opts InlineMethodOptions) (*WorkspaceEdit, error) {
	edit := NewWorkspaceEdit()
	edit.Add(path, TextEdit{Range: callRange, NewText: methodBody})
	if opts.RemoveDeclaration {
		edit.Add(path, TextEdit{Range: opts.DeclarationRange, NewText: ""})
	}
	if err := edit.Validate(); err != nil {
		return nil, err
	}
	return edit, nil
}
