package ide

import (
	"sort"
	"strings"
)

// CompletionTrigger classifies the cursor context a completion request
// was issued from, each driving its own candidate-generation strategy.
type CompletionTrigger int

const (
	TriggerNone CompletionTrigger = iota
	// TriggerDot covers both member access ("expr.") and postfix
	// templates ("cond.if"): both share the trailing-dot shape, and
	// disambiguating them requires the receiver's resolved type, which
	// belongs to the candidate-generation strategy, not trigger
	// detection.
	TriggerDot
	TriggerImportPath
	TriggerTypePosition
)

// DetectTrigger classifies the text immediately before the cursor.
func DetectTrigger(beforeCursor string) CompletionTrigger {
	trimmed := strings.TrimRight(beforeCursor, " \t")
	if isImportContext(trimmed) {
		return TriggerImportPath
	}
	if strings.HasSuffix(trimmed, ".") {
		return TriggerDot
	}
	if isTypePosition(trimmed) {
		return TriggerTypePosition
	}
	return TriggerNone
}

func isImportContext(trimmed string) bool {
	lastLine := trimmed
	if i := strings.LastIndexByte(trimmed, '\n'); i >= 0 {
		lastLine = trimmed[i+1:]
	}
	return strings.HasPrefix(strings.TrimLeft(lastLine, " \t"), "import ")
}

func isTypePosition(trimmed string) bool {
	if trimmed == "new" || strings.HasSuffix(trimmed, " new") {
		return true
	}
	return false
}

// CompletionKind mirrors the LSP completion item kinds this surface
// emits (a subset: the ones the candidate generators below produce).
type CompletionKind int

const (
	KindVariable CompletionKind = iota
	KindField
	KindMethod
	KindType
	KindPackage
	KindKeyword
)

// CompletionItem is one candidate offered to the client.
type CompletionItem struct {
	Label      string
	Detail     string
	Kind       CompletionKind
	SortKey    string
	InsertText string
	FilterText string
}

// DefaultCompletionCap bounds the number of items returned when a
// caller doesn't override it.
const DefaultCompletionCap = 50

// Rank orders completion results deterministically: every contextual
// item (already filtered for the trigger's strategy) first, sorted by
// SortKey, then every global fuzzy-matched symbol, also sorted by
// SortKey, with contextual items taking priority on a duplicate
// InsertText. The combined list is capped at limit (DefaultCompletionCap
// if limit <= 0).
func Rank(contextual, global []CompletionItem, limit int) []CompletionItem {
	if limit <= 0 {
		limit = DefaultCompletionCap
	}

	sortBySortKey(contextual)
	sortBySortKey(global)

	seen := make(map[string]bool, len(contextual))
	out := make([]CompletionItem, 0, limit)
	for _, item := range contextual {
		if len(out) >= limit {
			return out
		}
		seen[item.InsertText] = true
		out = append(out, item)
	}
	for _, item := range global {
		if len(out) >= limit {
			break
		}
		if seen[item.InsertText] {
			continue
		}
		seen[item.InsertText] = true
		out = append(out, item)
	}
	return out
}

func sortBySortKey(items []CompletionItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SortKey < items[j].SortKey
	})
}

// FuzzyMatch reports whether candidate loosely matches query: every
// rune of query must appear in candidate in order (a subsequence
// match), case-insensitively. This is the filter global symbol search
// applies before ranking.
func FuzzyMatch(query, candidate string) bool {
	query = strings.ToLower(query)
	candidate = strings.ToLower(candidate)
	qi := 0
	for i := 0; i < len(candidate) && qi < len(query); i++ {
		if candidate[i] == query[qi] {
			qi++
		}
	}
	return qi == len(query)
}
