package ide

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectTriggerDot(t *testing.T) {
	assert.Equal(t, TriggerDot, DetectTrigger("foo."))
}

func TestDetectTriggerImportPath(t *testing.T) {
	assert.Equal(t, TriggerImportPath, DetectTrigger("import java.util."))
}

func TestDetectTriggerTypePosition(t *testing.T) {
	assert.Equal(t, TriggerTypePosition, DetectTrigger("List<String> xs = new"))
}

func TestDetectTriggerNone(t *testing.T) {
	assert.Equal(t, TriggerNone, DetectTrigger("int x = "))
}

func TestRankPutsContextualBeforeGlobal(t *testing.T) {
	contextual := []CompletionItem{{Label: "length", SortKey: "b", InsertText: "length"}}
	global := []CompletionItem{{Label: "abstract", SortKey: "a", InsertText: "abstract"}}

	ranked := Rank(contextual, global, 10)
	assert := assert.New(t)
	assert.Len(ranked, 2)
	assert.Equal("length", ranked[0].InsertText)
	assert.Equal("abstract", ranked[1].InsertText)
}

func TestRankDedupesPreferringContextual(t *testing.T) {
	contextual := []CompletionItem{{Label: "size", SortKey: "a", InsertText: "size", Detail: "contextual"}}
	global := []CompletionItem{{Label: "size", SortKey: "a", InsertText: "size", Detail: "global"}}

	ranked := Rank(contextual, global, 10)
	assert := assert.New(t)
	assert.Len(ranked, 1)
	assert.Equal("contextual", ranked[0].Detail)
}

func TestRankRespectsCap(t *testing.T) {
	var global []CompletionItem
	for i := 0; i < 100; i++ {
		global = append(global, CompletionItem{Label: "x", SortKey: string(rune('a' + i%26)), InsertText: string(rune('a' + i))})
	}
	ranked := Rank(nil, global, 0)
	assert.Len(t, ranked, DefaultCompletionCap)
}

func TestFuzzyMatchSubsequence(t *testing.T) {
	assert.True(t, FuzzyMatch("gdn", "getDefinitionName"))
	assert.False(t, FuzzyMatch("xyz", "getDefinitionName"))
}
