package ide

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-lang/nova/internal/corepkg"
	"github.com/nova-lang/nova/internal/typecheck"
)

func TestQuickFixesRemovesUnusedImportLine(t *testing.T) {
	text := "package p;\nimport java.util.List;\nclass A {}\n"
	start := uint32(len("package p;\n"))
	diag := typecheck.Diagnostic{
		Code:  typecheck.CodeUnusedImport,
		Range: corepkg.TextRange{Start: start, End: start + uint32(len("import java.util.List;"))},
	}

	actions := QuickFixes("A.java", text, diag, QuickFixOptions{})
	require.Len(t, actions, 1)
	out := ApplyEdits(text, actions[0].Edit.Changes["A.java"])
	assert.Equal(t, "package p;\nclass A {}\n", out)
}

func TestQuickFixesCreatesMethodStub(t *testing.T) {
	text := "class A { void m() { foo(1, 2); } }"
	diag := typecheck.Diagnostic{Code: typecheck.CodeUnresolvedMethod}

	actions := QuickFixes("A.java", text, diag, QuickFixOptions{UnresolvedName: "foo"})
	require.Len(t, actions, 1)
	assert.Equal(t, "Create method 'foo'", actions[0].Title)

	out := ApplyEdits(text, actions[0].Edit.Changes["A.java"])
	assert.Contains(t, out, "private Object foo(Object... args)")
	stubIdx := strings.Index(out, "private Object foo(Object... args)")
	lastBrace := strings.LastIndex(out, "}")
	assert.Less(t, stubIdx, lastBrace)
}

func TestQuickFixesCreatesStaticMethodStubInStaticContext(t *testing.T) {
	text := "class A { static void m() { foo(); } }"
	diag := typecheck.Diagnostic{Code: typecheck.CodeUnresolvedMethod}

	actions := QuickFixes("A.java", text, diag, QuickFixOptions{UnresolvedName: "foo", StaticContext: true})
	require.Len(t, actions, 1)
	out := ApplyEdits(text, actions[0].Edit.Changes["A.java"])
	assert.Contains(t, out, "private static Object foo(Object... args)")
}

func TestCreateFieldQuickFixInsertsFieldStub(t *testing.T) {
	text := "class A { void m() { System.out.println(this.bar); } }"
	actions := CreateFieldQuickFix("A.java", text, QuickFixOptions{UnresolvedName: "bar"})
	require.Len(t, actions, 1)
	assert.Equal(t, "Create field 'bar'", actions[0].Title)

	out := ApplyEdits(text, actions[0].Edit.Changes["A.java"])
	assert.Contains(t, out, "private Object bar;")
}

func TestQuickFixesUnknownCodeReturnsNothing(t *testing.T) {
	diag := typecheck.Diagnostic{Code: typecheck.CodeTypeMismatch}
	assert.Empty(t, QuickFixes("A.java", "class A {}", diag, QuickFixOptions{}))
}
