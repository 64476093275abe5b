package ide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVariableInsertsDeclarationAndReplacesSelection(t *testing.T) {
	text := "class A {\n    int x = 1 + 2;\n}\n"
	selection := Range{Start: Position{Line: 1, Column: 12}, End: Position{Line: 1, Column: 17}}

	edit, err := ExtractToDeclaration("A.java", text, selection, ExtractVariable, "", "sum", ExtractOptions{})
	require.NoError(t, err)

	out := ApplyEdits(text, edit.Changes["A.java"])
	assert.Equal(t, "class A {\n    var sum = 1 + 2;\n    int x = sum;\n}\n", out)
}

func TestExtractConstantRequiresExplicitType(t *testing.T) {
	text := "class A {\n    int x = 1 + 2;\n}\n"
	selection := Range{Start: Position{Line: 1, Column: 12}, End: Position{Line: 1, Column: 17}}

	_, err := ExtractToDeclaration("A.java", text, selection, ExtractConstant, "", "SUM", ExtractOptions{})
	assert.Error(t, err)

	edit, err := ExtractToDeclaration("A.java", text, selection, ExtractConstant, "int", "SUM", ExtractOptions{})
	require.NoError(t, err)
	out := ApplyEdits(text, edit.Changes["A.java"])
	assert.Equal(t, "class A {\n    private static final int SUM = 1 + 2;\n    int x = SUM;\n}\n", out)
}

func TestExtractToDeclarationReplaceAllRewritesEveryOccurrence(t *testing.T) {
	text := "class A {\n    int x = 1 + 2;\n    int y = 1 + 2;\n}\n"
	selection := Range{Start: Position{Line: 1, Column: 12}, End: Position{Line: 1, Column: 17}}

	edit, err := ExtractToDeclaration("A.java", text, selection, ExtractVariable, "int", "sum", ExtractOptions{ReplaceAll: true})
	require.NoError(t, err)
	out := ApplyEdits(text, edit.Changes["A.java"])
	assert.Contains(t, out, "int sum = 1 + 2;")
	assert.Contains(t, out, "int x = sum;")
	assert.Contains(t, out, "int y = sum;")
	assert.NotContains(t, out, "1 + 2;\n    int y")
}

func TestExtractToDeclarationRejectsEmptySelection(t *testing.T) {
	text := "class A {}\n"
	selection := Range{Start: Position{Line: 0, Column: 5}, End: Position{Line: 0, Column: 5}}
	_, err := ExtractToDeclaration("A.java", text, selection, ExtractVariable, "", "x", ExtractOptions{})
	assert.Error(t, err)
}

func TestExtractMethodWrapsSelectionAndInsertsCall(t *testing.T) {
	text := "class A {\n    void run() {\n        int a = 1;\n        int b = 2;\n    }\n}\n"
	selection := Range{Start: Position{Line: 2, Column: 0}, End: Position{Line: 4, Column: 0}}
	opts := ExtractMethodOptions{InsertAt: Position{Line: 5, Column: 0}, Indent: "    "}

	edit, err := ExtractMethod("A.java", text, selection, "extracted", opts)
	require.NoError(t, err)
	require.Len(t, edit.Changes["A.java"], 2)

	out := ApplyEdits(text, edit.Changes["A.java"])
	assert.Contains(t, out, "extracted();")
	assert.Contains(t, out, "private void extracted() {")
	assert.Contains(t, out, "int a = 1;")
	assert.Contains(t, out, "int b = 2;")
}

func TestExtractMethodRejectsBlankSelection(t *testing.T) {
	text := "class A {\n    void run() {\n\n    }\n}\n"
	selection := Range{Start: Position{Line: 2, Column: 0}, End: Position{Line: 3, Column: 0}}
	_, err := ExtractMethod("A.java", text, selection, "extracted", ExtractMethodOptions{})
	assert.Error(t, err)
}

func TestInlineMethodReplacesCallSite(t *testing.T) {
	callRange := Range{Start: Position{Line: 3, Column: 8}, End: Position{Line: 3, Column: 19}}
	edit, err := InlineMethod("A.java", callRange, "doWork();", InlineMethodOptions{})
	require.NoError(t, err)
	require.Len(t, edit.Changes["A.java"], 1)
	assert.Equal(t, "doWork();", edit.Changes["A.java"][0].NewText)
}

func TestInlineMethodCanAlsoRemoveDeclaration(t *testing.T) {
	callRange := Range{Start: Position{Line: 3, Column: 8}, End: Position{Line: 3, Column: 19}}
	declRange := Range{Start: Position{Line: 10, Column: 0}, End: Position{Line: 13, Column: 0}}
	edit, err := InlineMethod("A.java", callRange, "doWork();", InlineMethodOptions{RemoveDeclaration: true, DeclarationRange: declRange})
	require.NoError(t, err)
	require.Len(t, edit.Changes["A.java"], 2)
}
