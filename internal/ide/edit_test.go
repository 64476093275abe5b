package ide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceEditValidateAcceptsNonOverlapping(t *testing.T) {
	w := NewWorkspaceEdit()
	w.Add("A.java", TextEdit{Range: Range{Start: Position{0, 0}, End: Position{0, 3}}, NewText: "foo"})
	w.Add("A.java", TextEdit{Range: Range{Start: Position{0, 5}, End: Position{0, 8}}, NewText: "bar"})
	assert.NoError(t, w.Validate())
}

func TestWorkspaceEditValidateRejectsOverlapping(t *testing.T) {
	w := NewWorkspaceEdit()
	w.Add("A.java", TextEdit{Range: Range{Start: Position{0, 0}, End: Position{0, 5}}, NewText: "foo"})
	w.Add("A.java", TextEdit{Range: Range{Start: Position{0, 3}, End: Position{0, 8}}, NewText: "bar"})
	assert.Error(t, w.Validate())
}

func TestApplyEditsSingleLineReplace(t *testing.T) {
	text := "class Alpha {}\n"
	out := ApplyEdits(text, []TextEdit{
		{Range: Range{Start: Position{0, 6}, End: Position{0, 11}}, NewText: "Beta"},
	})
	assert.Equal(t, "class Beta {}\n", out)
}

func TestApplyEditsMultipleNonOverlapping(t *testing.T) {
	text := "int a = 1;\nint b = 2;\n"
	out := ApplyEdits(text, []TextEdit{
		{Range: Range{Start: Position{0, 4}, End: Position{0, 5}}, NewText: "x"},
		{Range: Range{Start: Position{1, 4}, End: Position{1, 5}}, NewText: "y"},
	})
	assert.Equal(t, "int x = 1;\nint y = 2;\n", out)
}

func TestApplyEditsAcrossLines(t *testing.T) {
	text := "class A {\n  int x;\n}\n"
	out := ApplyEdits(text, []TextEdit{
		{Range: Range{Start: Position{0, 7}, End: Position{2, 0}}, NewText: " {\n"},
	})
	require.Equal(t, "class A {\n}\n", out)
}
