package ide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderUnifiedDiffShowsChangedLine(t *testing.T) {
	before := "class A {\n    int x = 1;\n}\n"
	after := "class A {\n    int x = 2;\n}\n"

	out, err := RenderUnifiedDiff("A.java", before, after, 3)
	require.NoError(t, err)
	assert.Contains(t, out, "-    int x = 1;")
	assert.Contains(t, out, "+    int x = 2;")
	assert.Contains(t, out, "A.java")
}

func TestIsNoOpDiffIgnoresTrailingNewline(t *testing.T) {
	assert.True(t, IsNoOpDiff("class A {}\n", "class A {}"))
	assert.False(t, IsNoOpDiff("class A {}\n", "class B {}\n"))
}
