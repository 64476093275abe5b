package hir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-lang/nova/internal/corepkg"
	"github.com/nova-lang/nova/internal/syntax"
)

func parseTree(t *testing.T, file corepkg.FileId, src string) *ItemTree {
	t.Helper()
	sf, errs := syntax.NewSourceFile([]byte(src))
	require.Empty(t, errs)
	return BuildItemTree(file, sf)
}

func TestBuildItemTreeTopLevelBinaryName(t *testing.T) {
	tree := parseTree(t, 1, `
package com.example;

public class Widget {
    private final int count;
    public int getCount() { return count; }
}
`)
	require.Len(t, tree.Types, 1)
	wt := tree.Types[0]
	assert.Equal(t, corepkg.TypeName("com.example.Widget"), wt.BinaryName)
	assert.Equal(t, corepkg.TypeName(""), wt.Enclosing)
	require.Len(t, wt.Fields, 1)
	assert.Equal(t, corepkg.Name("count"), wt.Fields[0].Name)
	assert.True(t, wt.Fields[0].IsFinal)
	require.Len(t, wt.Methods, 1)
	assert.Equal(t, corepkg.Name("getCount"), wt.Methods[0].Name)
	assert.Equal(t, "int", wt.Methods[0].ReturnType)
}

func TestBuildItemTreeNestedBinaryName(t *testing.T) {
	tree := parseTree(t, 1, `
package com.example;

public class Outer {
    public static class Inner {
        void run() {}
    }
}
`)
	require.Len(t, tree.Types, 2)
	assert.Equal(t, corepkg.TypeName("com.example.Outer"), tree.Types[0].BinaryName)
	assert.Equal(t, corepkg.TypeName("com.example.Outer$Inner"), tree.Types[1].BinaryName)
	assert.Equal(t, corepkg.TypeName("com.example.Outer"), tree.Types[1].Enclosing)
}

func TestBuildItemTreeUnpackagedTopLevelType(t *testing.T) {
	tree := parseTree(t, 1, `
class Bare {
}
`)
	require.Len(t, tree.Types, 1)
	assert.Equal(t, corepkg.TypeName("Bare"), tree.Types[0].BinaryName)
}

func TestBuildItemTreeGenericReturnTypeDoesNotShadowMethodName(t *testing.T) {
	tree := parseTree(t, 1, `
package com.example;

public class Box<T> {
    private T value;
    public T get() { return value; }
}
`)
	require.Len(t, tree.Types, 1)
	require.Len(t, tree.Types[0].Methods, 1)
	assert.Equal(t, corepkg.Name("get"), tree.Types[0].Methods[0].Name)
	assert.Equal(t, "T", tree.Types[0].Methods[0].ReturnType)
}

func TestBuildItemTreeEnumConstantsLowerToStaticFinalFields(t *testing.T) {
	tree := parseTree(t, 1, `
package com.example;

public enum Color {
    RED, GREEN, BLUE;
}
`)
	require.Len(t, tree.Types, 1)
	ct := tree.Types[0]
	assert.Equal(t, KindEnum, ct.Kind)
	require.Len(t, ct.Fields, 3)
	for i, name := range []corepkg.Name{"RED", "GREEN", "BLUE"} {
		assert.Equal(t, name, ct.Fields[i].Name)
		assert.True(t, ct.Fields[i].IsStatic)
		assert.True(t, ct.Fields[i].IsFinal)
		assert.Equal(t, "Color", ct.Fields[i].DeclaredType)
	}
}

func TestBuildItemTreeConstructorHasNoReturnType(t *testing.T) {
	tree := parseTree(t, 1, `
package com.example;

public class Widget {
    public Widget(int count) {}
}
`)
	require.Len(t, tree.Types, 1)
	require.Len(t, tree.Types[0].Methods, 1)
	ctor := tree.Types[0].Methods[0]
	assert.Equal(t, corepkg.Name("Widget"), ctor.Name)
	assert.Equal(t, "", ctor.ReturnType)
	require.Len(t, ctor.ParamTypes, 1)
	assert.Equal(t, "int", ctor.ParamTypes[0])
}

func TestBuildItemTreeExtendsAndImplements(t *testing.T) {
	tree := parseTree(t, 1, `
package com.example;

public class Widget extends Base implements Runnable, java.io.Serializable {
}
`)
	require.Len(t, tree.Types, 1)
	wt := tree.Types[0]
	assert.Equal(t, "Base", wt.Super)
	assert.Equal(t, []string{"Runnable", "java.io.Serializable"}, wt.Interfaces)
}

func TestBuildItemTreeInterfaceExtendsIsInterfacesNotSuper(t *testing.T) {
	tree := parseTree(t, 1, `
package com.example;

public interface Combo extends Runnable, AutoCloseable {
}
`)
	require.Len(t, tree.Types, 1)
	it := tree.Types[0]
	assert.Equal(t, "", it.Super)
	assert.Equal(t, []string{"Runnable", "AutoCloseable"}, it.Interfaces)
}

func TestBuildItemTreeMethodThrowsClause(t *testing.T) {
	tree := parseTree(t, 1, `
package com.example;

public class Widget {
    void risky() throws java.io.IOException, InterruptedException {}
}
`)
	require.Len(t, tree.Types, 1)
	require.Len(t, tree.Types[0].Methods, 1)
	m := tree.Types[0].Methods[0]
	assert.Equal(t, "void", m.ReturnType)
	assert.Equal(t, []string{"java.io.IOException", "InterruptedException"}, m.ThrowsTypes)
}

func TestBuildDefMapFirstOccurrenceWins(t *testing.T) {
	tree := &ItemTree{
		File: 1,
		Types: []*TypeDef{
			{Name: "A", BinaryName: "A"},
			{Name: "A2", BinaryName: "A"},
		},
	}
	dm := BuildDefMap(tree)
	td, ok := dm.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, corepkg.Name("A"), td.Name)
}
