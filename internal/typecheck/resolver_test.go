package typecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-lang/nova/internal/corepkg"
	"github.com/nova-lang/nova/internal/hir"
	"github.com/nova-lang/nova/internal/syntax"
)

func buildFile(t *testing.T, file corepkg.FileId, src string) (*hir.ItemTree, *hir.DefMap) {
	t.Helper()
	sf, errs := syntax.NewSourceFile([]byte(src))
	require.Empty(t, errs)
	tree := hir.BuildItemTree(file, sf)
	return tree, hir.BuildDefMap(tree)
}

type fakeClasspath map[corepkg.TypeName]corepkg.TypeName

func (f fakeClasspath) Lookup(name corepkg.TypeName) (corepkg.TypeName, bool) {
	v, ok := f[name]
	return v, ok
}

func TestResolveSimpleTypeNamePrefersExplicitImport(t *testing.T) {
	ws := hir.NewWorkspaceDefMap()

	otherTree, _ := buildFile(t, 1, `
package com.other;
public class Helper {}
`)
	ws.AddFile(otherTree)

	tree, defs := buildFile(t, 2, `
package com.example;
import com.other.Helper;
public class Widget {
    Helper h;
}
`)
	ws.AddFile(tree)

	store := NewTypeStore()
	r := NewResolver(ws, nil, store)

	resolved, ok := r.ResolveSimpleTypeName(defs, tree.Package, tree.Imports, "Helper")
	require.True(t, ok)
	assert.Equal(t, corepkg.TypeName("com.other.Helper"), resolved)
}

func TestResolveSimpleTypeNameFindsFileLocalDeclaration(t *testing.T) {
	ws := hir.NewWorkspaceDefMap()
	tree, defs := buildFile(t, 1, `
package com.example;
public class Widget {
    Nested n;
    static class Nested {}
}
`)
	ws.AddFile(tree)

	store := NewTypeStore()
	r := NewResolver(ws, nil, store)

	resolved, ok := r.ResolveSimpleTypeName(defs, tree.Package, tree.Imports, "Nested")
	require.True(t, ok)
	assert.Equal(t, corepkg.TypeName("com.example.Widget$Nested"), resolved)
}

func TestResolveSimpleTypeNameFindsSamePackageWorkspaceType(t *testing.T) {
	ws := hir.NewWorkspaceDefMap()

	sibling, _ := buildFile(t, 1, `
package com.example;
public class Sibling {}
`)
	ws.AddFile(sibling)

	tree, defs := buildFile(t, 2, `
package com.example;
public class Widget {
    Sibling s;
}
`)
	ws.AddFile(tree)

	store := NewTypeStore()
	r := NewResolver(ws, nil, store)

	resolved, ok := r.ResolveSimpleTypeName(defs, tree.Package, tree.Imports, "Sibling")
	require.True(t, ok)
	assert.Equal(t, corepkg.TypeName("com.example.Sibling"), resolved)
}

func TestResolveSimpleTypeNameFallsBackToJavaLang(t *testing.T) {
	ws := hir.NewWorkspaceDefMap()
	tree, defs := buildFile(t, 1, `
package com.example;
public class Widget {
    String name;
}
`)
	ws.AddFile(tree)

	store := NewTypeStore()
	r := NewResolver(ws, nil, store)

	resolved, ok := r.ResolveSimpleTypeName(defs, tree.Package, tree.Imports, "String")
	require.True(t, ok)
	assert.Equal(t, corepkg.TypeName("java.lang.String"), resolved)
}

func TestResolveSimpleTypeNameUnresolved(t *testing.T) {
	ws := hir.NewWorkspaceDefMap()
	tree, defs := buildFile(t, 1, `
package com.example;
public class Widget {
    Bogus b;
}
`)
	ws.AddFile(tree)

	store := NewTypeStore()
	r := NewResolver(ws, nil, store)

	_, ok := r.ResolveSimpleTypeName(defs, tree.Package, tree.Imports, "Bogus")
	assert.False(t, ok)
}

func TestResolveQualifiedTypeNameIgnoresWorkspaceAndClasspathForJavaNamespace(t *testing.T) {
	ws := hir.NewWorkspaceDefMap()

	fakeJavaType, _ := buildFile(t, 1, `
package java.fake;
public class Foo {}
`)
	ws.AddFile(fakeJavaType)

	classpath := fakeClasspath{"java.fake.Foo": "java.fake.Foo"}
	store := NewTypeStore()
	r := NewResolver(ws, classpath, store)

	_, ok := r.ResolveQualifiedTypeName("java.fake.Foo")
	assert.False(t, ok, "java.* namespace types are never loaded from the workspace or classpath")
}

func TestResolveQualifiedTypeNamePrefersWorkspaceOverClasspath(t *testing.T) {
	ws := hir.NewWorkspaceDefMap()
	tree, _ := buildFile(t, 1, `
package com.example;
public class Widget {}
`)
	ws.AddFile(tree)

	classpath := fakeClasspath{"com.example.Widget": "com.example.Widget"}
	store := NewTypeStore()
	r := NewResolver(ws, classpath, store)

	resolved, ok := r.ResolveQualifiedTypeName("com.example.Widget")
	require.True(t, ok)
	assert.Equal(t, corepkg.TypeName("com.example.Widget"), resolved)
}
