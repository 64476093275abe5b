package ide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-lang/nova/internal/corepkg"
	"github.com/nova-lang/nova/internal/hir"
)

type fakePaths map[corepkg.FileId]string

func (f fakePaths) resolve(id corepkg.FileId) (string, bool) {
	p, ok := f[id]
	return p, ok
}

func TestGotoDefinitionResolvesDeclaringFile(t *testing.T) {
	defs := hir.NewWorkspaceDefMap()
	tree := &hir.ItemTree{File: 1, Package: "com.example", Types: []*hir.TypeDef{
		{Name: "Widget", BinaryName: "com.example.Widget", Range: corepkg.TextRange{Start: 0, End: 10}},
	}}
	defs.AddFile(tree)
	idx := NewIndex([]*hir.ItemTree{tree}, defs, fakePaths{1: "Widget.java"}.resolve)

	locs := idx.GotoDefinition("com.example.Widget")
	require.Len(t, locs, 1)
	assert.Equal(t, "Widget.java", locs[0].Path)
	assert.Equal(t, corepkg.TextRange{Start: 0, End: 10}, locs[0].Range)
}

func TestFindFieldAndMethodDeclaration(t *testing.T) {
	defs := hir.NewWorkspaceDefMap()
	tree := &hir.ItemTree{File: 1, Package: "com.example", Types: []*hir.TypeDef{
		{
			Name: "Widget", BinaryName: "com.example.Widget",
			Fields:  []hir.FieldDef{{Name: "count", Range: corepkg.TextRange{Start: 20, End: 30}}},
			Methods: []hir.MethodDef{{Name: "reset", Range: corepkg.TextRange{Start: 40, End: 60}}},
		},
	}}
	defs.AddFile(tree)
	idx := NewIndex([]*hir.ItemTree{tree}, defs, fakePaths{1: "Widget.java"}.resolve)

	field, ok := idx.FindFieldDeclaration("com.example.Widget", "count")
	require.True(t, ok)
	assert.Equal(t, corepkg.TextRange{Start: 20, End: 30}, field.Range)

	methods := idx.FindMethodDeclaration("com.example.Widget", "reset")
	require.Len(t, methods, 1)
	assert.Equal(t, corepkg.TextRange{Start: 40, End: 60}, methods[0].Range)
}

func TestImplementationsFindsTransitiveConcreteSubtypes(t *testing.T) {
	defs := hir.NewWorkspaceDefMap()
	tree := &hir.ItemTree{File: 1, Package: "com.example", Types: []*hir.TypeDef{
		{Name: "Shape", BinaryName: "com.example.Shape", Kind: hir.KindInterface},
		{
			Name: "AbstractShape", BinaryName: "com.example.AbstractShape",
			Interfaces: []string{"Shape"},
			Modifiers:  hir.ModifierSet{IsAbstract: true},
		},
		{
			Name: "Circle", BinaryName: "com.example.Circle",
			Super: "AbstractShape",
			Range: corepkg.TextRange{Start: 100, End: 200},
		},
	}}
	defs.AddFile(tree)
	idx := NewIndex([]*hir.ItemTree{tree}, defs, fakePaths{1: "Shapes.java"}.resolve)

	impls := idx.Implementations("com.example.Shape")
	require.Len(t, impls, 1)
	assert.Equal(t, "Shapes.java", impls[0].Path)
	assert.Equal(t, corepkg.TextRange{Start: 100, End: 200}, impls[0].Range)
}

func TestImplementationsEmptyForLeafType(t *testing.T) {
	defs := hir.NewWorkspaceDefMap()
	tree := &hir.ItemTree{File: 1, Package: "com.example", Types: []*hir.TypeDef{
		{Name: "Leaf", BinaryName: "com.example.Leaf"},
	}}
	defs.AddFile(tree)
	idx := NewIndex([]*hir.ItemTree{tree}, defs, fakePaths{1: "Leaf.java"}.resolve)

	assert.Empty(t, idx.Implementations("com.example.Leaf"))
}

func TestFindReferencesReturnsEveryDeclarationSortedByPath(t *testing.T) {
	defs := hir.NewWorkspaceDefMap()
	first := &hir.ItemTree{File: 1, Package: "com.example", Types: []*hir.TypeDef{
		{Name: "Widget", BinaryName: "com.example.Widget", Range: corepkg.TextRange{Start: 0, End: 5}},
	}}
	second := &hir.ItemTree{File: 2, Package: "com.example", Types: []*hir.TypeDef{
		{Name: "Widget", BinaryName: "com.example.Widget", Range: corepkg.TextRange{Start: 0, End: 5}},
	}}
	defs.AddFile(first)
	defs.AddFile(second)
	idx := NewIndex([]*hir.ItemTree{first, second}, defs, fakePaths{1: "B.java", 2: "A.java"}.resolve)

	refs := idx.FindReferences("com.example.Widget")
	require.Len(t, refs, 2)
	assert.Equal(t, "A.java", refs[0].Path)
	assert.Equal(t, "B.java", refs[1].Path)
}

func TestDeclarationAndTypeDefinitionMatchGotoDefinition(t *testing.T) {
	defs := hir.NewWorkspaceDefMap()
	tree := &hir.ItemTree{File: 1, Package: "com.example", Types: []*hir.TypeDef{
		{Name: "Widget", BinaryName: "com.example.Widget", Range: corepkg.TextRange{Start: 0, End: 10}},
	}}
	defs.AddFile(tree)
	idx := NewIndex([]*hir.ItemTree{tree}, defs, fakePaths{1: "Widget.java"}.resolve)

	assert.Equal(t, idx.GotoDefinition("com.example.Widget"), idx.Declaration("com.example.Widget"))
	assert.Equal(t, idx.GotoDefinition("com.example.Widget"), idx.TypeDefinition("com.example.Widget"))
}
