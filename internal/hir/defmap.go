package hir

import "github.com/nova-lang/nova/internal/corepkg"

// DefMap is one file's type declarations indexed by binary name, built
// directly from its ItemTree.
type DefMap struct {
	File  corepkg.FileId
	byBin map[corepkg.TypeName]*TypeDef
}

// BuildDefMap indexes every TypeDef in tree by binary name. A file that
// (incorrectly) declares the same binary name twice keeps the first
// occurrence; DefMap is per-file so this is only reachable via pathological
// nested-type name collisions, not the cross-file case WorkspaceDefMap
// handles.
func BuildDefMap(tree *ItemTree) *DefMap {
	dm := &DefMap{File: tree.File, byBin: make(map[corepkg.TypeName]*TypeDef, len(tree.Types))}
	for _, td := range tree.Types {
		if _, exists := dm.byBin[td.BinaryName]; !exists {
			dm.byBin[td.BinaryName] = td
		}
	}
	return dm
}

// Lookup returns the TypeDef for a binary name declared in this file.
func (dm *DefMap) Lookup(binaryName corepkg.TypeName) (*TypeDef, bool) {
	td, ok := dm.byBin[binaryName]
	return td, ok
}

// TypeDefs returns every TypeDef this file declares, in no particular
// order.
func (dm *DefMap) TypeDefs() []*TypeDef {
	out := make([]*TypeDef, 0, len(dm.byBin))
	for _, td := range dm.byBin {
		out = append(out, td)
	}
	return out
}
