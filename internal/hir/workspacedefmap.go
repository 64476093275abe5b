package hir

import "github.com/nova-lang/nova/internal/corepkg"

// Binding is one binary name's definition, tagged with the file that
// declared it.
type Binding struct {
	Def  *TypeDef
	File corepkg.FileId
}

// WorkspaceDefMap merges every file's DefMap into one workspace-wide
// index. Binary name collisions across files keep the first file added
// as the winner (spec.md §4.5); every definition, winning or not, stays
// available via AllDefinitions so diagnostics can still report the
// shadowed ones.
type WorkspaceDefMap struct {
	winners map[corepkg.TypeName]Binding
	all     map[corepkg.TypeName][]Binding

	packagePrefixes map[corepkg.PackageName]struct{}
	filesInPackage  map[corepkg.PackageName][]corepkg.FileId

	fileModule map[corepkg.FileId]corepkg.ModuleName
}

// NewWorkspaceDefMap creates an empty workspace index.
func NewWorkspaceDefMap() *WorkspaceDefMap {
	return &WorkspaceDefMap{
		winners:         make(map[corepkg.TypeName]Binding),
		all:             make(map[corepkg.TypeName][]Binding),
		packagePrefixes: make(map[corepkg.PackageName]struct{}),
		filesInPackage:  make(map[corepkg.PackageName][]corepkg.FileId),
		fileModule:      make(map[corepkg.FileId]corepkg.ModuleName),
	}
}

// AddFile merges tree's type declarations into the workspace index.
// Callers must add files in a stable, deterministic order (spec.md
// §4.5's "merges per-file DefMaps in stable file order") since that
// order decides which definition wins a binary-name collision.
func (w *WorkspaceDefMap) AddFile(tree *ItemTree) {
	for _, td := range tree.Types {
		binding := Binding{Def: td, File: tree.File}
		w.all[td.BinaryName] = append(w.all[td.BinaryName], binding)
		if _, exists := w.winners[td.BinaryName]; !exists {
			w.winners[td.BinaryName] = binding
		}
	}

	for _, prefix := range tree.Package.Prefixes() {
		w.packagePrefixes[prefix] = struct{}{}
	}
	if tree.Package != "" {
		w.filesInPackage[tree.Package] = append(w.filesInPackage[tree.Package], tree.File)
	}
}

// SetModule tags file as belonging to module, for JPMS-aware resolution
// (spec.md §4.5 "JPMS linkage").
func (w *WorkspaceDefMap) SetModule(file corepkg.FileId, module corepkg.ModuleName) {
	w.fileModule[file] = module
}

// ModuleOf returns the module a file was tagged with via SetModule.
func (w *WorkspaceDefMap) ModuleOf(file corepkg.FileId) (corepkg.ModuleName, bool) {
	m, ok := w.fileModule[file]
	return m, ok
}

// Lookup returns the winning definition for a binary name.
func (w *WorkspaceDefMap) Lookup(binaryName corepkg.TypeName) (Binding, bool) {
	b, ok := w.winners[binaryName]
	return b, ok
}

// AllDefinitions returns every definition of binaryName across the
// workspace, in the order files were added, winner first.
func (w *WorkspaceDefMap) AllDefinitions(binaryName corepkg.TypeName) []Binding {
	return w.all[binaryName]
}

// HasPackage reports whether p (or any package declaring types beneath
// it) has been observed, via the exhaustively-registered prefix set.
func (w *WorkspaceDefMap) HasPackage(p corepkg.PackageName) bool {
	_, ok := w.packagePrefixes[p]
	return ok
}

// ModulesDefiningPackage returns every distinct module that contributes
// at least one file declaring package p directly (not a subpackage).
// A file with no module tag (the unnamed module) is omitted.
func (w *WorkspaceDefMap) ModulesDefiningPackage(p corepkg.PackageName) []corepkg.ModuleName {
	seen := make(map[corepkg.ModuleName]struct{})
	var out []corepkg.ModuleName
	for _, file := range w.filesInPackage[p] {
		mod, ok := w.fileModule[file]
		if !ok {
			continue
		}
		if _, dup := seen[mod]; dup {
			continue
		}
		seen[mod] = struct{}{}
		out = append(out, mod)
	}
	return out
}
