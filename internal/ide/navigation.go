package ide

import (
	"sort"
	"strings"

	"github.com/nova-lang/nova/internal/corepkg"
	"github.com/nova-lang/nova/internal/hir"
	"github.com/nova-lang/nova/internal/syntax"
)

// Location names a span of source text by file path, the unit every
// navigation query below resolves to.
type Location struct {
	Path  string
	Range corepkg.TextRange
}

// PathResolver turns a FileId into the path string a Location reports
// it under. Wrap *vfs.Vfs as func(id corepkg.FileId) (string, bool) {
// p, ok := v.PathFor(id); return p.String(), ok }.
type PathResolver func(id corepkg.FileId) (string, bool)

// Index is the workspace-wide navigation index built once per
// snapshot: the def map every other IDE surface already relies on, the
// supertype/subtype edges goto-implementation needs, and a reverse
// index of every resolved type-ref use site (header and, now that
// method/constructor bodies are parsed rather than opaque, body local
// variable decls, casts, catch clauses, instanceof checks, and object
// creations) that find-references walks alongside the declaration
// sites.
type Index struct {
	defs     *hir.WorkspaceDefMap
	paths    PathResolver
	subtypes map[corepkg.TypeName][]corepkg.TypeName
	refs     map[corepkg.TypeName][]refSite
}

type refSite struct {
	file corepkg.FileId
	rang corepkg.TextRange
}

// NewIndex builds a navigation Index over trees, resolving each type's
// declared Super/Interfaces text against the workspace using the same
// same-file/same-package precedence hir.Resolver applies to ordinary
// type refs. A supertype text that doesn't resolve — a JDK type, or a
// genuinely unresolved reference — simply contributes no subtype edge;
// goto-implementation degrades to "no implementations found" rather
// than erroring.
func NewIndex(trees []*hir.ItemTree, defs *hir.WorkspaceDefMap, paths PathResolver) *Index {
	idx := &Index{
		defs:     defs,
		paths:    paths,
		subtypes: make(map[corepkg.TypeName][]corepkg.TypeName),
		refs:     make(map[corepkg.TypeName][]refSite),
	}
	for _, tree := range trees {
		fileDefs := hir.BuildDefMap(tree)
		for _, td := range tree.Types {
			for _, ref := range supertypeRefs(td) {
				if super, ok := resolveSupertypeRef(idx.defs, fileDefs, tree.Package, ref); ok {
					idx.subtypes[super] = append(idx.subtypes[super], td.BinaryName)
					idx.addRef(super, tree.File, td.Range)
				}
			}
			idx.indexTypeRefUses(tree, fileDefs, td)
		}
	}
	return idx
}

func (idx *Index) addRef(name corepkg.TypeName, file corepkg.FileId, r corepkg.TextRange) {
	idx.refs[name] = append(idx.refs[name], refSite{file: file, rang: r})
}

// indexTypeRefUses records every type reference in td's fields and
// methods — declared types in the header, plus every NodeTypeRef inside
// a method body (local variable declarations, casts, catch clauses,
// instanceof checks, object creations) — against the binary name it
// resolves to.
func (idx *Index) indexTypeRefUses(tree *hir.ItemTree, fileDefs *hir.DefMap, td *hir.TypeDef) {
	resolve := func(text string) (corepkg.TypeName, bool) {
		return resolveTypeRefUse(idx.defs, fileDefs, tree.Package, tree.Imports, text)
	}
	for _, f := range td.Fields {
		if name, ok := resolve(f.DeclaredType); ok {
			idx.addRef(name, tree.File, f.Range)
		}
	}
	for _, m := range td.Methods {
		if name, ok := resolve(m.ReturnType); ok {
			idx.addRef(name, tree.File, m.Range)
		}
		for _, p := range m.ParamTypes {
			if name, ok := resolve(p); ok {
				idx.addRef(name, tree.File, m.Range)
			}
		}
		for _, th := range m.ThrowsTypes {
			if name, ok := resolve(th); ok {
				idx.addRef(name, tree.File, m.Range)
			}
		}
		if m.Body == nil {
			continue
		}
		for _, ref := range m.Body.DescendantsOfKind(syntax.NodeTypeRef) {
			text := strings.Join(strings.Fields(ref.Text()), " ")
			if name, ok := resolve(text); ok {
				idx.addRef(name, tree.File, ref.Range())
			}
		}
	}
}

func supertypeRefs(td *hir.TypeDef) []string {
	var refs []string
	if td.Super != "" {
		refs = append(refs, td.Super)
	}
	refs = append(refs, td.Interfaces...)
	return refs
}

// resolveSupertypeRef resolves an extends/implements type-ref string to
// a workspace binary name, trying (in order) the text as an
// already-dotted binary name, a type declared in the same file, and a
// type in the current package — the first three steps of spec.md
// §4.6's resolution order, which cover the overwhelming majority of
// same-workspace supertype references without pulling in the full
// import-aware resolver.
func resolveSupertypeRef(defs *hir.WorkspaceDefMap, fileDefs *hir.DefMap, pkg corepkg.PackageName, ref string) (corepkg.TypeName, bool) {
	simple := corepkg.TypeName(ref).Simple()

	if b, ok := defs.Lookup(corepkg.TypeName(ref)); ok {
		return b.Def.BinaryName, true
	}
	for _, td := range fileDefs.TypeDefs() {
		if td.Name == simple {
			return td.BinaryName, true
		}
	}
	qualified := corepkg.TypeName(ref)
	if pkg != "" {
		qualified = corepkg.TypeName(string(pkg) + "." + string(simple))
	}
	if b, ok := defs.Lookup(qualified); ok {
		return b.Def.BinaryName, true
	}
	return "", false
}

// resolveTypeRefUse resolves an arbitrary type-ref use site (a field's
// declared type, a parameter/return/throws type, or any NodeTypeRef
// found inside a method body) to a workspace binary name. It strips a
// trailing array suffix and any generic argument list down to the bare
// type name, then tries — in the same order as resolveSupertypeRef,
// extended with this file's own explicit single-type imports — the raw
// text as a binary name, the file's own declarations, an explicit
// import, and finally the current package. Wildcard imports and the
// classpath aren't consulted here: the Index has no ClasspathStubs, so
// a use site resolved only through one of those degrades to "no
// reference found" rather than erroring.
func resolveTypeRefUse(defs *hir.WorkspaceDefMap, fileDefs *hir.DefMap, pkg corepkg.PackageName, imports []hir.Import, ref string) (corepkg.TypeName, bool) {
	ref = bareTypeName(ref)
	if ref == "" {
		return "", false
	}
	if b, ok := defs.Lookup(corepkg.TypeName(ref)); ok {
		return b.Def.BinaryName, true
	}
	simple := corepkg.TypeName(ref).Simple()
	for _, td := range fileDefs.TypeDefs() {
		if td.Name == simple {
			return td.BinaryName, true
		}
	}
	for _, imp := range imports {
		if imp.IsStatic || imp.IsWildcard {
			continue
		}
		if imp.TypeRef.Simple() != simple {
			continue
		}
		if b, ok := defs.Lookup(imp.TypeRef); ok {
			return b.Def.BinaryName, true
		}
	}
	return resolveSupertypeRef(defs, fileDefs, pkg, ref)
}

// bareTypeName strips a type-ref's array suffix and any generic
// argument list, leaving the plain (possibly dotted) type name
// resolution keys off of: "List<String>" and "String[]" both reduce to
// their head name.
func bareTypeName(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	for strings.HasSuffix(text, "[]") {
		text = strings.TrimSuffix(text, "[]")
	}
	if i := strings.IndexByte(text, '<'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

// GotoDefinition resolves a binary type name to every file that
// declares it (normally one; more than one means a binary-name
// collision the workspace hasn't resolved, and every candidate is
// reported rather than silently picking the winner).
func (idx *Index) GotoDefinition(name corepkg.TypeName) []Location {
	var out []Location
	for _, b := range idx.defs.AllDefinitions(name) {
		if loc, ok := idx.locationFor(b.File, b.Def.Range); ok {
			out = append(out, loc)
		}
	}
	return out
}

// Declaration is goto-definition's companion for the LSP
// textDocument/declaration request: for a type reference it's the same
// answer as GotoDefinition, since Nova's HIR doesn't distinguish a
// forward declaration from its definition the way a header/source split
// language would.
func (idx *Index) Declaration(name corepkg.TypeName) []Location {
	return idx.GotoDefinition(name)
}

// TypeDefinition resolves a type to its declaration, identically to
// GotoDefinition — kept as a distinct method because the LSP surface
// exposes it as a separate request, even though Nova has no separate
// notion of a value's static type declaration versus the type itself.
func (idx *Index) TypeDefinition(name corepkg.TypeName) []Location {
	return idx.GotoDefinition(name)
}

// FindFieldDeclaration locates a named field on a declared type.
func (idx *Index) FindFieldDeclaration(owner corepkg.TypeName, field corepkg.Name) (Location, bool) {
	b, ok := idx.defs.Lookup(owner)
	if !ok {
		return Location{}, false
	}
	for _, f := range b.Def.Fields {
		if f.Name == field {
			loc, ok := idx.locationFor(b.File, f.Range)
			return loc, ok
		}
	}
	return Location{}, false
}

// FindMethodDeclaration locates a named method on a declared type. A
// type can overload a method name, so every matching declaration is
// returned; callers that already resolved an exact signature should
// pick the matching one, and callers without a resolved signature (a
// best-effort jump, e.g. from an unresolved call) can fall back to the
// first.
func (idx *Index) FindMethodDeclaration(owner corepkg.TypeName, method corepkg.Name) []Location {
	b, ok := idx.defs.Lookup(owner)
	if !ok {
		return nil
	}
	var out []Location
	for _, m := range b.Def.Methods {
		if m.Name != method {
			continue
		}
		if loc, ok := idx.locationFor(b.File, m.Range); ok {
			out = append(out, loc)
		}
	}
	return out
}

// Implementations returns every concrete (non-abstract, non-interface)
// workspace type that transitively implements or extends name, in
// declaration order. This is the workspace half of
// textDocument/implementation: a name with no workspace subtypes (a
// leaf class, or a type only implemented outside the indexed sources)
// returns an empty slice rather than an error.
func (idx *Index) Implementations(name corepkg.TypeName) []Location {
	visited := make(map[corepkg.TypeName]bool)
	var concrete []corepkg.TypeName

	var walk func(corepkg.TypeName)
	walk = func(t corepkg.TypeName) {
		for _, sub := range idx.subtypes[t] {
			if visited[sub] {
				continue
			}
			visited[sub] = true
			if b, ok := idx.defs.Lookup(sub); ok && !b.Def.Modifiers.IsAbstract && b.Def.Kind != hir.KindInterface {
				concrete = append(concrete, sub)
			}
			walk(sub)
		}
	}
	walk(name)

	var out []Location
	for _, t := range concrete {
		b, ok := idx.defs.Lookup(t)
		if !ok {
			continue
		}
		if loc, ok := idx.locationFor(b.File, b.Def.Range); ok {
			out = append(out, loc)
		}
	}
	return out
}

// FindReferences returns every declaration site of name across the
// workspace plus every resolved type-ref use site indexTypeRefUses
// recorded for it — field and parameter/return/throws types, and every
// NodeTypeRef a method body contains (local variable declarations,
// casts, catch clauses, instanceof checks, object creations) — sorted
// by path then offset and deduplicated, since a field or parameter type
// is already counted once per declaration even though the header loop
// and the body scan can't double-report the same range. It still
// doesn't resolve a bare identifier's method-call or field-access use
// (that needs the typechecker's full scope/overload resolution, not
// just type-ref text), only uses of name as a type.
func (idx *Index) FindReferences(name corepkg.TypeName) []Location {
	seen := make(map[Location]bool)
	var out []Location
	add := func(file corepkg.FileId, r corepkg.TextRange) {
		loc, ok := idx.locationFor(file, r)
		if !ok || seen[loc] {
			return
		}
		seen[loc] = true
		out = append(out, loc)
	}
	for _, b := range idx.defs.AllDefinitions(name) {
		add(b.File, b.Def.Range)
	}
	for _, site := range idx.refs[name] {
		add(site.file, site.rang)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Range.Start < out[j].Range.Start
	})
	return out
}

func (idx *Index) locationFor(file corepkg.FileId, r corepkg.TextRange) (Location, bool) {
	path, ok := idx.paths(file)
	if !ok {
		return Location{}, false
	}
	return Location{Path: path, Range: r}, true
}
