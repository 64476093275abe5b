package typecheck

import (
	"github.com/nova-lang/nova/internal/corepkg"
	"github.com/nova-lang/nova/internal/hir"
)

// ClasspathStubs is the classpath-side type lookup the resolver
// consults once the workspace has nothing: a binary-name-keyed index
// of class shapes read off .class files or module jars.
// ModuleAwareClasspathIndex only tracks which module defines a package
// (spec.md §4.4's split-package diagnostics), not class bodies, so it
// can't serve this role directly — a caller wires in whatever stub
// registry it builds while indexing the classpath.
type ClasspathStubs interface {
	Lookup(name corepkg.TypeName) (corepkg.TypeName, bool)
}

// Resolver implements spec.md §4.6's name resolution order: explicit
// single-type imports, the current file's own declarations, the
// current package's workspace types, on-demand (wildcard) imports,
// java.lang.*, and finally the classpath/module index.
//
// Types under the java.* namespace are never looked up in the
// workspace or the classpath stub index, matching the JVM's own
// restriction against user-defined java.* classes: the store's
// bootstrapped JDK classes are the only legitimate source for them,
// so an unregistered java.* reference is always unresolved-type, even
// when a workspace or classpath entry happens to share its name.
type Resolver struct {
	workspace *hir.WorkspaceDefMap
	classpath ClasspathStubs
	store     *TypeStore
}

func NewResolver(workspace *hir.WorkspaceDefMap, classpath ClasspathStubs, store *TypeStore) *Resolver {
	return &Resolver{workspace: workspace, classpath: classpath, store: store}
}

// Workspace exposes the resolver's WorkspaceDefMap so a method body walk
// can look up a cross-file type's members (fields, method overload
// sets) by binary name, the same index header-level resolution already
// consults for the type name itself.
func (r *Resolver) Workspace() *hir.WorkspaceDefMap { return r.workspace }

// ResolveQualifiedTypeName resolves an already-dotted binary name
// (e.g. a type used in its fully-qualified form, or the target of an
// explicit single-type import) against the workspace and classpath.
func (r *Resolver) ResolveQualifiedTypeName(name corepkg.TypeName) (corepkg.TypeName, bool) {
	if name.InJavaNamespace() {
		if def, ok := r.store.ClassDef(name); ok {
			return def.BinaryName, true
		}
		return "", false
	}
	if b, ok := r.workspace.Lookup(name); ok {
		return b.Def.BinaryName, true
	}
	if r.classpath != nil {
		if resolved, ok := r.classpath.Lookup(name); ok {
			return resolved, true
		}
	}
	return "", false
}

// ResolveSimpleTypeName resolves an unqualified type-ref string as it
// would be seen while checking a declaration in pkg's file, given that
// file's own declarations (fileDefs) and its import list, following
// spec.md §4.6's six-step order. An ambiguous wildcard-import result
// (two on-demand imports both contributing a type of this name) is
// reported as not-found — callers surface the ambiguity as an
// unresolved-type diagnostic rather than an ambiguous-type one, since
// the spec doesn't carve out a separate code for it.
func (r *Resolver) ResolveSimpleTypeName(fileDefs *hir.DefMap, pkg corepkg.PackageName, imports []hir.Import, name string) (corepkg.TypeName, bool) {
	// 1. explicit single-type imports
	for _, imp := range imports {
		if imp.IsStatic || imp.IsWildcard {
			continue
		}
		if string(imp.TypeRef.Simple()) == name {
			return r.ResolveQualifiedTypeName(imp.TypeRef)
		}
	}

	// 2. types declared in the current file
	for _, td := range fileDefs.TypeDefs() {
		if string(td.Name) == name {
			return td.BinaryName, true
		}
	}

	// 3. types in the current package, via the workspace
	var samePackage corepkg.TypeName
	if pkg != "" {
		samePackage = corepkg.TypeName(string(pkg) + "." + name)
	} else {
		samePackage = corepkg.TypeName(name)
	}
	if b, ok := r.workspace.Lookup(samePackage); ok {
		return b.Def.BinaryName, true
	}

	// 4. wildcard on-demand imports
	var found corepkg.TypeName
	ambiguous := false
	for _, imp := range imports {
		if imp.IsStatic || !imp.IsWildcard {
			continue
		}
		candidate := corepkg.TypeName(string(imp.TypeRef) + "." + name)
		resolved, ok := r.ResolveQualifiedTypeName(candidate)
		if !ok {
			continue
		}
		if found != "" && found != resolved {
			ambiguous = true
		}
		found = resolved
	}
	if ambiguous {
		return "", false
	}
	if found != "" {
		return found, true
	}

	// 5. java.lang.*
	if def, ok := r.store.ClassDef(corepkg.TypeName("java.lang." + name)); ok {
		return def.BinaryName, true
	}

	// 6. classpath/module index (same package, classpath-resident)
	if r.classpath != nil {
		if resolved, ok := r.classpath.Lookup(samePackage); ok {
			return resolved, true
		}
	}

	return "", false
}
