package syntax

import "github.com/nova-lang/nova/internal/corepkg"

// SourceFile is the typed entry point into a parsed compilation unit. It
// is a thin, recompute-on-demand view over a *Red root: no data is
// duplicated out of the tree (spec.md §3, "typed AST wrappers are views,
// not a second tree").
type SourceFile struct {
	Root *Red
}

// NewSourceFile parses source and wraps the resulting tree for typed
// access. Parse errors are returned alongside, never swallowed.
func NewSourceFile(source []byte) (SourceFile, []ParseError) {
	green, errs := Parse(source)
	return SourceFile{Root: NewRoot(green)}, errs
}

// IsModuleInfo reports whether this compilation unit is a module-info.java.
func (f SourceFile) IsModuleInfo() bool {
	_, ok := f.Root.FirstChildOfKind(NodeModuleDeclaration)
	return ok
}

// PackageName returns the declared package name, or "" for the default
// (unnamed) package.
func (f SourceFile) PackageName() corepkg.PackageName {
	pkg, ok := f.Root.FirstChildOfKind(NodePackageDeclaration)
	if !ok {
		return ""
	}
	ref, ok := pkg.FirstChildOfKind(NodeTypeRef)
	if !ok {
		return ""
	}
	return corepkg.PackageName(identPath(ref))
}

// Imports returns every import declaration in source order.
func (f SourceFile) Imports() []ImportDeclaration {
	var out []ImportDeclaration
	for _, c := range f.Root.ChildrenOfKind(NodeImportDeclaration) {
		out = append(out, ImportDeclaration{Red: c})
	}
	return out
}

// TypeDeclarations returns every top-level type declaration in source order.
func (f SourceFile) TypeDeclarations() []TypeDeclaration {
	var out []TypeDeclaration
	for _, c := range f.Root.Children() {
		if isTypeDeclarationKind(c.Kind()) {
			out = append(out, TypeDeclaration{Red: c})
		}
	}
	return out
}

// Module returns the module-info declaration, if this is one.
func (f SourceFile) Module() (ModuleDeclaration, bool) {
	m, ok := f.Root.FirstChildOfKind(NodeModuleDeclaration)
	if !ok {
		return ModuleDeclaration{}, false
	}
	return ModuleDeclaration{Red: m}, true
}

func isTypeDeclarationKind(k SyntaxKind) bool {
	switch k {
	case NodeClassDeclaration, NodeInterfaceDeclaration, NodeEnumDeclaration,
		NodeRecordDeclaration, NodeAnnotationDeclaration:
		return true
	default:
		return false
	}
}

// identPath joins every TokIdent/TokDot token directly under node into a
// dotted name, e.g. for the NodeTypeRef spanning "com.example.Foo".
func identPath(node *Red) string {
	var out []byte
	for _, t := range node.SignificantTokens() {
		out = append(out, t.TokenText()...)
	}
	return string(out)
}

// ImportDeclaration is a typed view over a NodeImportDeclaration.
type ImportDeclaration struct{ Red *Red }

func (d ImportDeclaration) IsStatic() bool {
	for _, t := range d.Red.SignificantTokens() {
		if t.Kind() == TokImport {
			continue
		}
		return t.Kind() == TokStatic
	}
	return false
}

func (d ImportDeclaration) IsWildcard() bool {
	toks := d.Red.SignificantTokens()
	if n := len(toks); n > 0 && toks[n-1].Kind() == TokSemicolon {
		toks = toks[:n-1]
	}
	return len(toks) > 0 && toks[len(toks)-1].Kind() == TokStar
}

func (d ImportDeclaration) TypeRef() corepkg.TypeName {
	ref, ok := d.Red.FirstChildOfKind(NodeTypeRef)
	if !ok {
		return ""
	}
	return corepkg.TypeName(identPath(ref))
}

// ModifierList is a typed view over a NodeModifierList.
type ModifierList struct{ Red *Red }

func (m ModifierList) Has(kind SyntaxKind) bool {
	for _, mod := range m.Red.ChildrenOfKind(NodeModifier) {
		toks := mod.SignificantTokens()
		if len(toks) == 1 && toks[0].Kind() == kind {
			return true
		}
	}
	return false
}

func (m ModifierList) IsPublic() bool   { return m.Has(TokPublic) }
func (m ModifierList) IsStatic() bool   { return m.Has(TokStatic) }
func (m ModifierList) IsFinal() bool    { return m.Has(TokFinal) }
func (m ModifierList) IsAbstract() bool { return m.Has(TokAbstract) }

// TypeDeclaration is a typed view over any of the class/interface/enum/
// record/annotation-type declaration node kinds.
type TypeDeclaration struct{ Red *Red }

func (t TypeDeclaration) Modifiers() ModifierList {
	m, _ := t.Red.FirstChildOfKind(NodeModifierList)
	return ModifierList{Red: m}
}

// SimpleName returns the declared type's identifier: the first identifier
// token directly under the declaration, past its modifier list and its
// class/interface/enum/record/@interface keyword. Error-recovered
// declarations may return "".
func (t TypeDeclaration) SimpleName() corepkg.TypeName {
	isRecord := t.Red.Kind() == NodeRecordDeclaration
	for _, c := range t.Red.Children() {
		if !c.IsToken() || c.Kind().IsTrivia() {
			continue
		}
		switch c.Kind() {
		case TokClass, TokInterface, TokEnum, TokAt:
			continue
		case TokIdent:
			if isRecord && c.TokenText() == "record" {
				isRecord = false
				continue
			}
			return corepkg.TypeName(c.TokenText())
		default:
			return ""
		}
	}
	return ""
}

func (t TypeDeclaration) Members() []MemberDeclaration {
	var out []MemberDeclaration
	for _, c := range t.Red.Children() {
		switch c.Kind() {
		case NodeFieldDeclaration, NodeMethodDeclaration, NodeConstructorDeclaration,
			NodeEnumConstant, NodeBlock:
			out = append(out, MemberDeclaration{Red: c})
		}
		if isTypeDeclarationKind(c.Kind()) {
			out = append(out, MemberDeclaration{Red: c})
		}
	}
	return out
}

// MemberDeclaration is a typed view over any class-body member: a field,
// method, constructor, nested type, enum constant, or initializer block.
type MemberDeclaration struct{ Red *Red }

func (m MemberDeclaration) Modifiers() ModifierList {
	mods, _ := m.Red.FirstChildOfKind(NodeModifierList)
	return ModifierList{Red: mods}
}

// Name returns the member's declared identifier: the field/method/
// constructor name, the enum constant name, or the nested type's simple
// name. It looks only at this node's direct token children (skipping
// modifier lists and the declared/return NodeTypeRef) so a generic
// return type whose type parameter happens to be a single identifier,
// e.g. `T get()`, is never mistaken for the member's own name.
func (m MemberDeclaration) Name() string {
	if isTypeDeclarationKind(m.Red.Kind()) {
		return string(TypeDeclaration{Red: m.Red}.SimpleName())
	}
	for _, c := range m.Red.Children() {
		if c.IsToken() && c.Kind() == TokIdent {
			return c.TokenText()
		}
	}
	return ""
}

// ModuleDeclaration is a typed view over a NodeModuleDeclaration.
type ModuleDeclaration struct{ Red *Red }

func (m ModuleDeclaration) IsOpen() bool {
	toks := m.Red.SignificantTokens()
	return len(toks) > 0 && toks[0].Kind() == TokIdent && toks[0].TokenText() == "open"
}

func (m ModuleDeclaration) Name() corepkg.ModuleName {
	ref, ok := m.Red.FirstChildOfKind(NodeTypeRef)
	if !ok {
		return ""
	}
	return corepkg.ModuleName(identPath(ref))
}

func (m ModuleDeclaration) Directives() []ModuleDirective {
	var out []ModuleDirective
	for _, c := range m.Red.ChildrenOfKind(NodeModuleDirective) {
		out = append(out, ModuleDirective{Red: c})
	}
	return out
}

// ModuleDirective is a typed view over a single requires/exports/opens/
// uses/provides clause.
type ModuleDirective struct{ Red *Red }

func (d ModuleDirective) Keyword() string {
	toks := d.Red.SignificantTokens()
	if len(toks) == 0 {
		return ""
	}
	return toks[0].TokenText()
}

func (d ModuleDirective) TargetNames() []string {
	refs := d.Red.ChildrenOfKind(NodeTypeRef)
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, identPath(r))
	}
	return out
}
