// Package hir lowers parsed Java source into a shallow, signature-only
// representation: per-file item trees, and workspace-wide def maps
// built from them. It never looks past a declaration's header — bodies,
// statements and expressions are the typechecker's concern, not HIR's.
package hir

import (
	"strings"

	"github.com/nova-lang/nova/internal/corepkg"
	"github.com/nova-lang/nova/internal/syntax"
)

// TypeKind distinguishes the five declaration forms a TypeDef can lower
// from.
type TypeKind int

const (
	KindClass TypeKind = iota
	KindInterface
	KindEnum
	KindRecord
	KindAnnotation
)

// Import is one import declaration's lowered shape.
type Import struct {
	TypeRef    corepkg.TypeName
	IsStatic   bool
	IsWildcard bool
	Range      corepkg.TextRange
}

// FieldDef is one field's signature: name, declared type text, and the
// modifiers that matter to resolution/typecheck.
type FieldDef struct {
	Name         corepkg.Name
	DeclaredType string
	IsStatic     bool
	IsFinal      bool
	Range        corepkg.TextRange
}

// MethodDef is one method's signature. Constructors are represented with
// an empty ReturnType and Name equal to the enclosing type's simple name.
type MethodDef struct {
	Name        corepkg.Name
	ParamNames  []string
	ParamTypes  []string
	ReturnType  string
	ThrowsTypes []string
	IsStatic    bool
	IsAbstract  bool
	IsDefault   bool
	Enclosing   corepkg.TypeName
	Range       corepkg.TextRange
	// Body is the method/constructor's block, or nil for an abstract/
	// interface method with no body. The typechecker walks it directly;
	// HIR never interprets statements or expressions inside it.
	Body *syntax.Red
}

// TypeDef is one class/interface/enum/record/annotation-type
// declaration's signature: its identity, its fields and methods (enum
// constants lowered as static final fields of the enum type, per
// spec.md §4.5), but never its members' bodies.
type TypeDef struct {
	Name       corepkg.Name
	BinaryName corepkg.TypeName
	Enclosing  corepkg.TypeName // "" for a top-level type
	Kind       TypeKind
	Modifiers  ModifierSet
	// Super is the declared superclass's type-ref text, or "" if
	// implicit (Object, or this is an interface). An interface's
	// extends list is a superinterfaces list instead and is lowered
	// into Interfaces, never Super.
	Super      string
	Interfaces []string
	Fields     []FieldDef
	Methods    []MethodDef
	Range      corepkg.TextRange
}

// ModifierSet is the subset of Java modifiers HIR cares about at the
// type level.
type ModifierSet struct {
	IsPublic   bool
	IsFinal    bool
	IsAbstract bool
	IsStatic   bool
}

// ItemTree is one file's lowered shape: its package, imports, and every
// type declaration in it (nested types flattened alongside their
// enclosing type, each carrying its own `$`-joined binary name).
type ItemTree struct {
	File    corepkg.FileId
	Package corepkg.PackageName
	Imports []Import
	Types   []*TypeDef
}

// BuildItemTree lowers a parsed source file's type declarations. file
// identifies the source this tree was built from, for WorkspaceDefMap's
// file→module/package bookkeeping.
func BuildItemTree(file corepkg.FileId, sf syntax.SourceFile) *ItemTree {
	tree := &ItemTree{File: file, Package: sf.PackageName()}
	for _, imp := range sf.Imports() {
		tree.Imports = append(tree.Imports, Import{
			TypeRef:    imp.TypeRef(),
			IsStatic:   imp.IsStatic(),
			IsWildcard: imp.IsWildcard(),
			Range:      imp.Red.Range(),
		})
	}
	for _, td := range sf.TypeDeclarations() {
		lowerTypeDecl(tree, td, "")
	}
	return tree
}

func lowerTypeDecl(tree *ItemTree, td syntax.TypeDeclaration, enclosing corepkg.TypeName) {
	simple := td.SimpleName()
	binary := simple
	if enclosing != "" {
		binary = corepkg.TypeName(string(enclosing) + "$" + string(simple))
	} else if tree.Package != "" {
		binary = corepkg.TypeName(string(tree.Package) + "." + string(simple))
	}

	mods := td.Modifiers()
	def := &TypeDef{
		Name:       corepkg.Name(simple),
		BinaryName: binary,
		Enclosing:  enclosing,
		Kind:       classifyKind(td.Red.Kind()),
		Modifiers: ModifierSet{
			IsPublic:   mods.IsPublic(),
			IsFinal:    mods.IsFinal(),
			IsAbstract: mods.IsAbstract(),
			IsStatic:   mods.IsStatic(),
		},
		Range: td.Red.Range(),
	}
	lowerSupertypes(def, td.Red)
	tree.Types = append(tree.Types, def)

	for _, member := range td.Members() {
		lowerMember(tree, def, member, binary)
	}
}

// lowerSupertypes walks a type declaration's direct children looking for
// the `extends`/`implements` NodeTypeRef lists. They're flat siblings of
// the declaration's name and body (spec.md §4.2's concrete tree has no
// dedicated "extends clause" node), so the TokExtends/TokImplements
// keyword tokens that precede them are what distinguishes one list from
// the other. A class's extends list holds at most one superclass; an
// interface's extends list holds zero or more superinterfaces and is
// lowered into Interfaces instead of Super.
func lowerSupertypes(def *TypeDef, node *syntax.Red) {
	const (
		modeNone = iota
		modeExtends
		modeImplements
	)
	mode := modeNone
	for _, c := range node.Children() {
		if c.IsToken() {
			switch c.Kind() {
			case syntax.TokExtends:
				mode = modeExtends
			case syntax.TokImplements:
				mode = modeImplements
			}
			continue
		}
		if c.Kind() != syntax.NodeTypeRef {
			continue
		}
		text := typeRefText(c)
		switch {
		case mode == modeExtends && def.Kind == KindInterface:
			def.Interfaces = append(def.Interfaces, text)
		case mode == modeExtends && def.Super == "":
			def.Super = text
		case mode == modeImplements:
			def.Interfaces = append(def.Interfaces, text)
		}
	}
}

func lowerMember(tree *ItemTree, owner *TypeDef, member syntax.MemberDeclaration, ownerBinary corepkg.TypeName) {
	switch member.Red.Kind() {
	case syntax.NodeClassDeclaration, syntax.NodeInterfaceDeclaration, syntax.NodeEnumDeclaration,
		syntax.NodeRecordDeclaration, syntax.NodeAnnotationDeclaration:
		lowerTypeDecl(tree, syntax.TypeDeclaration{Red: member.Red}, ownerBinary)
	case syntax.NodeFieldDeclaration:
		owner.Fields = append(owner.Fields, lowerField(member))
	case syntax.NodeMethodDeclaration:
		owner.Methods = append(owner.Methods, lowerMethod(member, ownerBinary, false))
	case syntax.NodeConstructorDeclaration:
		owner.Methods = append(owner.Methods, lowerMethod(member, ownerBinary, true))
	case syntax.NodeEnumConstant:
		owner.Fields = append(owner.Fields, FieldDef{
			Name:         corepkg.Name(member.Name()),
			DeclaredType: string(owner.Name),
			IsStatic:     true,
			IsFinal:      true,
			Range:        member.Red.Range(),
		})
	}
}

func lowerField(member syntax.MemberDeclaration) FieldDef {
	mods := member.Modifiers()
	typeRef, _ := member.Red.FirstChildOfKind(syntax.NodeTypeRef)
	return FieldDef{
		Name:         corepkg.Name(member.Name()),
		DeclaredType: typeRefText(typeRef),
		IsStatic:     mods.IsStatic(),
		IsFinal:      mods.IsFinal(),
		Range:        member.Red.Range(),
	}
}

func lowerMethod(member syntax.MemberDeclaration, enclosing corepkg.TypeName, isConstructor bool) MethodDef {
	mods := member.Modifiers()
	def := MethodDef{
		Name:       corepkg.Name(member.Name()),
		Enclosing:  enclosing,
		IsStatic:   mods.IsStatic(),
		IsAbstract: mods.IsAbstract(),
		IsDefault:  mods.Has(syntax.TokDefault),
		Range:      member.Red.Range(),
	}
	// A method member's direct NodeTypeRef children are, in order, its
	// return type (absent for constructors) followed by zero or more
	// throws types; parameter types live one level deeper, under
	// NodeParameterList, so they never appear in this list.
	var typeRefs []*syntax.Red
	for _, c := range member.Red.Children() {
		if c.Kind() == syntax.NodeTypeRef {
			typeRefs = append(typeRefs, c)
		}
	}
	if !isConstructor && len(typeRefs) > 0 {
		def.ReturnType = typeRefText(typeRefs[0])
		typeRefs = typeRefs[1:]
	}
	for _, tr := range typeRefs {
		def.ThrowsTypes = append(def.ThrowsTypes, typeRefText(tr))
	}
	if params, ok := member.Red.FirstChildOfKind(syntax.NodeParameterList); ok {
		for _, p := range params.ChildrenOfKind(syntax.NodeParameter) {
			if ref, ok := p.FirstChildOfKind(syntax.NodeTypeRef); ok {
				def.ParamTypes = append(def.ParamTypes, typeRefText(ref))
			}
			def.ParamNames = append(def.ParamNames, parameterName(p))
		}
	}
	def.Body, _ = member.Red.FirstChildOfKind(syntax.NodeBlock)
	return def
}

// parameterName returns a NodeParameter's declared identifier. The type
// ref is a sibling sub-node, not a direct token, so the only direct
// TokIdent child is the parameter's own name.
func parameterName(p *syntax.Red) string {
	for _, c := range p.Children() {
		if c.IsToken() && c.Kind() == syntax.TokIdent {
			return c.TokenText()
		}
	}
	return ""
}

func classifyKind(k syntax.SyntaxKind) TypeKind {
	switch k {
	case syntax.NodeInterfaceDeclaration:
		return KindInterface
	case syntax.NodeEnumDeclaration:
		return KindEnum
	case syntax.NodeRecordDeclaration:
		return KindRecord
	case syntax.NodeAnnotationDeclaration:
		return KindAnnotation
	default:
		return KindClass
	}
}

// typeRefText reconstructs a NodeTypeRef's exact declared text (e.g.
// "List<String>", "? extends Number", "int[]"), collapsing any
// intervening trivia down to single spaces so a type ref spanning a
// line break still reads as one line.
func typeRefText(ref *syntax.Red) string {
	if ref == nil {
		return ""
	}
	return strings.Join(strings.Fields(ref.Text()), " ")
}
