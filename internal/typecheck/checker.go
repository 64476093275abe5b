package typecheck

import (
	"fmt"

	"github.com/nova-lang/nova/internal/corepkg"
	"github.com/nova-lang/nova/internal/hir"
	"github.com/nova-lang/nova/internal/syntax"
)

// Checker orchestrates checking of one file's ItemTree against the
// workspace and classpath: resolving every type reference reachable
// from a declaration's header (extends/implements, field/param/return/
// throws types), checking throws clauses against the Throwable
// hierarchy, flagging unused imports, and — for every method or
// constructor that has a parsed Body — walking its statements and
// expressions (spec.md §4.6).
type Checker struct {
	resolver *Resolver
	store    *TypeStore
}

func NewChecker(resolver *Resolver, store *TypeStore) *Checker {
	return &Checker{resolver: resolver, store: store}
}

// CheckFile resolves every type reference in tree's declarations,
// checks throws clauses, flags unused imports, and checks every
// method/constructor body present, returning every diagnostic produced.
// A raw type-ref text that fails to resolve is reported only once per
// file even if several signatures reference it — an unresolved root is
// not rediscovered as fresh news at every use site.
func (c *Checker) CheckFile(tree *hir.ItemTree, fileDefs *hir.DefMap, imports []hir.Import) []Diagnostic {
	var diags []Diagnostic
	reported := make(map[string]bool)

	resolveOrDiagnose := func(text string, where corepkg.TextRange) (corepkg.TypeName, bool) {
		if text == "" || text == "void" || isPrimitiveTypeName(text) {
			return corepkg.TypeName(text), true
		}
		resolved, ok := c.resolver.ResolveSimpleTypeName(fileDefs, tree.Package, imports, stripArraySuffix(text))
		if ok {
			return resolved, true
		}
		if !reported[text] {
			reported[text] = true
			diags = append(diags, Diagnostic{
				Severity: SeverityError,
				Code:     CodeUnresolvedType,
				Message:  fmt.Sprintf("cannot resolve type %q", text),
				File:     tree.File,
				Range:    where,
			})
		}
		return "", false
	}

	for _, td := range tree.Types {
		if td.Super != "" {
			resolveOrDiagnose(td.Super, td.Range)
		}
		for _, iface := range td.Interfaces {
			resolveOrDiagnose(iface, td.Range)
		}
		for _, f := range td.Fields {
			resolveOrDiagnose(f.DeclaredType, f.Range)
		}
		for _, m := range td.Methods {
			if m.ReturnType != "" {
				resolveOrDiagnose(m.ReturnType, m.Range)
			}
			for _, p := range m.ParamTypes {
				resolveOrDiagnose(p, m.Range)
			}
			for _, th := range m.ThrowsTypes {
				resolved, ok := resolveOrDiagnose(th, m.Range)
				if !ok {
					continue
				}
				if _, known := c.store.ClassDef(resolved); !known {
					continue
				}
				if !c.store.IsSubtype(resolved, c.store.WellKnown().Throwable) {
					diags = append(diags, Diagnostic{
						Severity: SeverityError,
						Code:     CodeInvalidThrow,
						Message:  fmt.Sprintf("%s is not a subtype of Throwable", th),
						File:     tree.File,
						Range:    m.Range,
					})
				}
			}
		}
	}

	c.checkUnusedImports(tree, &diags)

	bc := &bodyCheck{checker: c, tree: tree, fileDefs: fileDefs, imports: imports, reported: reported, diags: &diags}
	for _, td := range tree.Types {
		for _, m := range td.Methods {
			bc.checkMethodBody(td, m)
		}
	}

	return diags
}

// checkUnusedImports flags an explicit single-type import whose simple
// name never appears anywhere in the file: not in a header type ref
// (extends/implements/field/param/return/throws) and not in a parsed
// method body. This is an item-level check — it needs no statement or
// expression grammar — but the body scan it does needs DescendantsOfKind
// over a parsed Body, so it only became meaningful once bodies stopped
// being opaque.
func (c *Checker) checkUnusedImports(tree *hir.ItemTree, diags *[]Diagnostic) {
	for _, imp := range tree.Imports {
		if imp.IsStatic || imp.IsWildcard {
			continue
		}
		simple := string(imp.TypeRef.Simple())
		if simple == "" || referencesSimpleName(tree, simple) {
			continue
		}
		*diags = append(*diags, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeUnusedImport,
			Message:  fmt.Sprintf("unused import %s", imp.TypeRef),
			File:     tree.File,
			Range:    imp.Range,
		})
	}
}

func referencesSimpleName(tree *hir.ItemTree, simple string) bool {
	for _, td := range tree.Types {
		if typeRefMentions(td.Super, simple) {
			return true
		}
		for _, iface := range td.Interfaces {
			if typeRefMentions(iface, simple) {
				return true
			}
		}
		for _, f := range td.Fields {
			if typeRefMentions(f.DeclaredType, simple) {
				return true
			}
		}
		for _, m := range td.Methods {
			if typeRefMentions(m.ReturnType, simple) {
				return true
			}
			for _, p := range m.ParamTypes {
				if typeRefMentions(p, simple) {
					return true
				}
			}
			for _, th := range m.ThrowsTypes {
				if typeRefMentions(th, simple) {
					return true
				}
			}
			if m.Body == nil {
				continue
			}
			for _, ref := range m.Body.DescendantsOfKind(syntax.NodeTypeRef) {
				if typeRefMentions(declaredTypeText(ref), simple) {
					return true
				}
			}
			for _, ne := range m.Body.DescendantsOfKind(syntax.NodeNameExpr) {
				toks := ne.SignificantTokens()
				if len(toks) > 0 && toks[0].TokenText() == simple {
					return true
				}
			}
		}
	}
	return false
}

// typeRefMentions reports whether simple appears as a whole identifier
// anywhere in text, so "List<Foo>" and "com.example.Foo" both count as
// a reference to "Foo" while "Foobar" does not.
func typeRefMentions(text, simple string) bool {
	for _, tok := range splitIdentLike(text) {
		if tok == simple {
			return true
		}
	}
	return false
}

func splitIdentLike(s string) []string {
	var out []string
	start := -1
	for i, r := range s {
		if isIdentRune(r) {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			out = append(out, s[start:i])
			start = -1
		}
	}
	if start != -1 {
		out = append(out, s[start:])
	}
	return out
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isPrimitiveTypeName(s string) bool {
	switch stripArraySuffix(s) {
	case "boolean", "byte", "short", "char", "int", "long", "float", "double":
		return true
	default:
		return false
	}
}

func stripArraySuffix(s string) string {
	for len(s) >= 2 && s[len(s)-2:] == "[]" {
		s = s[:len(s)-2]
	}
	return s
}
