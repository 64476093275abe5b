package typecheck

import "github.com/nova-lang/nova/internal/corepkg"

// SymbolKind distinguishes what a scope entry denotes.
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymParameter
	SymField
	SymMethod
	SymType
	SymPackage
)

// Symbol is one scope entry: a local variable, parameter, field, method,
// type, or package name.
type Symbol struct {
	Name     corepkg.Name
	Kind     SymbolKind
	Type     Type             // meaningful for Variable/Parameter/Field
	TypeName corepkg.TypeName // meaningful for Type
}

// ScopeKind names the four nesting levels spec.md §4.6's scope model
// builds per HIR node.
type ScopeKind int

const (
	ScopeCompilationUnit ScopeKind = iota
	ScopeType
	ScopeMethod
	ScopeBlock
)

// Scope is one level of the lookup chain: compilation unit (package +
// imports) -> enclosing type(s) -> method/block -> inner blocks. Lookup
// walks from innermost to outermost; a name declared in more than one
// scope on that walk resolves to the innermost (spec.md §4.6,
// "shadows the outer one").
type Scope struct {
	Kind    ScopeKind
	Parent  *Scope
	symbols map[corepkg.Name][]Symbol
}

func NewScope(kind ScopeKind, parent *Scope) *Scope {
	return &Scope{Kind: kind, Parent: parent, symbols: make(map[corepkg.Name][]Symbol)}
}

// Declare adds sym to this scope. Multiple method symbols sharing a name
// form an overload set; any other kind sharing a name with an existing
// entry replaces it (the HIR/resolver layer is responsible for raising
// a diagnostic on illegal duplicate declarations before this point).
func (s *Scope) Declare(sym Symbol) {
	if sym.Kind == SymMethod {
		s.symbols[sym.Name] = append(s.symbols[sym.Name], sym)
		return
	}
	s.symbols[sym.Name] = []Symbol{sym}
}

// Lookup searches this scope and, if not found, its ancestors. It
// returns the first (innermost) scope's binding for name.
func (s *Scope) Lookup(name corepkg.Name) (Symbol, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		if syms, ok := scope.symbols[name]; ok && len(syms) > 0 {
			return syms[0], true
		}
	}
	return Symbol{}, false
}

// LookupMethods returns the innermost scope's overload set for name,
// without looking further outward once any scope has a binding (method
// overload sets don't merge across scope boundaries).
func (s *Scope) LookupMethods(name corepkg.Name) []Symbol {
	for scope := s; scope != nil; scope = scope.Parent {
		if syms, ok := scope.symbols[name]; ok && len(syms) > 0 {
			return syms
		}
	}
	return nil
}

// hasOwnSymbol reports whether this exact scope (not its ancestors)
// declares name.
func (s *Scope) hasOwnSymbol(name corepkg.Name) bool {
	syms, ok := s.symbols[name]
	return ok && len(syms) > 0
}

// hasOuterSymbol reports whether any ancestor of this scope declares
// name.
func (s *Scope) hasOuterSymbol(name corepkg.Name) bool {
	for scope := s.Parent; scope != nil; scope = scope.Parent {
		if scope.hasOwnSymbol(name) {
			return true
		}
	}
	return false
}
