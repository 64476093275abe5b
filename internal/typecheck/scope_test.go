package typecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-lang/nova/internal/corepkg"
)

func TestScopeInnermostWins(t *testing.T) {
	outer := NewScope(ScopeMethod, nil)
	outer.Declare(Symbol{Name: "x", Kind: SymVariable, Type: PrimitiveType(Int)})

	inner := NewScope(ScopeBlock, outer)
	inner.Declare(Symbol{Name: "x", Kind: SymVariable, Type: PrimitiveType(Double)})

	sym, ok := inner.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, PrimitiveType(Double), sym.Type)

	sym, ok = outer.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, PrimitiveType(Int), sym.Type)
}

func TestScopeLookupWalksOutward(t *testing.T) {
	outer := NewScope(ScopeCompilationUnit, nil)
	outer.Declare(Symbol{Name: "Widget", Kind: SymType, TypeName: "com.example.Widget"})

	inner := NewScope(ScopeBlock, outer)
	_, ok := inner.Lookup("Widget")
	require.True(t, ok)

	_, ok = inner.Lookup("Missing")
	assert.False(t, ok)
}

func TestScopeMethodOverloadSet(t *testing.T) {
	s := NewScope(ScopeType, nil)
	s.Declare(Symbol{Name: "run", Kind: SymMethod})
	s.Declare(Symbol{Name: "run", Kind: SymMethod})

	methods := s.LookupMethods("run")
	assert.Len(t, methods, 2)
}

func TestScopeHasOwnAndOuterSymbol(t *testing.T) {
	outer := NewScope(ScopeMethod, nil)
	outer.Declare(Symbol{Name: "count", Kind: SymVariable})

	inner := NewScope(ScopeBlock, outer)
	assert.False(t, inner.hasOwnSymbol("count"))
	assert.True(t, inner.hasOuterSymbol("count"))

	inner.Declare(Symbol{Name: corepkg.Name("count"), Kind: SymVariable})
	assert.True(t, inner.hasOwnSymbol("count"))
}
