package typecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMethodCallPrefersStrictOverWidening(t *testing.T) {
	store := NewTypeStore()

	takesInt := MethodCandidate{Name: "m", ParamTypes: []Type{PrimitiveType(Int)}}
	takesLong := MethodCandidate{Name: "m", ParamTypes: []Type{PrimitiveType(Long)}}

	match, code := ResolveMethodCall(store, []MethodCandidate{takesInt, takesLong}, []Type{PrimitiveType(Int)})
	require.Empty(t, code)
	require.NotNil(t, match)
	assert.Equal(t, takesInt, match.Candidate)
}

func TestResolveMethodCallFallsBackToLooseArityForBoxing(t *testing.T) {
	store := NewTypeStore()
	wk := store.WellKnown()

	takesInteger := MethodCandidate{Name: "m", ParamTypes: []Type{ClassType(wk.Integer)}}

	match, code := ResolveMethodCall(store, []MethodCandidate{takesInteger}, []Type{PrimitiveType(Int)})
	require.Empty(t, code)
	require.NotNil(t, match)
	assert.Equal(t, takesInteger, match.Candidate)
}

func TestResolveMethodCallUsesVarargsAsLastResort(t *testing.T) {
	store := NewTypeStore()

	fixed := MethodCandidate{Name: "m", ParamTypes: []Type{PrimitiveType(Int), PrimitiveType(Int)}}
	varargs := MethodCandidate{
		Name:       "m",
		ParamTypes: []Type{ArrayType(PrimitiveType(Int))},
		IsVarargs:  true,
	}

	match, code := ResolveMethodCall(store, []MethodCandidate{fixed, varargs},
		[]Type{PrimitiveType(Int), PrimitiveType(Int), PrimitiveType(Int)})
	require.Empty(t, code)
	require.NotNil(t, match)
	assert.Equal(t, varargs, match.Candidate)
}

func TestResolveMethodCallAmbiguousOnEqualCostTie(t *testing.T) {
	store := NewTypeStore()

	a := MethodCandidate{Name: "m", Owner: "A", ParamTypes: []Type{PrimitiveType(Long)}}
	b := MethodCandidate{Name: "m", Owner: "B", ParamTypes: []Type{PrimitiveType(Float)}}

	match, code := ResolveMethodCall(store, []MethodCandidate{a, b}, []Type{PrimitiveType(Int)})
	assert.Nil(t, match)
	assert.Equal(t, CodeAmbiguousMethod, code)
}

func TestResolveMethodCallUnresolvedWhenNoCandidateApplies(t *testing.T) {
	store := NewTypeStore()

	onlyTakesBoolean := MethodCandidate{Name: "m", ParamTypes: []Type{PrimitiveType(Boolean)}}

	match, code := ResolveMethodCall(store, []MethodCandidate{onlyTakesBoolean}, []Type{PrimitiveType(Int)})
	assert.Nil(t, match)
	assert.Equal(t, CodeUnresolvedMethod, code)
}
