package typecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatchClauseCheckerResolvesThrowableSubtype(t *testing.T) {
	store := NewTypeStore()
	c := NewCatchClauseChecker()

	ok := c.Check(store, ClassType("java.lang.NullPointerException"))
	assert.True(t, ok)
	assert.Equal(t, CatchResolved, c.State)
}

func TestCatchClauseCheckerRejectsNonThrowable(t *testing.T) {
	store := NewTypeStore()
	c := NewCatchClauseChecker()

	ok := c.Check(store, ClassType(store.WellKnown().String))
	assert.False(t, ok)
	assert.Equal(t, CatchInvalidCatchType, c.State)
}

func TestCatchClauseCheckerIsTerminal(t *testing.T) {
	store := NewTypeStore()
	c := NewCatchClauseChecker()

	c.Check(store, ClassType(store.WellKnown().String))

	ok := c.Check(store, ClassType("java.lang.Exception"))
	assert.False(t, ok, "a terminal InvalidCatchType must not be re-evaluated even with a valid type")
}

func TestRenameConflictCheckerDetectsCollisionBeforeShadowing(t *testing.T) {
	outer := NewScope(ScopeMethod, nil)
	outer.Declare(Symbol{Name: "value", Kind: SymVariable})

	inner := NewScope(ScopeBlock, outer)
	inner.Declare(Symbol{Name: "value", Kind: SymVariable})

	r := NewRenameConflictChecker()
	state := r.Evaluate(inner, "value")
	assert.Equal(t, RenameNameCollision, state)
}

func TestRenameConflictCheckerDetectsShadowing(t *testing.T) {
	outer := NewScope(ScopeMethod, nil)
	outer.Declare(Symbol{Name: "value", Kind: SymVariable})

	inner := NewScope(ScopeBlock, outer)

	r := NewRenameConflictChecker()
	state := r.Evaluate(inner, "value")
	assert.Equal(t, RenameShadowing, state)
}

func TestRenameConflictCheckerOkWhenFree(t *testing.T) {
	scope := NewScope(ScopeMethod, nil)

	r := NewRenameConflictChecker()
	state := r.Evaluate(scope, "fresh")
	assert.Equal(t, RenameOk, state)
}
