package ide

import (
	"testing"

	"github.com/nova-lang/nova/internal/typecheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenameProducesEditWhenFree(t *testing.T) {
	scope := typecheck.NewScope(typecheck.ScopeBlock, nil)
	scope.Declare(typecheck.Symbol{Name: "count", Kind: typecheck.SymVariable})

	targets := []RenameTarget{
		{Path: "A.java", Range: Range{Start: Position{0, 0}, End: Position{0, 5}}, Scope: scope},
	}

	edit, err := Rename(targets, "total")
	require.NoError(t, err)
	require.Len(t, edit.Changes["A.java"], 1)
	assert.Equal(t, "total", edit.Changes["A.java"][0].NewText)
}

func TestRenameRejectsCollisionInSameScope(t *testing.T) {
	scope := typecheck.NewScope(typecheck.ScopeBlock, nil)
	scope.Declare(typecheck.Symbol{Name: "count", Kind: typecheck.SymVariable})
	scope.Declare(typecheck.Symbol{Name: "total", Kind: typecheck.SymVariable})

	targets := []RenameTarget{
		{Path: "A.java", Range: Range{Start: Position{0, 0}, End: Position{0, 5}}, Scope: scope},
	}

	_, err := Rename(targets, "total")
	require.Error(t, err)
}

func TestRenameRejectsShadowingOuterScope(t *testing.T) {
	outer := typecheck.NewScope(typecheck.ScopeMethod, nil)
	outer.Declare(typecheck.Symbol{Name: "total", Kind: typecheck.SymVariable})
	inner := typecheck.NewScope(typecheck.ScopeBlock, outer)
	inner.Declare(typecheck.Symbol{Name: "count", Kind: typecheck.SymVariable})

	targets := []RenameTarget{
		{Path: "A.java", Range: Range{Start: Position{0, 0}, End: Position{0, 5}}, Scope: inner},
	}

	_, err := Rename(targets, "total")
	require.Error(t, err)
}

func TestRenameWithNoTargetsErrors(t *testing.T) {
	_, err := Rename(nil, "total")
	assert.Error(t, err)
}
