package ide

import (
	"fmt"

	"github.com/nova-lang/nova/internal/corepkg"
	"github.com/nova-lang/nova/internal/typecheck"
)

// RenameTarget is one occurrence of the symbol being renamed: its
// declaring or referencing site, and the scope it's visible in (used
// for the collision/shadowing check).
type RenameTarget struct {
	Path  string
	Range Range
	Scope *typecheck.Scope
}

// Rename conflict-checks newName against every target's scope before
// building the edit — a single collision or shadowing anywhere in the
// symbol's occurrences fails the whole rename, since a partial rename
// would leave the workspace referring to two different symbols by the
// same name.
func Rename(targets []RenameTarget, newName string) (*WorkspaceEdit, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("ide: rename has no targets")
	}
	name := corepkg.Name(newName)

	seen := make(map[*typecheck.Scope]bool)
	for _, t := range targets {
		if t.Scope == nil || seen[t.Scope] {
			continue
		}
		seen[t.Scope] = true

		checker := typecheck.NewRenameConflictChecker()
		switch checker.Evaluate(t.Scope, name) {
		case typecheck.RenameNameCollision:
			return nil, fmt.Errorf("ide: %q collides with an existing symbol in the same scope", newName)
		case typecheck.RenameShadowing:
			return nil, fmt.Errorf("ide: %q shadows a symbol from an enclosing scope", newName)
		}
	}

	edit := NewWorkspaceEdit()
	for _, t := range targets {
		edit.Add(t.Path, TextEdit{Range: t.Range, NewText: newName})
	}
	if err := edit.Validate(); err != nil {
		return nil, err
	}
	return edit, nil
}
