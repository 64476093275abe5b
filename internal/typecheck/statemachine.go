package typecheck

import "github.com/nova-lang/nova/internal/corepkg"

// CatchClauseState is a catch clause's resolution state, set once and
// never revisited: a clause whose caught type turns out not to be a
// Throwable is terminally invalid, it doesn't get a second chance once
// more context is available.
type CatchClauseState int

const (
	CatchUninitialized CatchClauseState = iota
	CatchResolved
	CatchInvalidCatchType
)

// CatchClauseChecker drives one catch clause's caught-type state
// machine: Uninitialized -> Resolved (a Throwable subtype) |
// InvalidCatchType (anything else), both terminal.
type CatchClauseChecker struct {
	State        CatchClauseState
	ResolvedType Type
}

func NewCatchClauseChecker() *CatchClauseChecker {
	return &CatchClauseChecker{State: CatchUninitialized}
}

// Check resolves caught against store's Throwable hierarchy and
// transitions the state machine. Calling it again after the first
// transition just replays the stored verdict.
func (c *CatchClauseChecker) Check(store *TypeStore, caught Type) bool {
	if c.State != CatchUninitialized {
		return c.State == CatchResolved
	}
	if caught.Tag == TagClass && store.IsSubtype(caught.Class, store.WellKnown().Throwable) {
		c.State = CatchResolved
		c.ResolvedType = caught
		return true
	}
	c.State = CatchInvalidCatchType
	return false
}

// RenameConflictState is a proposed rename's outcome: only Ok lets the
// edit commit.
type RenameConflictState int

const (
	RenameProposed RenameConflictState = iota
	RenameNameCollision
	RenameShadowing
	RenameOk
)

// RenameConflictChecker drives a rename proposal's conflict check:
// Proposed -> NameCollision (a sibling in the same scope already has
// this name) | Shadowing (an outer scope does) | Ok.
type RenameConflictChecker struct {
	State RenameConflictState
}

func NewRenameConflictChecker() *RenameConflictChecker {
	return &RenameConflictChecker{State: RenameProposed}
}

// Evaluate checks newName against scope and transitions the state
// machine. Collision with a sibling in the same scope takes priority
// over shadowing an outer one, since a collision can never be resolved
// just by renaming further out.
func (r *RenameConflictChecker) Evaluate(scope *Scope, newName corepkg.Name) RenameConflictState {
	if r.State != RenameProposed {
		return r.State
	}
	switch {
	case scope.hasOwnSymbol(newName):
		r.State = RenameNameCollision
	case scope.hasOuterSymbol(newName):
		r.State = RenameShadowing
	default:
		r.State = RenameOk
	}
	return r.State
}
