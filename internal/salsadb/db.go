// Package salsadb implements a demand-driven, incremental query engine in
// the style of salsa: input cells set from outside, derived queries
// memoized and only recomputed when a transitive dependency actually
// changed, revisions to detect staleness cheaply, and snapshots for
// concurrent read-only access.
package salsadb

import (
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Key identifies one input cell or one (query, argument) pair in the
// shared dependency graph. Input cells and derived queries share this
// namespace so a memo's dependency list can refer to either uniformly.
type Key string

type inputEntry struct {
	value     any
	changedAt Revision
}

type memoEntry struct {
	value      any
	err        error
	deps       []Key
	changedAt  Revision
	verifiedAt Revision
}

// DB is the root database. Writes (Cell.Set) are serialized against each
// other and against reads by an RWMutex: this is a deliberate
// simplification of salsa's full copy-on-write snapshot model (see
// (*DB).Snapshot) traded for a plain, auditable Go implementation.
type DB struct {
	mu       sync.RWMutex
	revision Revision
	inputs   map[Key]inputEntry

	memoMu sync.Mutex
	memos  map[Key]*memoEntry

	group singleflight.Group
}

// New creates an empty DB at revision 0.
func New() *DB {
	return &DB{
		inputs: make(map[Key]inputEntry),
		memos:  make(map[Key]*memoEntry),
	}
}

// CurrentRevision returns the DB's current global revision.
func (db *DB) CurrentRevision() Revision {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.revision
}

// setInput stores value under key. If it differs from the previous value
// (compared with reflect.DeepEqual, since input values are arbitrary
// caller-chosen types), the global revision advances and key's
// changedAt is set to the new revision; an unchanged write is a no-op
// that does not disturb any memo's validity.
func (db *DB) setInput(key Key, value any) {
	db.mu.Lock()
	defer db.mu.Unlock()

	prev, existed := db.inputs[key]
	if existed && reflect.DeepEqual(prev.value, value) {
		return
	}
	db.revision++
	db.inputs[key] = inputEntry{value: value, changedAt: db.revision}
}

// getInput reads key's current value. The zero value and false are
// returned if the cell was never set.
func (db *DB) getInput(key Key) (any, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	e, ok := db.inputs[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// changedAtOf returns the revision at which key (an input cell or a
// previously-computed derived query) last produced a different value,
// used by memo validity checks to decide whether a dependency moved out
// from under a memo without needing to recompute it.
func (db *DB) changedAtOf(key Key) (Revision, bool) {
	db.mu.RLock()
	if e, ok := db.inputs[key]; ok {
		db.mu.RUnlock()
		return e.changedAt, true
	}
	db.mu.RUnlock()

	db.memoMu.Lock()
	defer db.memoMu.Unlock()
	if m, ok := db.memos[key]; ok {
		return m.changedAt, true
	}
	return 0, false
}

// EvictMemos drops memoized derived-query results under memory
// pressure. Input cells, and any interner or other process-lifetime
// service the caller holds outside the DB, are never touched — only
// entries in the DB's own memo table are eligible.
func (db *DB) EvictMemos(pressure Pressure) {
	switch pressure {
	case PressureLow:
		// Below the threshold worth acting on: leave memos in place.
		return
	case PressureNormal:
		db.evictStaleMemos()
	case PressureHigh, PressureCritical:
		db.memoMu.Lock()
		db.memos = make(map[Key]*memoEntry)
		db.memoMu.Unlock()
	}
}

// evictStaleMemos drops only memos not verified at the DB's current
// revision, leaving memos already known-fresh in place.
func (db *DB) evictStaleMemos() {
	current := db.CurrentRevision()
	db.memoMu.Lock()
	defer db.memoMu.Unlock()
	for k, m := range db.memos {
		if m.verifiedAt != current {
			delete(db.memos, k)
		}
	}
}

// Snapshot records the revision the DB was at when it was taken. It
// holds no copy of the DB's inputs or memos and has no query method of
// its own: queries run against the live DB, so a read made after a
// later write sees that write, not the captured revision. Concurrent
// reads are safe because they take the RWMutex's read lock.
type Snapshot struct {
	db       *DB
	revision Revision
}

// Snapshot captures the DB's current revision for read-only querying.
func (db *DB) Snapshot() *Snapshot {
	return &Snapshot{db: db, revision: db.CurrentRevision()}
}

// Revision returns the revision this snapshot was captured at.
func (s *Snapshot) Revision() Revision { return s.revision }

func (db *DB) cacheKeyFor(queryName string, key any) Key {
	return Key(fmt.Sprintf("%s:%v", queryName, key))
}
