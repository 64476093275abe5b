package salsadb

import (
	"fmt"
	"reflect"
)

// QueryCtx is threaded through a derived query's Compute function. It
// records every Cell and every nested Query read during computation, so
// the resulting memo knows exactly what to revalidate before reuse.
type QueryCtx struct {
	db   *DB
	deps map[Key]struct{}
}

func newQueryCtx(db *DB) *QueryCtx {
	return &QueryCtx{db: db, deps: make(map[Key]struct{})}
}

func (c *QueryCtx) track(key Key) { c.deps[key] = struct{}{} }

func (c *QueryCtx) depSlice() []Key {
	deps := make([]Key, 0, len(c.deps))
	for k := range c.deps {
		deps = append(deps, k)
	}
	return deps
}

// Query is a named, memoized, pure function of the DB's inputs and other
// queries: tokenize, parse, item tree, def map, resolve name, type of
// expression, diagnostics for file, workspace symbol search, and so on
// are each one Query[K, V] value. Compute must depend only on reads made
// through the QueryCtx it is given — any other data source breaks
// incremental correctness.
type Query[K comparable, V any] struct {
	Name    string
	Compute func(ctx *QueryCtx, key K) (V, error)
}

// Get returns key's memoized value, recomputing it only if no cached
// memo exists or a tracked dependency changed since the memo was last
// verified. parent is the QueryCtx of whatever query is calling Get, so
// this query's result is recorded as one of the parent's dependencies;
// pass nil for a top-level call made outside any other query.
//
// A panic inside Compute is recovered here and reported as a
// *QueryPanic, contained to this one query — it neither propagates to
// the caller as a runtime panic nor corrupts any other query's memo.
func (q *Query[K, V]) Get(db *DB, parent *QueryCtx, key K) (V, error) {
	cacheKey := db.cacheKeyFor(q.Name, key)
	if parent != nil {
		parent.track(cacheKey)
	}

	if v, err, ok := db.lookupValidMemo(cacheKey); ok {
		value, _ := v.(V)
		return value, err
	}

	result, err, _ := db.group.Do(string(cacheKey), func() (any, error) {
		// Re-check after winning the singleflight race: another caller
		// may have just computed and stored this memo while we waited.
		if v, err, ok := db.lookupValidMemo(cacheKey); ok {
			return v, err
		}
		return q.computeAndStore(db, cacheKey, key)
	})
	if err != nil {
		if _, isPanic := err.(*QueryPanic); isPanic {
			var zero V
			return zero, err
		}
	}
	value, _ := result.(V)
	return value, err
}

func (q *Query[K, V]) computeAndStore(db *DB, cacheKey Key, key K) (value any, err error) {
	ctx := newQueryCtx(db)

	defer func() {
		if r := recover(); r != nil {
			err = &QueryPanic{Query: q.Name, Key: keyString(key), Cause: r}
			value = *new(V)
		}
	}()

	computed, computeErr := q.Compute(ctx, key)
	current := db.CurrentRevision()

	db.memoMu.Lock()
	prev, hadPrev := db.memos[cacheKey]
	changedAt := current
	if hadPrev && computeErr == nil && prev.err == nil && reflect.DeepEqual(prev.value, computed) {
		changedAt = prev.changedAt
	}
	db.memos[cacheKey] = &memoEntry{
		value:      computed,
		err:        computeErr,
		deps:       ctx.depSlice(),
		changedAt:  changedAt,
		verifiedAt: current,
	}
	db.memoMu.Unlock()

	return computed, computeErr
}

// lookupValidMemo returns a cached memo's value if it exists and none of
// its tracked dependencies have changed since it was last verified (a
// dependency that is itself a memo is re-verified first, so a change
// deep in the graph is seen), bumping its verifiedAt to the current revision so later lookups skip
// the dependency walk entirely until something actually changes.
func (db *DB) lookupValidMemo(cacheKey Key) (any, error, bool) {
	db.memoMu.Lock()
	memo, ok := db.memos[cacheKey]
	db.memoMu.Unlock()
	if !ok {
		return nil, nil, false
	}

	current := db.CurrentRevision()
	if memo.verifiedAt == current {
		return memo.value, memo.err, true
	}

	for _, dep := range memo.deps {
		db.memoMu.Lock()
		_, depIsMemo := db.memos[dep]
		db.memoMu.Unlock()
		if depIsMemo {
			if _, _, ok := db.lookupValidMemo(dep); !ok {
				return nil, nil, false
			}
		}
		changedAt, known := db.changedAtOf(dep)
		if !known || changedAt > memo.verifiedAt {
			return nil, nil, false
		}
	}

	db.memoMu.Lock()
	memo.verifiedAt = current
	db.memoMu.Unlock()
	return memo.value, memo.err, true
}

func keyString(key any) string {
	return fmt.Sprintf("%v", key)
}
