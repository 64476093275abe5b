package salsadb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellGetSetAdvancesRevision(t *testing.T) {
	db := New()
	cell := NewCell(db, Key("file:1"), "package a;")
	r0 := db.CurrentRevision()

	assert.Equal(t, "package a;", cell.Get(nil))

	cell.Set("package a;") // unchanged value: no revision bump
	assert.Equal(t, r0, db.CurrentRevision())

	cell.Set("package b;")
	assert.Greater(t, db.CurrentRevision(), r0)
	assert.Equal(t, "package b;", cell.Get(nil))
}

func TestDerivedQueryMemoizesUntilInputChanges(t *testing.T) {
	db := New()
	text := NewCell(db, Key("file:1"), "hello world")

	calls := 0
	wordCount := &Query[string, int]{
		Name: "wordCount",
		Compute: func(ctx *QueryCtx, fileKey string) (int, error) {
			calls++
			return len(strings.Fields(text.Get(ctx))), nil
		},
	}

	n, err := wordCount.Get(db, nil, "file:1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, calls)

	// Second read with no input change: memo hits, Compute not re-run.
	n, err = wordCount.Get(db, nil, "file:1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, calls)

	// Changing the tracked dependency invalidates the memo.
	text.Set("hello there world")
	n, err = wordCount.Get(db, nil, "file:1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, calls)
}

func TestDerivedQueryUnchangedValuePreservesChangedAt(t *testing.T) {
	db := New()
	text := NewCell(db, Key("file:1"), "aaa bbb")

	lengthBucket := &Query[string, int]{
		Name: "lengthBucket",
		Compute: func(ctx *QueryCtx, fileKey string) (int, error) {
			return len(text.Get(ctx)) / 10, nil
		},
	}

	_, err := lengthBucket.Get(db, nil, "file:1")
	require.NoError(t, err)
	firstChangedAt, ok := db.changedAtOf(db.cacheKeyFor("lengthBucket", "file:1"))
	require.True(t, ok)

	// A dependency change that doesn't alter the derived value (still
	// bucket 0) must not bump changedAt, even though the memo is
	// recomputed.
	text.Set("aaab bbbc")
	_, err = lengthBucket.Get(db, nil, "file:1")
	require.NoError(t, err)
	secondChangedAt, ok := db.changedAtOf(db.cacheKeyFor("lengthBucket", "file:1"))
	require.True(t, ok)
	assert.Equal(t, firstChangedAt, secondChangedAt)
}

func TestNestedQueryDependencyPropagates(t *testing.T) {
	db := New()
	text := NewCell(db, Key("file:1"), "int x = 1;")

	tokenCount := &Query[string, int]{
		Name: "tokenCount",
		Compute: func(ctx *QueryCtx, fileKey string) (int, error) {
			return len(strings.Fields(text.Get(ctx))), nil
		},
	}
	hasManyTokens := &Query[string, bool]{
		Name: "hasManyTokens",
		Compute: func(ctx *QueryCtx, fileKey string) (bool, error) {
			n, err := tokenCount.Get(db, ctx, fileKey)
			if err != nil {
				return false, err
			}
			return n > 4, nil
		},
	}

	result, err := hasManyTokens.Get(db, nil, "file:1")
	require.NoError(t, err)
	assert.False(t, result)

	text.Set("int x = 1; int y = 2;")
	result, err = hasManyTokens.Get(db, nil, "file:1")
	require.NoError(t, err)
	assert.True(t, result)
}

func TestQueryPanicIsContained(t *testing.T) {
	db := New()
	boom := &Query[string, int]{
		Name: "boom",
		Compute: func(ctx *QueryCtx, key string) (int, error) {
			panic("derived query exploded")
		},
	}

	_, err := boom.Get(db, nil, "any")
	require.Error(t, err)
	var qp *QueryPanic
	assert.ErrorAs(t, err, &qp)
	assert.Equal(t, "boom", qp.Query)

	// The panic must not have wedged the DB for unrelated queries.
	ok := &Query[string, int]{
		Name:    "ok",
		Compute: func(ctx *QueryCtx, key string) (int, error) { return 42, nil },
	}
	n, err := ok.Get(db, nil, "any")
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestEvictMemosLowIsNoop(t *testing.T) {
	db := New()
	text := NewCell(db, Key("file:1"), "a b c")
	calls := 0
	q := &Query[string, int]{
		Name: "q",
		Compute: func(ctx *QueryCtx, key string) (int, error) {
			calls++
			return len(strings.Fields(text.Get(ctx))), nil
		},
	}
	_, _ = q.Get(db, nil, "file:1")
	db.EvictMemos(PressureLow)
	_, _ = q.Get(db, nil, "file:1")
	assert.Equal(t, 1, calls)
}

func TestEvictMemosHighForcesRecompute(t *testing.T) {
	db := New()
	text := NewCell(db, Key("file:1"), "a b c")
	calls := 0
	q := &Query[string, int]{
		Name: "q",
		Compute: func(ctx *QueryCtx, key string) (int, error) {
			calls++
			return len(strings.Fields(text.Get(ctx))), nil
		},
	}
	_, _ = q.Get(db, nil, "file:1")
	db.EvictMemos(PressureHigh)
	_, _ = q.Get(db, nil, "file:1")
	assert.Equal(t, 2, calls)
}

func TestSnapshotCapturesRevision(t *testing.T) {
	db := New()
	cell := NewCell(db, Key("file:1"), "v1")
	snap := db.Snapshot()
	assert.Equal(t, db.CurrentRevision(), snap.Revision())

	cell.Set("v2")
	assert.Less(t, snap.Revision(), db.CurrentRevision())
}
