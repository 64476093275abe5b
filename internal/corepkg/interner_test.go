package corepkg

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternerIsIdempotent(t *testing.T) {
	in := NewInterner[string]()
	a := in.Intern("foo")
	b := in.Intern("foo")
	assert.Equal(t, a, b)
}

func TestInternerDistinctKeysDistinctIds(t *testing.T) {
	in := NewInterner[string]()
	a := in.Intern("foo")
	b := in.Intern("bar")
	assert.NotEqual(t, a, b)
}

func TestInternerReverseLookup(t *testing.T) {
	in := NewInterner[string]()
	id := in.Intern("foo")
	key, ok := in.Key(id)
	require.True(t, ok)
	assert.Equal(t, "foo", key)

	_, ok = in.Key(id + 1)
	assert.False(t, ok)
}

func TestInternerConcurrentInternSameKey(t *testing.T) {
	in := NewInterner[string]()
	var wg sync.WaitGroup
	ids := make([]uint32, 64)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = in.Intern("shared")
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, 1, in.Len())
}

func TestClassInternerSameNameDifferentProjects(t *testing.T) {
	c := NewClassInterner()
	id1 := c.Intern(ProjectId(1), "com.example.Foo")
	id2 := c.Intern(ProjectId(2), "com.example.Foo")
	assert.NotEqual(t, id1, id2, "same binary name in two projects must get distinct ClassIds")

	again := c.Intern(ProjectId(1), "com.example.Foo")
	assert.Equal(t, id1, again)
}

func TestClassInternerSurvivesNoEviction(t *testing.T) {
	// The class interner has no eviction API at all: it is process
	// lifetime by construction (spec.md §4.4). We assert that repeated
	// lookups after many other interns keep returning the same id.
	c := NewClassInterner()
	first := c.Intern(ProjectId(0), "a.B")
	for i := 0; i < 1000; i++ {
		c.Intern(ProjectId(0), TypeName(fmt.Sprintf("pkg.Gen%d", i)))
	}
	again, ok := c.Lookup(ProjectId(0), "a.B")
	require.True(t, ok)
	assert.Equal(t, first, again)
}
