package corepkg

import "sync"

// Interner is a concurrency-safe bijection between a comparable key type
// and a dense uint32 id, allocated starting at 0. It is intentionally
// process-lifetime and lives outside the incremental database: salsadb's
// memo eviction must never renumber an id (spec.md §4.4, §9 "Global
// state"), so callers hand this structure to the DB by reference rather
// than storing it as a memoized value.
//
// Grounded on original_source/crates/nova-db/src/salsa/class_ids.rs's
// ClassIdInterner (HashMap + Vec pair, dense ids, reverse lookup).
type Interner[K comparable] struct {
	mu    sync.RWMutex
	byKey map[K]uint32
	byID  []K
}

// NewInterner creates an empty interner.
func NewInterner[K comparable]() *Interner[K] {
	return &Interner[K]{byKey: make(map[K]uint32)}
}

// Intern returns the existing id for key, or allocates and returns a
// fresh dense id if key has not been seen before.
func (in *Interner[K]) Intern(key K) uint32 {
	in.mu.RLock()
	if id, ok := in.byKey[key]; ok {
		in.mu.RUnlock()
		return id
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.byKey[key]; ok {
		return id
	}
	if len(in.byID) >= 1<<32-1 {
		panic("corepkg: Interner exhausted: more than 2^32-1 distinct keys")
	}
	id := uint32(len(in.byID))
	in.byID = append(in.byID, key)
	in.byKey[key] = id
	return id
}

// Lookup returns the id already assigned to key without allocating one.
func (in *Interner[K]) Lookup(key K) (uint32, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	id, ok := in.byKey[key]
	return id, ok
}

// Key reverse-looks-up the key for a previously allocated id.
func (in *Interner[K]) Key(id uint32) (K, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) >= len(in.byID) {
		var zero K
		return zero, false
	}
	return in.byID[id], true
}

// Len returns the number of distinct keys interned so far.
func (in *Interner[K]) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.byID)
}

// ClassKey identifies a class within a project for the ClassId interner.
// The same binary name in two projects yields two distinct ClassIds.
type ClassKey struct {
	Project    ProjectId
	BinaryName TypeName
}

// ClassInterner is the process-lifetime (ProjectId, binary name) -> ClassId
// interner described in spec.md §4.4.
type ClassInterner struct {
	inner *Interner[ClassKey]
}

// NewClassInterner creates an empty class interner.
func NewClassInterner() *ClassInterner {
	return &ClassInterner{inner: NewInterner[ClassKey]()}
}

// Intern allocates or reuses a ClassId for (project, binaryName).
func (c *ClassInterner) Intern(project ProjectId, binaryName TypeName) ClassId {
	return ClassId(c.inner.Intern(ClassKey{Project: project, BinaryName: binaryName}))
}

// Lookup returns the ClassId already assigned to (project, binaryName), if any.
func (c *ClassInterner) Lookup(project ProjectId, binaryName TypeName) (ClassId, bool) {
	id, ok := c.inner.Lookup(ClassKey{Project: project, BinaryName: binaryName})
	return ClassId(id), ok
}

// Key reverse-looks-up the ClassKey for a ClassId.
func (c *ClassInterner) Key(id ClassId) (ClassKey, bool) {
	return c.inner.Key(uint32(id))
}

// SymbolKey identifies a symbol within a project for the SymbolId interner.
type SymbolKey struct {
	Project       ProjectId
	QualifiedName QualifiedName
}

// SymbolInterner is the process-lifetime (ProjectId, qualified name) ->
// SymbolId interner used by the reference/rename index, with the same
// shape as ClassInterner.
type SymbolInterner struct {
	inner *Interner[SymbolKey]
}

// NewSymbolInterner creates an empty symbol interner.
func NewSymbolInterner() *SymbolInterner {
	return &SymbolInterner{inner: NewInterner[SymbolKey]()}
}

// Intern allocates or reuses a SymbolId for (project, qualifiedName).
func (s *SymbolInterner) Intern(project ProjectId, qualifiedName QualifiedName) SymbolId {
	return SymbolId(s.inner.Intern(SymbolKey{Project: project, QualifiedName: qualifiedName}))
}

// Lookup returns the SymbolId already assigned, if any.
func (s *SymbolInterner) Lookup(project ProjectId, qualifiedName QualifiedName) (SymbolId, bool) {
	id, ok := s.inner.Lookup(SymbolKey{Project: project, QualifiedName: qualifiedName})
	return SymbolId(id), ok
}
