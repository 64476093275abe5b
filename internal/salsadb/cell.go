package salsadb

// Cell is a typed input, the only way values enter the DB from outside:
// file text, project config, the JDK index, the classpath index, module
// config, and open-document versions are all represented as Cells.
type Cell[T any] struct {
	db  *DB
	key Key
}

// NewCell declares an input cell at key with an initial value. Two Cells
// constructed with the same key on the same DB alias the same storage.
func NewCell[T any](db *DB, key Key, initial T) *Cell[T] {
	c := &Cell[T]{db: db, key: key}
	c.Set(initial)
	return c
}

// Set overwrites the cell's value. The DB's revision advances only if
// the new value differs from the old one.
func (c *Cell[T]) Set(value T) {
	c.db.setInput(c.key, value)
}

// Get reads the cell's current value. If ctx is non-nil (the read
// happens inside a derived query's Compute), the read is recorded as a
// dependency of that query.
func (c *Cell[T]) Get(ctx *QueryCtx) T {
	if ctx != nil {
		ctx.track(c.key)
	}
	v, ok := c.db.getInput(c.key)
	if !ok {
		var zero T
		return zero
	}
	return v.(T)
}
