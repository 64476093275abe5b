package vfs

import "sync"

// overlayEntry is one open editor buffer. Version is advisory; Nova does
// not reject out-of-order changes, it just applies them in arrival order
// (spec.md §4.1).
type overlayEntry struct {
	text    string
	version int32
}

// overlay is the VFS's single-writer-lock editor buffer store.
type overlay struct {
	mu      sync.RWMutex
	buffers map[string]*overlayEntry
}

func newOverlay() *overlay {
	return &overlay{buffers: make(map[string]*overlayEntry)}
}

// Open creates (or replaces) an open buffer for path.
func (o *overlay) Open(key string, text string, version int32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.buffers[key] = &overlayEntry{text: text, version: version}
}

// Change replaces the text of an already-open buffer. If the buffer was
// not open (e.g. a change arriving before its open, or after a race),
// it is created, matching didOpen's "creates" / didChange's "replaces"
// semantics as a single idempotent operation.
func (o *overlay) Change(key string, text string, version int32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.buffers[key] = &overlayEntry{text: text, version: version}
}

// Close releases an open buffer back to disk content.
func (o *overlay) Close(key string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.buffers, key)
}

// Get returns the overlay text for key, if a buffer is open.
func (o *overlay) Get(key string) (string, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	e, ok := o.buffers[key]
	if !ok {
		return "", false
	}
	return e.text, true
}
