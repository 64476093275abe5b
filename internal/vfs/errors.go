package vfs

import "errors"

// Sentinel errors for Vfs.ReadToString, matching spec.md §4.1's failure
// semantics: missing files are reported as NotFound, never as empty
// content. Callers that want "missing ≡ empty" convert explicitly.
var (
	ErrNotFound         = errors.New("vfs: not found")
	ErrPermissionDenied = errors.New("vfs: permission denied")
	ErrInvalidData      = errors.New("vfs: invalid data (non-UTF-8)")
	ErrUnsupported      = errors.New("vfs: unsupported operation on this path kind")
)
