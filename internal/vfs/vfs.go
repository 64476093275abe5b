package vfs

import (
	"archive/zip"
	"io"
	"os"
	"sync"
	"unicode/utf8"

	"github.com/nova-lang/nova/internal/corepkg"
)

// Vfs assigns stable FileIds to paths and serves their content, with the
// editor overlay winning over disk/archive/decompiled content (spec.md
// §4.1).
type Vfs struct {
	mu       sync.RWMutex
	idByPath map[string]corepkg.FileId
	pathByID []Path
	overlay  *overlay
	decomp   *decompiledStore
}

// New creates an empty Vfs.
func New() *Vfs {
	return &Vfs{
		idByPath: make(map[string]corepkg.FileId),
		overlay:  newOverlay(),
		decomp:   newDecompiledStore(defaultDecompiledByteBudget),
	}
}

// IDFor is idempotent: it allocates a fresh dense FileId on first
// observation of path, and returns the existing one afterwards.
func (v *Vfs) IDFor(path Path) corepkg.FileId {
	key := path.String()

	v.mu.RLock()
	if id, ok := v.idByPath[key]; ok {
		v.mu.RUnlock()
		return id
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()
	if id, ok := v.idByPath[key]; ok {
		return id
	}
	id := corepkg.FileId(len(v.pathByID))
	v.pathByID = append(v.pathByID, path)
	v.idByPath[key] = id
	return id
}

// PathFor is the reverse lookup of IDFor. It returns false if id was
// never allocated by this Vfs.
func (v *Vfs) PathFor(id corepkg.FileId) (Path, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if int(id) >= len(v.pathByID) {
		return Path{}, false
	}
	return v.pathByID[id], true
}

// ReadToString returns path's content: the overlay wins if path has an
// open editor buffer, otherwise it is read from disk, an archive entry,
// or the decompiled store.
func (v *Vfs) ReadToString(path Path) (string, error) {
	key := path.String()
	if text, ok := v.overlay.Get(key); ok {
		return text, nil
	}

	switch path.Kind {
	case KindLocal:
		return readLocal(path.Local)
	case KindArchive:
		return readArchiveEntry(path.ArchiveContainer, path.ArchiveEntry)
	case KindDecompiled:
		if text, ok := v.decomp.Get(path); ok {
			return text, nil
		}
		return "", ErrNotFound
	case KindOpaque:
		// Opaque/editor-only buffers with no overlay and no disk backing
		// are "missing", not empty: the caller must have opened one.
		return "", ErrNotFound
	default:
		return "", ErrUnsupported
	}
}

// PutDecompiled seeds the in-memory decompiled document store (the
// decompiler itself is an external collaborator per spec.md §1; Nova
// only owns the storage and FileId assignment for its output).
func (v *Vfs) PutDecompiled(path Path, text string) {
	v.decomp.Put(path, text)
}

// Open creates an editor overlay buffer for path.
func (v *Vfs) Open(path Path, text string, version int32) {
	v.overlay.Open(path.String(), text, version)
}

// Change replaces an editor overlay buffer's text for path.
func (v *Vfs) Change(path Path, text string, version int32) {
	v.overlay.Change(path.String(), text, version)
}

// Close releases path's overlay buffer back to disk content.
func (v *Vfs) Close(path Path) {
	v.overlay.Close(path.String())
}

func readLocal(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		if os.IsPermission(err) {
			return "", ErrPermissionDenied
		}
		return "", err
	}
	if !utf8.Valid(data) {
		return "", ErrInvalidData
	}
	return string(data), nil
}

func readArchiveEntry(container, entry string) (string, error) {
	r, err := zip.OpenReader(container)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != entry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return "", err
		}
		if !utf8.Valid(data) {
			return "", ErrInvalidData
		}
		return string(data), nil
	}
	return "", ErrNotFound
}
