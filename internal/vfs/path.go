// Package vfs is Nova's virtual filesystem: the sole source of file
// content for the rest of the core, under four path kinds (local,
// archive entry, decompiled document, opaque URI), overlaid with unsaved
// editor buffers (spec.md §4.1).
package vfs

import "fmt"

// PathKind discriminates the four path shapes a Vfs can name.
type PathKind int

const (
	// KindLocal is a filesystem path, stored exactly as passed to
	// LocalPath: it is neither cleaned nor made absolute.
	KindLocal PathKind = iota
	// KindArchive is a (jar_or_jmod_path, internal_entry) pair.
	KindArchive
	// KindDecompiled is a synthetic nova-decompiled://... document.
	KindDecompiled
	// KindOpaque is an editor-only URI/buffer with no disk backing.
	KindOpaque
)

// Path is a value-comparable description of one of the four VFS path
// kinds. Two Paths compare equal (via ==) iff all their fields are equal;
// two different spellings of one local file are different Paths.
type Path struct {
	Kind PathKind

	// Local: the path as given to LocalPath.
	Local string

	// Archive: the jar/jmod file path plus the internal zip entry name.
	ArchiveContainer string
	ArchiveEntry     string

	// Decompiled: content hash and binary name forming the synthetic URI.
	DecompiledHash       string
	DecompiledBinaryName string

	// Opaque: an arbitrary editor-supplied URI string.
	Opaque string
}

// LocalPath constructs a local-path Path.
func LocalPath(path string) Path { return Path{Kind: KindLocal, Local: path} }

// ArchivePath constructs an archive-entry Path.
func ArchivePath(container, entry string) Path {
	return Path{Kind: KindArchive, ArchiveContainer: container, ArchiveEntry: entry}
}

// DecompiledPath constructs a synthetic decompiled-document Path.
func DecompiledPath(contentHash, binaryName string) Path {
	return Path{Kind: KindDecompiled, DecompiledHash: contentHash, DecompiledBinaryName: binaryName}
}

// OpaquePath constructs an opaque editor-URI Path.
func OpaquePath(uri string) Path { return Path{Kind: KindOpaque, Opaque: uri} }

// String renders a Path in its canonical textual form: the local path
// as-is, an archive entry as "container!/entry", a decompiled document
// as "nova-decompiled://<hash>/<binary-name>", and an opaque path as the
// raw URI.
func (p Path) String() string {
	switch p.Kind {
	case KindLocal:
		return p.Local
	case KindArchive:
		return fmt.Sprintf("%s!/%s", p.ArchiveContainer, p.ArchiveEntry)
	case KindDecompiled:
		return fmt.Sprintf("nova-decompiled://%s/%s", p.DecompiledHash, p.DecompiledBinaryName)
	case KindOpaque:
		return p.Opaque
	default:
		return "<invalid-path>"
	}
}
