package cache

// SchemaVersion is the on-disk cache format's version. NovaVersion is
// this build's version string. Both must match exactly on load or the
// entry is treated as missing (spec.md §4.7, validation rule 1) —
// never an error, just a cache miss that triggers recomputation.
const SchemaVersion = 1

// NovaVersion is overridden at link time in a real build; the default
// value "dev" still round-trips correctly through every test in this
// package since both sides of a comparison read it from the same
// process.
var NovaVersion = "dev"

// ASTHeader is the header every AST metadata.bin file starts with.
// Matches on load compares it field-for-field against what the
// caller expects before trusting the sibling artifact file.
type ASTHeader struct {
	SchemaVersion int
	NovaVersion   string
	FilePath      string
	Fingerprint   Fingerprint
}

// Matches reports whether h is exactly the header a fresh cache entry
// for (filePath, fp) would have. A header built with a different
// schema or Nova version, a different file path, or a stale
// fingerprint is stale — the caller treats it as a miss, never an
// error.
func (h ASTHeader) Matches(filePath string, fp Fingerprint) bool {
	return h.SchemaVersion == SchemaVersion &&
		h.NovaVersion == NovaVersion &&
		h.FilePath == filePath &&
		h.Fingerprint == fp
}

// NewASTHeader builds the header for a freshly computed cache entry.
func NewASTHeader(filePath string, fp Fingerprint) ASTHeader {
	return ASTHeader{SchemaVersion: SchemaVersion, NovaVersion: NovaVersion, FilePath: filePath, Fingerprint: fp}
}

// BuildCacheEntry is one build-system cache's on-disk shape: the
// digests of every file that contributed to it, re-verified on load
// (spec.md §4.7, validation rule 3) rather than trusted from the
// fingerprint alone, since a build cache's fingerprint covers the
// build file set, not every transitively-read source file.
type BuildCacheEntry struct {
	SchemaVersion int
	NovaVersion   string
	BuildSystem   string
	Fingerprint   Fingerprint
	Digests       map[string]Fingerprint // relative path -> per-file fingerprint
	Payload       []byte                 // the cached build graph/config, opaque to this package
}

// Stale reports whether recomputed digests for entry's contributing
// files differ from what was recorded, or the schema/version no
// longer matches. A stale entry is a miss, not an error.
func (e BuildCacheEntry) Stale(recomputed map[string]Fingerprint) bool {
	if e.SchemaVersion != SchemaVersion || e.NovaVersion != NovaVersion {
		return true
	}
	if len(recomputed) != len(e.Digests) {
		return true
	}
	for path, want := range e.Digests {
		if got, ok := recomputed[path]; !ok || got != want {
			return true
		}
	}
	return false
}
