// Package corepkg holds the interned identifiers and textual primitives
// shared by every other Nova package: file/project/source-root/class ids,
// byte ranges, and line indexes. Nothing here depends on parsing, the
// incremental database, or any IDE feature.
package corepkg

import "fmt"

// FileId is a dense, process-stable identifier allocated by the VFS the
// first time a path is observed. FileId is never reused.
type FileId uint32

func (f FileId) String() string { return fmt.Sprintf("FileId(%d)", uint32(f)) }

// ProjectId identifies one logical build unit.
type ProjectId uint32

func (p ProjectId) String() string { return fmt.Sprintf("ProjectId(%d)", uint32(p)) }

// SourceRootId identifies a source root within a project.
type SourceRootId uint32

func (s SourceRootId) String() string { return fmt.Sprintf("SourceRootId(%d)", uint32(s)) }

// ClassId is a dense identifier allocated by the (ProjectId, binary name)
// interner. The same binary name in two projects gets two distinct ids.
type ClassId uint32

func (c ClassId) String() string { return fmt.Sprintf("ClassId(%d)", uint32(c)) }

// SymbolId is a dense identifier allocated by the (ProjectId, qualified
// name) interner, used for cross-file reference/rename indexing.
type SymbolId uint32

func (s SymbolId) String() string { return fmt.Sprintf("SymbolId(%d)", uint32(s)) }
