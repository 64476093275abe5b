// Package shardworker implements one shard's side of the router/worker
// protocol (spec.md §4.8): it answers IndexShard, UpdateFile, and Query
// requests by driving the lexer/parser, HIR, and typecheck packages over
// the shard's slice of the workspace, entirely in memory.
//
// A shard rebuilds its workspace-wide hir.WorkspaceDefMap from scratch on
// every IndexShard or UpdateFile request rather than threading updates
// through internal/salsadb's memoized queries: salsadb's Query[K,V]
// generic targets a single process computing over one ever-growing
// revision history, while a shard's index is small enough (one source
// root) that a full rebuild on every file-set change is cheap and keeps
// the WorkspaceDefMap's "stable file order decides the collision winner"
// invariant trivially correct.
package shardworker

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"

	"github.com/nova-lang/nova/internal/corepkg"
	"github.com/nova-lang/nova/internal/hir"
	"github.com/nova-lang/nova/internal/ide"
	"github.com/nova-lang/nova/internal/rpc"
	"github.com/nova-lang/nova/internal/syntax"
	"github.com/nova-lang/nova/internal/typecheck"
	"github.com/nova-lang/nova/internal/vfs"
)

// fileState is everything the shard remembers about one indexed file.
type fileState struct {
	path string
	text string
	tree *hir.ItemTree
	defs *hir.DefMap
}

// Shard answers router requests for one workspace shard. The zero value
// is not usable; construct with New.
type Shard struct {
	id     uint32
	logger zerolog.Logger

	mu         sync.RWMutex
	vfs        *vfs.Vfs
	files      map[corepkg.FileId]*fileState
	order      []corepkg.FileId // stable AddFile order, oldest first
	workspace  *hir.WorkspaceDefMap
	revision   uint64
	generation uint64
}

// New creates an empty shard identified by id.
func New(id uint32, logger zerolog.Logger) *Shard {
	return &Shard{
		id:        id,
		logger:    logger,
		vfs:       vfs.New(),
		files:     make(map[corepkg.FileId]*fileState),
		workspace: hir.NewWorkspaceDefMap(),
	}
}

// Handle implements worker.Handler.
func (s *Shard) Handle(req rpc.Request) rpc.Response {
	switch req.Kind {
	case rpc.RequestIndexShard:
		return s.handleIndexShard(req.IndexShard)
	case rpc.RequestUpdateFile:
		return s.handleUpdateFile(req.UpdateFile)
	case rpc.RequestQuery:
		return s.handleQuery(req.Query)
	default:
		return rpc.Response{Err: fmt.Sprintf("shardworker: unrecognized request kind %d", req.Kind)}
	}
}

// CachedIndexInfo reports what this shard already holds, for a worker's
// Hello handshake (spec.md §4.8's "durable cache reuse").
func (s *Shard) CachedIndexInfo() *rpc.CachedIndexInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.files) == 0 {
		return nil
	}
	return &rpc.CachedIndexInfo{
		Revision:        s.revision,
		IndexGeneration: s.generation,
		SymbolCount:     s.symbolCountLocked(),
	}
}

func (s *Shard) symbolCountLocked() uint64 {
	var n uint64
	for _, f := range s.files {
		n += uint64(len(f.tree.Types))
	}
	return n
}

// Stats is this shard's periodic self-report.
func (s *Shard) Stats() rpc.WorkerStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return rpc.WorkerStats{
		ShardID:         s.id,
		Revision:        s.revision,
		IndexGeneration: s.generation,
		FileCount:       uint64(len(s.files)),
	}
}

func (s *Shard) handleIndexShard(req *rpc.IndexShardRequest) rpc.Response {
	if req == nil {
		return rpc.Response{Err: "shardworker: index_shard request missing body"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.files = make(map[corepkg.FileId]*fileState, len(req.Files))
	s.order = s.order[:0]
	for _, f := range req.Files {
		id := s.vfs.IDFor(vfs.LocalPath(f.Path))
		s.vfs.Open(vfs.LocalPath(f.Path), f.Text, 0)
		s.indexFileLocked(id, f.Path, f.Text)
	}
	s.rebuildWorkspaceLocked()
	s.revision = req.Revision
	s.generation++

	s.logger.Info().Uint32("shard_id", s.id).Int("files", len(req.Files)).
		Uint64("revision", s.revision).Msg("indexed shard")

	return rpc.Response{IndexDigest: &rpc.IndexDigest{
		ShardID:    s.id,
		Revision:   s.revision,
		Generation: s.generation,
	}}
}

func (s *Shard) handleUpdateFile(req *rpc.UpdateFileRequest) rpc.Response {
	if req == nil {
		return rpc.Response{Err: "shardworker: update_file request missing body"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.vfs.IDFor(vfs.LocalPath(req.Path))
	if _, existed := s.files[id]; existed {
		s.vfs.Change(vfs.LocalPath(req.Path), req.Text, 0)
	} else {
		s.vfs.Open(vfs.LocalPath(req.Path), req.Text, 0)
	}
	s.indexFileLocked(id, req.Path, req.Text)
	s.rebuildWorkspaceLocked()
	s.revision = req.Revision
	s.generation++

	return rpc.Response{IndexDigest: &rpc.IndexDigest{
		ShardID:    s.id,
		Revision:   s.revision,
		Generation: s.generation,
	}}
}

// indexFileLocked (re)parses path's text and stores its lowered tree,
// appending id to the stable order the first time it's seen. Callers
// must hold s.mu.
func (s *Shard) indexFileLocked(id corepkg.FileId, path, text string) {
	sf, _ := syntax.NewSourceFile([]byte(text))
	tree := hir.BuildItemTree(id, sf)
	if _, existed := s.files[id]; !existed {
		s.order = append(s.order, id)
	}
	s.files[id] = &fileState{
		path: path,
		text: text,
		tree: tree,
		defs: hir.BuildDefMap(tree),
	}
}

// rebuildWorkspaceLocked recomputes s.workspace from s.files in stable
// s.order, so binary-name collisions resolve the same way regardless of
// which file most recently changed. Callers must hold s.mu.
func (s *Shard) rebuildWorkspaceLocked() {
	s.workspace = hir.NewWorkspaceDefMap()
	for _, id := range s.order {
		f, ok := s.files[id]
		if !ok {
			continue
		}
		s.workspace.AddFile(f.tree)
	}
}

func (s *Shard) pathResolver() ide.PathResolver {
	return func(id corepkg.FileId) (string, bool) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		f, ok := s.files[id]
		if !ok {
			return "", false
		}
		return f.path, true
	}
}

func (s *Shard) handleQuery(req *rpc.QueryRequest) rpc.Response {
	if req == nil {
		return rpc.Response{Err: "shardworker: query request missing body"}
	}

	var (
		result any
		err    error
	)
	switch req.Method {
	case "completion":
		result, err = s.queryCompletion(req.Params)
	case "definition", "declaration", "type_definition":
		result, err = s.queryNavigation(req.Method, req.Params)
	case "implementations":
		result, err = s.queryNavigation(req.Method, req.Params)
	case "references":
		result, err = s.queryNavigation(req.Method, req.Params)
	case "diagnostics":
		result, err = s.queryDiagnostics(req.Params)
	default:
		return rpc.Response{Err: fmt.Sprintf("shardworker: unrecognized query method %q", req.Method)}
	}
	if err != nil {
		return rpc.Response{Err: err.Error()}
	}

	encoded, err := cbor.Marshal(result)
	if err != nil {
		return rpc.Response{Err: fmt.Sprintf("shardworker: encode query result: %v", err)}
	}
	return rpc.Response{QueryResult: encoded}
}

// CompletionParams is the "completion" query's decoded parameters.
type CompletionParams struct {
	Prefix string `cbor:"prefix"`
	Limit  int    `cbor:"limit"`
}

// CompletionItemResult is one completion candidate on the wire.
type CompletionItemResult struct {
	Label      string `cbor:"label"`
	Detail     string `cbor:"detail"`
	Kind       int    `cbor:"kind"`
	SortKey    string `cbor:"sort_key"`
	InsertText string `cbor:"insert_text"`
	FilterText string `cbor:"filter_text"`
}

// CompletionResult is the "completion" query's encoded result.
type CompletionResult struct {
	Items []CompletionItemResult `cbor:"items"`
}

// queryCompletion offers every workspace type whose simple name
// fuzzy-matches params.Prefix as a global candidate. There is no
// scope-aware contextual strategy here: that needs a resolved receiver
// type and a cursor position inside a parsed method body, neither of
// which this signature-only shard tracks (HIR never lowers bodies).
func (s *Shard) queryCompletion(raw cbor.RawMessage) (CompletionResult, error) {
	var params CompletionParams
	if err := cbor.Unmarshal(raw, &params); err != nil {
		return CompletionResult{}, fmt.Errorf("decode completion params: %w", err)
	}

	s.mu.RLock()
	var global []ide.CompletionItem
	for _, f := range s.files {
		for _, td := range f.tree.Types {
			simple := string(td.Name)
			if params.Prefix != "" && !ide.FuzzyMatch(params.Prefix, simple) {
				continue
			}
			global = append(global, ide.CompletionItem{
				Label:      simple,
				Detail:     string(td.BinaryName),
				Kind:       ide.KindType,
				SortKey:    simple,
				InsertText: simple,
				FilterText: simple,
			})
		}
	}
	s.mu.RUnlock()

	ranked := ide.Rank(nil, global, params.Limit)
	out := make([]CompletionItemResult, 0, len(ranked))
	for _, item := range ranked {
		out = append(out, CompletionItemResult{
			Label:      item.Label,
			Detail:     item.Detail,
			Kind:       int(item.Kind),
			SortKey:    item.SortKey,
			InsertText: item.InsertText,
			FilterText: item.FilterText,
		})
	}
	return CompletionResult{Items: out}, nil
}

// NavigationParams is the shared parameter shape for definition,
// declaration, type_definition, implementations, and references
// queries: all resolve from a binary type name.
type NavigationParams struct {
	BinaryName string `cbor:"binary_name"`
}

// LocationResult is one source location on the wire.
type LocationResult struct {
	Path  string `cbor:"path"`
	Start uint32 `cbor:"start"`
	End   uint32 `cbor:"end"`
}

// LocationsResult is a navigation query's encoded result.
type LocationsResult struct {
	Locations []LocationResult `cbor:"locations"`
}

func (s *Shard) queryNavigation(method string, raw cbor.RawMessage) (LocationsResult, error) {
	var params NavigationParams
	if err := cbor.Unmarshal(raw, &params); err != nil {
		return LocationsResult{}, fmt.Errorf("decode navigation params: %w", err)
	}

	s.mu.RLock()
	trees := make([]*hir.ItemTree, 0, len(s.files))
	for _, id := range s.order {
		if f, ok := s.files[id]; ok {
			trees = append(trees, f.tree)
		}
	}
	workspace := s.workspace
	s.mu.RUnlock()

	idx := ide.NewIndex(trees, workspace, s.pathResolver())
	name := corepkg.TypeName(params.BinaryName)

	var locs []ide.Location
	switch method {
	case "definition":
		locs = idx.GotoDefinition(name)
	case "declaration":
		locs = idx.Declaration(name)
	case "type_definition":
		locs = idx.TypeDefinition(name)
	case "implementations":
		locs = idx.Implementations(name)
	case "references":
		locs = idx.FindReferences(name)
	default:
		return LocationsResult{}, fmt.Errorf("shardworker: unrecognized navigation method %q", method)
	}

	out := make([]LocationResult, 0, len(locs))
	for _, l := range locs {
		out = append(out, LocationResult{Path: l.Path, Start: l.Range.Start, End: l.Range.End})
	}
	return LocationsResult{Locations: out}, nil
}

// DiagnosticsParams names the single file a diagnostics query checks.
type DiagnosticsParams struct {
	Path string `cbor:"path"`
}

// DiagnosticResult is one typecheck.Diagnostic on the wire.
type DiagnosticResult struct {
	Severity int    `cbor:"severity"`
	Code     string `cbor:"code"`
	Message  string `cbor:"message"`
	Start    uint32 `cbor:"start"`
	End      uint32 `cbor:"end"`
}

// DiagnosticsResult is a diagnostics query's encoded result.
type DiagnosticsResult struct {
	Diagnostics []DiagnosticResult `cbor:"diagnostics"`
}

// queryDiagnostics type-checks one already-indexed file's declaration
// headers against the shard's current workspace. No classpath stubs are
// wired in: this shard indexes one source-root tree, with no loaded
// .class/jmod classpath of its own (that's internal/classfile's concern,
// fed in by a caller that owns the project's compile classpath).
func (s *Shard) queryDiagnostics(raw cbor.RawMessage) (DiagnosticsResult, error) {
	var params DiagnosticsParams
	if err := cbor.Unmarshal(raw, &params); err != nil {
		return DiagnosticsResult{}, fmt.Errorf("decode diagnostics params: %w", err)
	}

	s.mu.RLock()
	var target *fileState
	for _, id := range s.order {
		f, ok := s.files[id]
		if ok && f.path == params.Path {
			target = f
			break
		}
	}
	workspace := s.workspace
	s.mu.RUnlock()

	if target == nil {
		return DiagnosticsResult{}, fmt.Errorf("shardworker: %s is not indexed on this shard", params.Path)
	}

	store := typecheck.NewTypeStore()
	resolver := typecheck.NewResolver(workspace, nil, store)
	checker := typecheck.NewChecker(resolver, store)

	var imports []hir.Import
	s.mu.RLock()
	if f, ok := s.files[target.tree.File]; ok {
		imports = f.tree.Imports
	}
	s.mu.RUnlock()

	diags := checker.CheckFile(target.tree, target.defs, imports)
	sort.Slice(diags, func(i, j int) bool { return diags[i].Range.Start < diags[j].Range.Start })

	out := make([]DiagnosticResult, 0, len(diags))
	for _, d := range diags {
		out = append(out, DiagnosticResult{
			Severity: int(d.Severity),
			Code:     d.Code,
			Message:  d.Message,
			Start:    d.Range.Start,
			End:      d.Range.End,
		})
	}
	return DiagnosticsResult{Diagnostics: out}, nil
}
